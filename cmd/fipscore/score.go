package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/fipscore/internal/casefile"
	"github.com/dshills/fipscore/internal/locale"
	"github.com/dshills/fipscore/internal/render"
	"github.com/dshills/fipscore/internal/report"
	"github.com/dshills/fipscore/internal/score"
	"github.com/dshills/fipscore/internal/usage"
	"github.com/spf13/cobra"
)

type scoreFlags struct {
	file            string
	format          string
	out             string
	lenient         bool
	failOnSuspected bool
}

func newScoreCmd(a *app) *cobra.Command {
	f := &scoreFlags{}

	cmd := &cobra.Command{
		Use:   "score [criterion...]",
		Short: "Compute the FIP-Score for the criteria present",
		Long: "Compute the FIP-Score. Criteria are given as arguments (space or comma separated)\n" +
			"and/or read from a case file. Valid ids: " + criteriaList() + ".",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lenient") {
				f.lenient = a.cfg.Lenient
			}
			return runScore(cmd.Context(), a, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.file, "file", "", "Case file (yaml, json, toml or one id per line)")
	flags.StringVar(&f.format, "format", string(render.FormatText), "Output format: text, md or json")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.BoolVar(&f.lenient, "lenient", false, "Ignore unknown criteria instead of failing")
	flags.BoolVar(&f.failOnSuspected, "fail-on-suspected", false, "Exit with code 2 when the score reaches the threshold")

	return cmd
}

func runScore(ctx context.Context, a *app, args []string, f *scoreFlags) error {
	format := render.Format(strings.ToLower(f.format))
	if !format.Valid() {
		return exitError(exitInvalidInput, "unknown format: %s", f.format)
	}

	// 1. Collect ids
	raw := splitIDs(args)
	in := report.Input{Strict: !f.lenient}
	if f.file != "" {
		a.log.Debug("loading case file", "path", f.file)
		c, err := casefile.Load(f.file)
		if err != nil {
			return exitError(exitInvalidInput, "failed to load case file: %v", err)
		}
		raw = append(raw, c.Criteria...)
		in.CaseFile = filepath.Base(c.FilePath)
		in.CaseHash = c.Hash
	}
	in.Criteria = raw

	// 2. Score
	res, dropped, err := evaluate(raw, f.lenient)
	if err != nil {
		return exitError(exitInvalidInput, "invalid criteria: %v", err)
	}
	if len(dropped) > 0 {
		a.log.Warn("ignoring unknown criteria", "criteria", dropped)
		in.Dropped = dropped
	}
	a.log.Debug("score computed", "score", res.Score, "classification", res.Classification)

	// 3. Build and check the report
	loc, err := a.locale(ctx)
	if err != nil {
		return err
	}
	rep, err := report.New(version, loc, in, res)
	if err != nil {
		return err
	}
	if errs := report.Validate(rep); len(errs) > 0 {
		return fmt.Errorf("inconsistent report: %w", joinValidation(errs))
	}

	a.tracker.Observe(ctx, res.Score)

	// 4. Output
	output, err := render.Render(format, rep, loc)
	if err != nil {
		return err
	}
	if f.out != "" {
		a.log.Debug("writing output", "path", f.out)
		if err := os.WriteFile(f.out, []byte(output), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Fprint(a.out, output)
	}

	if f.failOnSuspected && res.Suspected() {
		return exitError(exitSuspected, "score %d reaches threshold %d", res.Score, score.Threshold)
	}
	return nil
}

// evaluate scores raw ids. In strict mode any unknown or repeated id is an
// error; in lenient mode unknown ids are returned as dropped.
func evaluate(raw []string, lenient bool) (score.Result, []string, error) {
	if !lenient {
		crits, err := score.ParseCriteria(raw)
		if err != nil {
			return score.Result{}, nil, err
		}
		res, err := score.Evaluate(crits)
		return res, nil, err
	}

	crits := make([]score.Criterion, 0, len(raw))
	for _, s := range raw {
		c, err := score.ParseCriterion(s)
		if err != nil {
			c = score.Criterion(s)
		}
		crits = append(crits, c)
	}
	res, unknown := score.Lenient(crits)
	var dropped []string
	for _, c := range unknown {
		dropped = append(dropped, string(c))
	}
	return res, dropped, nil
}

func splitIDs(args []string) []string {
	var out []string
	for _, a := range args {
		for _, s := range strings.Split(a, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func criteriaList() string {
	all := score.All()
	ids := make([]string, len(all))
	for i, c := range all {
		ids[i] = string(c)
	}
	return strings.Join(ids, ", ")
}

func joinValidation(errs []report.ValidationError) error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return errors.Join(out...)
}

func newCriteriaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "criteria",
		Short: "List the criteria and their weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := a.locale(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, render.Criteria(loc))
			return nil
		},
	}
}

func newLangCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lang [en|fr]",
		Short: "Show or save the display language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				lang, err := a.language(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, lang)
				return nil
			}
			lang, err := locale.ParseLanguage(args[0])
			if err != nil {
				return exitError(exitInvalidInput, "%v", err)
			}
			if !a.persistent() {
				return exitError(exitStore, "language not saved: stats storage is disabled (--no-track or stats.disabled)")
			}
			if err := a.store.SetPreference(ctx, usage.PrefLanguage, string(lang)); err != nil {
				return exitError(exitStore, "failed to save language: %v", err)
			}
			fmt.Fprintf(a.out, "language set to %s\n", lang)
			return nil
		},
	}
}
