package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/fipscore/internal/locale"
	"github.com/dshills/fipscore/internal/render"
	"github.com/dshills/fipscore/internal/report"
	"github.com/dshills/fipscore/internal/score"
	"github.com/dshills/fipscore/internal/usage"
	"github.com/spf13/cobra"
)

const interactiveHelp = `Commands:
  <id>...          toggle criteria
  set <id>...      select criteria
  unset <id>...    clear criteria
  reset            clear all criteria
  lang <en|fr>     switch and save the display language
  show             print the current score
  criteria         list criteria and weights
  stats            print usage statistics
  help             print this help
  quit             leave
`

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Toggle criteria one by one and watch the score change",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			loc, err := a.locale(ctx)
			if err != nil {
				return err
			}
			s := &session{a: a, loc: loc, selected: make(map[score.Criterion]bool)}
			return s.run(ctx)
		},
	}
}

// session owns the criterion selection. Every change is rescored at once.
type session struct {
	a        *app
	loc      *locale.Locale
	selected map[score.Criterion]bool
}

func (s *session) run(ctx context.Context) error {
	fmt.Fprintf(s.a.out, "%s\n%s\n\n", s.loc.Labels.Title, s.loc.Labels.Subtitle)
	fmt.Fprint(s.a.out, interactiveHelp)
	if err := s.show(); err != nil {
		return err
	}

	lines, scanErr := readLines(ctx, s.a.in)
	for {
		fmt.Fprint(s.a.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.a.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.a.out)
				return <-scanErr
			}
			quit, err := s.handle(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				fmt.Fprintln(s.a.out)
				return nil
			}
		}
	}
}

// readLines scans r on its own goroutine so a blocked read does not hold up
// cancellation. The error channel receives exactly one value before lines
// is closed.
func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		var err error
		defer func() {
			errc <- err
			close(lines)
		}()
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		err = sc.Err()
	}()
	return lines, errc
}

// handle executes one command line. Input mistakes are reported and the
// selection is left unchanged.
func (s *session) handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) == 0 {
		return false, nil
	}
	verb, rest := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprint(s.a.out, interactiveHelp)
		return false, nil
	case "show":
		return false, s.show()
	case "criteria":
		fmt.Fprint(s.a.out, render.Criteria(s.loc))
		return false, nil
	case "stats":
		st, err := s.a.tracker.Stats(ctx)
		if err != nil {
			fmt.Fprintf(s.a.errOut, "stats unavailable: %v\n", err)
			return false, nil
		}
		fmt.Fprintf(s.a.out, "total=%d suspicions=%d session=%d/%d last=%d\n",
			st.TotalCalculations, st.FIPSuspicions, st.SessionCalculations, st.SessionSuspicions, st.LastScore)
		return false, nil
	case "lang":
		return false, s.setLanguage(ctx, rest)
	case "reset":
		s.selected = make(map[score.Criterion]bool)
		return false, s.changed(ctx)
	case "set", "unset", "toggle":
	default:
		verb, rest = "toggle", fields
	}

	crits, err := score.ParseCriteria(rest)
	if err != nil {
		fmt.Fprintf(s.a.errOut, "%v (valid: %s)\n", err, criteriaList())
		return false, nil
	}
	if len(crits) == 0 {
		fmt.Fprintf(s.a.errOut, "%s needs at least one criterion\n", verb)
		return false, nil
	}
	for _, c := range crits {
		switch verb {
		case "set":
			s.selected[c] = true
		case "unset":
			delete(s.selected, c)
		default:
			if s.selected[c] {
				delete(s.selected, c)
			} else {
				s.selected[c] = true
			}
		}
	}
	return false, s.changed(ctx)
}

func (s *session) setLanguage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(s.a.errOut, "usage: lang <en|fr>")
		return nil
	}
	lang, err := locale.ParseLanguage(args[0])
	if err != nil {
		fmt.Fprintln(s.a.errOut, err)
		return nil
	}
	loc, err := locale.Load(lang)
	if err != nil {
		return err
	}
	s.loc = loc
	if !s.a.persistent() {
		s.a.log.Warn("language preference kept for this session only", "language", lang)
		return s.show()
	}
	if err := s.a.store.SetPreference(ctx, usage.PrefLanguage, string(lang)); err != nil {
		s.a.log.Warn("language preference not saved", "error", err)
	}
	return s.show()
}

func (s *session) criteria() []score.Criterion {
	out := make([]score.Criterion, 0, len(s.selected))
	for c := range s.selected {
		out = append(out, c)
	}
	return score.Normalize(out)
}

func (s *session) result() (score.Result, error) {
	return score.Evaluate(s.criteria())
}

func (s *session) changed(ctx context.Context) error {
	res, err := s.result()
	if err != nil {
		return err
	}
	s.a.tracker.Observe(ctx, res.Score)
	return s.print(res)
}

func (s *session) show() error {
	res, err := s.result()
	if err != nil {
		return err
	}
	return s.print(res)
}

func (s *session) print(res score.Result) error {
	ids := make([]string, 0, len(res.Criteria))
	for _, c := range res.Criteria {
		ids = append(ids, string(c))
	}
	rep, err := report.New(version, s.loc, report.Input{Criteria: ids, Strict: true}, res)
	if err != nil {
		return err
	}
	fmt.Fprint(s.a.out, render.Text(rep, s.loc))
	return nil
}
