package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dshills/fipscore/internal/casefile"
	"github.com/dshills/fipscore/internal/locale"
	"github.com/dshills/fipscore/internal/render"
	"github.com/dshills/fipscore/internal/report"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "watch <case-file>",
		Short: "Re-score a case file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lenient") {
				lenient = a.cfg.Lenient
			}
			return runWatch(cmd.Context(), a, args[0], lenient)
		},
	}
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Ignore unknown criteria instead of failing")
	return cmd
}

// runWatch scores path once, then again on every write until ctx is done.
// The parent directory is watched because editors often replace files.
func runWatch(ctx context.Context, a *app, path string, lenient bool) error {
	loc, err := a.locale(ctx)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	rescore(ctx, a, loc, abs, lenient)
	for {
		select {
		case <-ctx.Done():
			a.tracker.Flush(context.WithoutCancel(ctx))
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			a.log.Debug("case file changed", "path", ev.Name, "op", ev.Op.String())
			rescore(ctx, a, loc, abs, lenient)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch error", "error", err)
		}
	}
}

// rescore prints the score of the case file. Errors are printed and the
// watch goes on, since the file may be mid-edit.
func rescore(ctx context.Context, a *app, loc *locale.Locale, path string, lenient bool) {
	c, err := casefile.Load(path)
	if err != nil {
		fmt.Fprintf(a.errOut, "%v\n", err)
		return
	}
	res, dropped, err := evaluate(c.Criteria, lenient)
	if err != nil {
		fmt.Fprintf(a.errOut, "%s: %v\n", filepath.Base(path), err)
		return
	}
	rep, err := report.New(version, loc, report.Input{
		CaseFile: filepath.Base(path),
		CaseHash: c.Hash,
		Criteria: c.Criteria,
		Dropped:  dropped,
		Strict:   !lenient,
	}, res)
	if err != nil {
		fmt.Fprintf(a.errOut, "%v\n", err)
		return
	}
	a.tracker.Observe(ctx, res.Score)
	fmt.Fprintf(a.out, "--- %s (%s)\n", filepath.Base(path), c.Hash[:19])
	fmt.Fprint(a.out, render.Text(rep, loc))
}
