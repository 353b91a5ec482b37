package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dshills/fipscore/internal/config"
	"github.com/dshills/fipscore/internal/locale"
	"github.com/dshills/fipscore/internal/logging"
	"github.com/dshills/fipscore/internal/usage"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuspected    = 2
	exitInvalidInput = 3
	exitStore        = 4
)

// app carries the dependencies shared by all commands. Fields left nil are
// filled in by setup; tests preset them.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg     *config.Config
	log     *slog.Logger
	store   usage.Store
	tracker *usage.Tracker

	langFlag  string
	statsPath string
	noTrack   bool
	verbose   bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "fipscore",
		Short:         "FIP-Score calculator for FIP1L1::PDGFRA-associated hypereosinophilic syndrome",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.langFlag, "lang", "", "Display language: en or fr (default: saved preference, then en)")
	flags.StringVar(&a.statsPath, "stats-db", "", "Path to the usage statistics database")
	flags.BoolVar(&a.noTrack, "no-track", false, "Do not record usage statistics")
	flags.BoolVar(&a.verbose, "verbose", false, "Print processing steps to stderr")

	root.AddCommand(
		newScoreCmd(a),
		newCriteriaCmd(a),
		newInteractiveCmd(a),
		newWatchCmd(a),
		newStatsCmd(a),
		newLangCmd(a),
		newVerifyCmd(a),
	)
	return root
}

// run executes the command line args and always releases the stats store,
// even when the command fails or ctx was cancelled by a signal.
func run(ctx context.Context, a *app, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)
	if terr := a.teardown(context.WithoutCancel(ctx)); terr != nil && err == nil {
		err = terr
	}
	return err
}

func (a *app) setup(ctx context.Context) error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return exitError(1, "failed to load config: %v", err)
		}
		a.cfg = cfg
	}
	if a.statsPath != "" {
		a.cfg.Stats.Path = a.statsPath
	}

	if a.log == nil {
		level := a.cfg.Log.Level
		if a.verbose {
			level = "debug"
		}
		a.log = logging.New(a.errOut, level, a.cfg.Log.Format)
	}

	if a.store == nil {
		if a.noTrack || a.cfg.Stats.Disabled {
			a.store = usage.NewMemStore()
		} else {
			a.log.Debug("opening stats database", "path", a.cfg.Stats.Path)
			s, err := usage.OpenSQLite(a.cfg.Stats.Path, a.log)
			if err != nil {
				return exitError(exitStore, "failed to open stats database: %v", err)
			}
			a.store = s
		}
	}

	if a.tracker == nil {
		a.tracker = usage.NewTracker(a.store,
			usage.WithDebounce(a.cfg.Stats.Debounce),
			usage.WithLogger(a.log),
		)
	}
	a.tracker.StartSession(ctx)
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.tracker != nil {
		a.tracker.Close(ctx)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("failed to close stats database: %w", err)
		}
	}
	return nil
}

// persistent reports whether the store outlives the process.
func (a *app) persistent() bool {
	return !a.noTrack && !a.cfg.Stats.Disabled
}

// language resolves the display language: flag, then config, then the
// saved preference, then English.
func (a *app) language(ctx context.Context) (locale.Language, error) {
	for _, s := range []string{a.langFlag, a.cfg.Language} {
		if s != "" {
			l, err := locale.ParseLanguage(s)
			if err != nil {
				return "", exitError(exitInvalidInput, "%v", err)
			}
			return l, nil
		}
	}
	saved, err := a.store.Preference(ctx, usage.PrefLanguage)
	if err != nil {
		a.log.Warn("language preference unavailable", "error", err)
		return locale.DefaultLanguage, nil
	}
	if l, err := locale.ParseLanguage(saved); err == nil {
		return l, nil
	}
	return locale.DefaultLanguage, nil
}

func (a *app) locale(ctx context.Context) (*locale.Locale, error) {
	lang, err := a.language(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := locale.Load(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to load locale: %w", err)
	}
	return loc, nil
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
