package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type statsFlags struct {
	format string
	reset  bool
	yes    bool
}

func newStatsCmd(a *app) *cobra.Command {
	f := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show or reset the local usage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if f.reset {
				if !f.yes && !confirm(a, fmt.Sprintf("This will permanently delete the statistics in %s", a.cfg.Stats.Path)) {
					fmt.Fprintln(a.out, "Aborted.")
					return nil
				}
				if err := a.tracker.ResetStats(ctx); err != nil {
					return exitError(exitStore, "failed to reset stats: %v", err)
				}
				a.log.Info("stats reset", "path", a.cfg.Stats.Path)
				fmt.Fprintln(a.out, "Reset complete.")
				return nil
			}

			st, err := a.tracker.Stats(ctx)
			if err != nil {
				return exitError(exitStore, "failed to read stats: %v", err)
			}
			switch f.format {
			case "json":
				data, err := json.MarshalIndent(st, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal stats: %w", err)
				}
				fmt.Fprintln(a.out, string(data))
			case "text":
				fmt.Fprintf(a.out, "Total calculations:   %d\n", st.TotalCalculations)
				fmt.Fprintf(a.out, "FIP suspicions:       %d\n", st.FIPSuspicions)
				fmt.Fprintf(a.out, "Session calculations: %d\n", st.SessionCalculations)
				fmt.Fprintf(a.out, "Session suspicions:   %d\n", st.SessionSuspicions)
				fmt.Fprintf(a.out, "Last score:           %d\n", st.LastScore)
			default:
				return exitError(exitInvalidInput, "unknown format: %s", f.format)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "text", "Output format: text or json")
	flags.BoolVar(&f.reset, "reset", false, "Delete all recorded statistics")
	flags.BoolVar(&f.yes, "yes", false, "Do not ask for confirmation")

	return cmd
}

func confirm(a *app, prompt string) bool {
	fmt.Fprintln(a.out, prompt)
	fmt.Fprint(a.out, "Are you sure? [y/N]: ")
	answer, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y"
}
