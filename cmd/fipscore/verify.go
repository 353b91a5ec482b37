package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/fipscore/internal/report"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <report.json>",
		Short: "Check that a JSON report is internally consistent",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return exitError(exitInvalidInput, "failed to read report: %v", err)
			}
			var rep report.Report
			if err := json.Unmarshal(data, &rep); err != nil {
				return exitError(exitInvalidInput, "failed to parse report: %v", err)
			}
			errs := report.Validate(&rep)
			if len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(a.errOut, "  %s\n", e)
				}
				return exitError(exitInvalidInput, "report %s failed validation (%d errors)", args[0], len(errs))
			}
			fmt.Fprintf(a.out, "%s: ok (score %d, %s)\n", args[0], rep.Result.Score, rep.Result.Classification)
			return nil
		},
	}
}
