package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Papalexios/schema-markup-generator/internal/pipeline"
)

// newRunCommand is auto-pilot: the full pipeline from credential
// validation to injection with no user gate between stages.
func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline end to end (auto-pilot)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closer, err := buildDeps(true)
			if err != nil {
				return err
			}
			defer closer()

			return runAutoPilot(cmd.Context(), d)
		},
	}
}

// runAutoPilot executes one full pipeline run and persists its report.
// Shared with the schedule command.
func runAutoPilot(ctx context.Context, d *deps) error {
	p := d.newPipeline()
	runErr := p.Run(ctx)

	// The report is written even for a failed run: a partial outcome
	// still lists every URL with its terminal status.
	report := p.Report()
	if saveErr := pipeline.SaveReport(d.cfg.Report.Dir, report); saveErr != nil {
		d.log.Warn("saving report failed", "error", saveErr.Error())
	}
	if saveErr := d.saveState(p); saveErr != nil {
		d.log.Warn("saving state failed", "error", saveErr.Error())
	}

	if runErr != nil {
		return runErr
	}

	fmt.Printf("Run %s complete: %d pages, %d injected, %d failed injection, %d invalid.\n",
		report.RunID, report.Summary.Pages, report.Summary.Injected,
		report.Summary.InjectionFailed, report.Summary.Invalid)
	return nil
}
