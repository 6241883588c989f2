package cmd

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// defaultCronSpec runs once a day at 03:00.
const defaultCronSpec = "0 3 * * *"

// newScheduleCommand runs the auto-pilot pipeline on a recurring cron
// schedule. Each tick is a fresh run: new pages discovered since the
// last pass are processed, pages with a satisfactory cached analysis
// are skipped without a fetch.
func newScheduleCommand() *cobra.Command {
	var cronSpec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on a recurring schedule",
		Long: `Run the full pipeline on a cron schedule until interrupted.
Cached pages that already carry schema are skipped on every pass, so
recurring runs only pay for pages that are new or previously failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closer, err := buildDeps(true)
			if err != nil {
				return err
			}
			defer closer()

			runner := cron.New()
			_, err = runner.AddFunc(cronSpec, func() {
				if runErr := runAutoPilot(cmd.Context(), d); runErr != nil {
					d.log.Error("scheduled run failed", "error", runErr.Error())
				}
			})
			if err != nil {
				return fmt.Errorf("invalid cron spec %q: %w", cronSpec, err)
			}

			d.log.Info("scheduler started", "spec", cronSpec, "site", d.cfg.WordPress.SiteURL)
			runner.Start()

			<-cmd.Context().Done()

			d.log.Info("shutdown signal received")
			stopCtx := runner.Stop()
			// Let an in-flight run finish before exiting.
			<-stopCtx.Done()
			d.log.Info("scheduler stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", defaultCronSpec, "cron expression controlling run cadence")
	return cmd
}
