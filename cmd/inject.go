package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Papalexios/schema-markup-generator/internal/pipeline"
)

// newInjectCommand writes the generated schema persisted by the
// generate step into WordPress and saves the final run report.
func newInjectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inject",
		Short: "Inject validated schema into WordPress",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closer, err := buildDeps(false)
			if err != nil {
				return err
			}
			defer closer()

			p, err := d.restorePipeline()
			if err != nil {
				return err
			}

			if err := p.InjectAll(cmd.Context()); err != nil {
				return err
			}

			report := p.Report()
			if err := pipeline.SaveReport(d.cfg.Report.Dir, report); err != nil {
				return err
			}
			if err := d.saveState(p); err != nil {
				return err
			}

			fmt.Printf("Injected %d pages (%d failed).\n", report.Summary.Injected, report.Summary.InjectionFailed)
			fmt.Println(`Run "schemagen report" for the full per-page breakdown.`)
			return nil
		},
	}
}
