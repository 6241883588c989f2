package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
)

// newGenerateCommand drafts schema for the analyzed pages persisted by
// the analyze step.
func newGenerateCommand() *cobra.Command {
	var urls []string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate or audit schema for analyzed pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closer, err := buildDeps(true)
			if err != nil {
				return err
			}
			defer closer()

			p, err := d.restorePipeline()
			if err != nil {
				return err
			}

			if err := p.GenerateAll(cmd.Context(), urls); err != nil {
				return err
			}
			if err := d.saveState(p); err != nil {
				return err
			}

			printGeneration(p.Records())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&urls, "urls", nil, "restrict generation to these page URLs (default: all processable pages)")
	return cmd
}

// printGeneration summarizes generation and validation outcomes.
func printGeneration(records []*domain.PageRecord) {
	generated, failed, invalid := 0, 0, 0
	for _, rec := range records {
		switch rec.GenerationStatus {
		case domain.GenerationSuccess:
			generated++
			if rec.ValidationStatus == domain.ValidationInvalid {
				invalid++
			}
		case domain.GenerationFailed:
			failed++
		}
	}
	fmt.Printf("Generated schema for %d pages (%d failed, %d invalid).\n", generated, failed, invalid)
	fmt.Println(`Run "schemagen inject" to write valid schema into WordPress.`)
}
