package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
)

// newAnalyzeCommand resolves the sitemap and analyzes every page,
// persisting the result for the generate step. With an AI key
// configured it also classifies pages into schema types.
func newAnalyzeCommand() *cobra.Command {
	var classify bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Resolve the sitemap and analyze every page for existing schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closer, err := buildDeps(classify)
			if err != nil {
				return err
			}
			defer closer()

			ctx := cmd.Context()
			p := d.newPipeline()

			if err := p.ValidateSetup(ctx); err != nil {
				return err
			}
			if err := p.ResolveSitemaps(ctx); err != nil {
				return err
			}
			if err := p.AnalyzeAll(ctx); err != nil {
				return err
			}
			if classify {
				if err := p.ClassifyAll(ctx); err != nil {
					return err
				}
			}

			if err := d.saveState(p); err != nil {
				return err
			}

			printAnalysis(p.Records())
			return nil
		},
	}

	cmd.Flags().BoolVar(&classify, "classify", true, "classify pages into schema types (requires an AI key)")
	return cmd
}

// printAnalysis summarizes per-page analysis outcomes on stdout.
func printAnalysis(records []*domain.PageRecord) {
	processable := 0
	for _, rec := range records {
		if rec.Processable() {
			processable++
		}
	}
	fmt.Printf("Analyzed %d pages; %d need schema work.\n", len(records), processable)
	fmt.Println(`Run "schemagen generate" to draft schema for them.`)
}
