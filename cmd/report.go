package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Papalexios/schema-markup-generator/internal/config"
	"github.com/Papalexios/schema-markup-generator/internal/domain"
	"github.com/Papalexios/schema-markup-generator/internal/pipeline"
)

// urlColumnWidth bounds the URL column so long permalinks do not push
// the status columns off screen.
const urlColumnWidth = 60

// newReportCommand renders the latest run report as a table.
func newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the latest run's per-page results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			report, err := pipeline.LoadLatestReport(cfg.Report.Dir)
			if err != nil {
				return fmt.Errorf("no report found (run \"schemagen run\" or \"schemagen inject\" first): %w", err)
			}

			renderReport(report)
			return nil
		},
	}
}

// renderReport prints the report's per-page table and summary line.
func renderReport(report *pipeline.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: urlColumnWidth},
	})

	t.AppendHeader(table.Row{"#", "URL", "Analysis", "Type", "Generation", "Validation", "Injection", "Detail"})
	for i, page := range report.Pages {
		t.AppendRow(table.Row{
			i + 1,
			page.URL,
			page.SchemaStatus,
			page.SelectedSchemaType,
			page.GenerationStatus,
			page.ValidationStatus,
			injectionCell(page),
			pageDetail(page),
		})
	}
	t.AppendFooter(table.Row{
		"", fmt.Sprintf("%d pages", report.Summary.Pages),
		"", "", "", "",
		fmt.Sprintf("%d ok / %d failed", report.Summary.Injected, report.Summary.InjectionFailed),
		"",
	})

	fmt.Printf("\nRun %s on %s (%s)\n", report.RunID, report.Site, report.FinishedAt.Format("2006-01-02 15:04"))
	t.Render()
}

// injectionCell renders the injection column; not every page reaches
// injection.
func injectionCell(page *domain.PageRecord) string {
	if page.InjectionStatus == "" {
		return "-"
	}
	return string(page.InjectionStatus)
}

// pageDetail picks the most relevant error or issue for the detail
// column.
func pageDetail(page *domain.PageRecord) string {
	switch {
	case page.AnalysisError != "":
		return page.AnalysisError
	case page.GenerationError != "":
		return page.GenerationError
	case page.InjectionError != "":
		return page.InjectionError
	case len(page.ValidationErrors) > 0:
		return page.ValidationErrors[0].Message
	default:
		return ""
	}
}
