package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
)

// latestReportName points stepless consumers at the most recent run.
const latestReportName = "latest.json"

// Summary aggregates per-page outcomes for one run.
type Summary struct {
	Pages            int `json:"pages"`
	Cached           int `json:"cached"`
	AnalysisFailed   int `json:"analysis_failed"`
	Generated        int `json:"generated"`
	GenerationFailed int `json:"generation_failed"`
	Valid            int `json:"valid"`
	Invalid          int `json:"invalid"`
	Injected         int `json:"injected"`
	InjectionFailed  int `json:"injection_failed"`
	InjectionSkipped int `json:"injection_skipped"`
}

// Report is the durable record of one run. Every URL that entered
// analysis appears in Pages with an explicit terminal status; nothing
// is silently dropped.
type Report struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`
	// Site the run operated on.
	Site string `json:"site"`
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Stage the run ended at.
	Stage Stage `json:"stage"`
	// Summary aggregates the per-page outcomes.
	Summary Summary `json:"summary"`
	// Pages are the per-URL records in analysis input order.
	Pages []*domain.PageRecord `json:"pages"`
}

// Report builds the run report from the pipeline's records.
func (p *Pipeline) Report() *Report {
	report := &Report{
		RunID:      p.runID,
		Site:       p.cfg.Site,
		StartedAt:  p.startedAt,
		FinishedAt: time.Now().UTC(),
		Stage:      p.stage,
		Pages:      p.records,
	}

	for _, rec := range p.records {
		report.Summary.Pages++
		switch rec.SchemaStatus {
		case domain.StatusCached:
			report.Summary.Cached++
		case domain.StatusAnalysisFailed:
			report.Summary.AnalysisFailed++
		}
		switch rec.GenerationStatus {
		case domain.GenerationSuccess:
			report.Summary.Generated++
		case domain.GenerationFailed:
			report.Summary.GenerationFailed++
		}
		switch rec.ValidationStatus {
		case domain.ValidationValid:
			report.Summary.Valid++
		case domain.ValidationInvalid:
			report.Summary.Invalid++
		}
		switch rec.InjectionStatus {
		case domain.InjectionSuccess:
			report.Summary.Injected++
		case domain.InjectionFailed:
			report.Summary.InjectionFailed++
		default:
			if rec.GenerationStatus == domain.GenerationSuccess {
				report.Summary.InjectionSkipped++
			}
		}
	}
	return report
}

// SaveReport writes the report under dir, both as a per-run file and
// as the latest report.
func SaveReport(dir string, report *Report) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	runFile := filepath.Join(dir, fmt.Sprintf("run-%s.json", report.RunID))
	if err := os.WriteFile(runFile, data, stateFileMode); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, latestReportName), data, stateFileMode); err != nil {
		return fmt.Errorf("write latest report: %w", err)
	}
	return nil
}

// LoadLatestReport reads the most recent report under dir.
func LoadLatestReport(dir string) (*Report, error) {
	data, err := os.ReadFile(filepath.Join(dir, latestReportName))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}
