package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Papalexios/schema-markup-generator/internal/ai"
	"github.com/Papalexios/schema-markup-generator/internal/domain"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
)

// stateFileName holds the in-progress run for stepwise commands.
const stateFileName = "state.json"

// stateFileMode keeps run state private to the user; records can
// embed site content.
const stateFileMode = 0o600

// State is a serializable snapshot of a run. Stepwise commands persist
// it between invocations; auto-pilot only writes the final report.
type State struct {
	// RunID identifies the run across stepwise commands.
	RunID string `json:"run_id"`
	// Site is the cache namespace the run operates on.
	Site string `json:"site"`
	// Stage the run has reached.
	Stage Stage `json:"stage"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// UpdatedAt is when the snapshot was taken.
	UpdatedAt time.Time `json:"updated_at"`
	// Groups are the resolved sitemap groups.
	Groups []domain.SitemapGroup `json:"groups,omitempty"`
	// Records are the page records in analysis input order.
	Records []*domain.PageRecord `json:"records,omitempty"`
}

// Snapshot captures the pipeline's current state.
func (p *Pipeline) Snapshot() *State {
	return &State{
		RunID:     p.runID,
		Site:      p.cfg.Site,
		Stage:     p.stage,
		StartedAt: p.startedAt,
		UpdatedAt: time.Now().UTC(),
		Groups:    p.groups,
		Records:   p.records,
	}
}

// Restore rebuilds a pipeline from a snapshot so a stepwise command
// can continue where the previous one stopped.
func Restore(
	state *State,
	cfg Config,
	resolver SitemapResolver,
	analyzer PageAnalyzer,
	aiClient ai.Client,
	injector Injector,
	business *ai.BusinessInfo,
	log logger.Interface,
) *Pipeline {
	p := New(cfg, resolver, analyzer, aiClient, injector, business, log)
	p.runID = state.RunID
	p.startedAt = state.StartedAt
	p.stage = state.Stage
	p.groups = state.Groups
	p.records = state.Records
	return p
}

// SaveState writes the snapshot to the state file under dir.
func SaveState(dir string, state *State) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	path := filepath.Join(dir, stateFileName)
	if err := os.WriteFile(path, data, stateFileMode); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// LoadState reads the state file under dir.
func LoadState(dir string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(dir, stateFileName))
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}
