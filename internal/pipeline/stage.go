// Package pipeline sequences sitemap resolution, page analysis, AI
// classification and generation, local validation, and WordPress
// injection. Stages advance through an explicit state machine; a
// failure in any per-item operation stays on that item's record, while
// setup failures reset the run to the credentials stage.
package pipeline

import "fmt"

// Stage is one step of the pipeline's state machine.
type Stage string

// Pipeline stages, in order.
const (
	// StageCredentials awaits validated WordPress and AI credentials.
	StageCredentials Stage = "credentials"
	// StageSitemapSelection awaits sitemap resolution.
	StageSitemapSelection Stage = "sitemap-selection"
	// StageURLList awaits analysis, classification, and generation.
	StageURLList Stage = "url-list"
	// StageReview awaits review and injection of generated schema.
	StageReview Stage = "review"
	// StageComplete is terminal.
	StageComplete Stage = "complete"
)

// transitions is the single legal successor per stage. Any stage may
// additionally fall back to StageCredentials on unrecoverable error.
var transitions = map[Stage]Stage{
	StageCredentials:      StageSitemapSelection,
	StageSitemapSelection: StageURLList,
	StageURLList:          StageReview,
	StageReview:           StageComplete,
}

// Next returns the stage's legal successor. The second return value is
// false for the terminal stage.
func (s Stage) Next() (Stage, bool) {
	next, ok := transitions[s]
	return next, ok
}

// advance moves the pipeline to the given stage, rejecting anything
// but the single legal successor. Injecting before generation
// completes, for example, is unrepresentable rather than checked
// ad hoc.
func (p *Pipeline) advance(to Stage) error {
	next, ok := p.stage.Next()
	if !ok || next != to {
		return fmt.Errorf("illegal stage transition %s -> %s", p.stage, to)
	}
	p.stage = to
	return nil
}

// fail resets the pipeline to the credentials stage after an
// unrecoverable error.
func (p *Pipeline) fail(err error) error {
	p.log.Error("pipeline run failed", "stage", p.stage, "error", err.Error())
	p.stage = StageCredentials
	return err
}
