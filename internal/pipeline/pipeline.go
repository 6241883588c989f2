package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Papalexios/schema-markup-generator/internal/ai"
	"github.com/Papalexios/schema-markup-generator/internal/domain"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
	"github.com/Papalexios/schema-markup-generator/internal/schema"
)

// ErrAIKeyInvalid is returned when the provider rejects the configured
// API key. Fatal to a run.
var ErrAIKeyInvalid = errors.New("ai api key validation failed")

// ErrNoPages is returned when a stage has nothing to operate on.
var ErrNoPages = errors.New("no pages to process")

// SitemapResolver expands a sitemap URL into page URL groups.
type SitemapResolver interface {
	Resolve(ctx context.Context, url string) ([]domain.SitemapGroup, error)
}

// PageAnalyzer classifies one page by schema status. It never fails;
// per-page errors are encoded on the returned record.
type PageAnalyzer interface {
	Analyze(ctx context.Context, site, url string) *domain.PageRecord
}

// Injector validates credentials and writes schema into WordPress.
type Injector interface {
	ValidateCredentials(ctx context.Context) error
	Inject(ctx context.Context, pageURL string, schema map[string]any) error
}

// Config holds the pipeline's run parameters.
type Config struct {
	// Site is the cache namespace, normally the site host.
	Site string
	// SitemapURL is the sitemap or sitemap index to resolve.
	SitemapURL string
	// AnalysisBatchSize bounds concurrent page fetches.
	AnalysisBatchSize int
	// InjectionBatchSize bounds concurrent WordPress writes.
	InjectionBatchSize int
}

// Pipeline drives one run over a site. It is the sole writer of its
// page records; stages are sequenced, never overlapped, so no record
// is mutated concurrently.
type Pipeline struct {
	cfg      Config
	resolver SitemapResolver
	analyzer PageAnalyzer
	ai       ai.Client
	injector Injector
	business *ai.BusinessInfo
	log      logger.Interface

	runID     string
	startedAt time.Time
	stage     Stage
	groups    []domain.SitemapGroup
	records   []*domain.PageRecord
}

// New creates a pipeline at the credentials stage. The AI client may
// be nil for analysis-only use; stages that need it will fail cleanly.
func New(
	cfg Config,
	resolver SitemapResolver,
	analyzer PageAnalyzer,
	aiClient ai.Client,
	injector Injector,
	business *ai.BusinessInfo,
	log logger.Interface,
) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		resolver:  resolver,
		analyzer:  analyzer,
		ai:        aiClient,
		injector:  injector,
		business:  business,
		log:       log.WithComponent("pipeline"),
		runID:     uuid.NewString(),
		startedAt: time.Now().UTC(),
		stage:     StageCredentials,
	}
}

// Stage returns the pipeline's current stage.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// RunID returns the run's unique identifier.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Groups returns the resolved sitemap groups.
func (p *Pipeline) Groups() []domain.SitemapGroup {
	return p.groups
}

// Records returns the page records in analysis input order.
func (p *Pipeline) Records() []*domain.PageRecord {
	return p.records
}

// ValidateSetup checks WordPress credentials and, when an AI client is
// configured, the provider key. Either failure is fatal and leaves the
// pipeline at the credentials stage.
func (p *Pipeline) ValidateSetup(ctx context.Context) error {
	if err := p.injector.ValidateCredentials(ctx); err != nil {
		return p.fail(err)
	}
	if p.ai != nil && !p.ai.ValidateKey(ctx) {
		return p.fail(ErrAIKeyInvalid)
	}
	p.log.Info("setup validated", "site", p.cfg.Site)
	return p.advance(StageSitemapSelection)
}

// ResolveSitemaps expands the configured sitemap into page URL groups.
// A resolution failure, including an empty sitemap, is fatal.
func (p *Pipeline) ResolveSitemaps(ctx context.Context) error {
	groups, err := p.resolver.Resolve(ctx, p.cfg.SitemapURL)
	if err != nil {
		return p.fail(err)
	}

	p.groups = groups
	p.log.Info("sitemaps resolved",
		"sitemap_count", len(groups),
		"page_count", len(domain.FlattenGroups(groups)),
	)
	return p.advance(StageURLList)
}

// AnalyzeAll analyzes every resolved page URL in fixed-size
// concurrency batches. Per-page failures never abort the batch: every
// input URL yields a record, in input order.
func (p *Pipeline) AnalyzeAll(ctx context.Context) error {
	if p.stage != StageURLList {
		return p.fail(errors.New("analysis requires resolved sitemaps"))
	}

	urls := domain.FlattenGroups(p.groups)
	if len(urls) == 0 {
		return p.fail(ErrNoPages)
	}

	p.records = runBatches(ctx, urls, p.cfg.AnalysisBatchSize,
		func(ctx context.Context, url string) *domain.PageRecord {
			return p.analyzer.Analyze(ctx, p.cfg.Site, url)
		})

	counts := p.statusCounts()
	p.log.Info("analysis complete",
		"pages", len(p.records),
		"cached", counts[domain.StatusCached],
		"not_found", counts[domain.StatusNotFound],
		"audit_recommended", counts[domain.StatusAuditRecommended],
		"failed", counts[domain.StatusAnalysisFailed],
	)
	return nil
}

// ClassifyAll asks the provider to suggest a schema type per
// processable page, then runs opportunity detection on pages that
// still carry content. A classification failure degrades to the
// default type rather than aborting the run.
func (p *Pipeline) ClassifyAll(ctx context.Context) error {
	if p.ai == nil {
		return errors.New("classification requires an AI client")
	}

	processable := p.processableRecords(nil)
	if len(processable) == 0 {
		return nil
	}

	summaries := make([]ai.PageSummary, len(processable))
	for i, rec := range processable {
		summaries[i] = ai.PageSummary{URL: rec.URL, Title: rec.Title}
	}

	suggestions, err := p.ai.SuggestTypes(ctx, summaries)
	if err != nil {
		p.log.Warn("type suggestion failed, defaulting all pages",
			"default_type", domain.DefaultSchemaType,
			"error", err.Error(),
		)
		suggestions = map[string]domain.SchemaType{}
	}

	for _, rec := range processable {
		if st, ok := suggestions[rec.URL]; ok {
			rec.SelectedSchemaType = st
		} else {
			rec.SelectedSchemaType = domain.DefaultSchemaType
		}
		if rec.Content != "" {
			rec.Opportunities = p.ai.DetectOpportunities(ctx, rec.Content)
		}
	}
	return nil
}

// GenerateAll generates or audits schema for the selected pages,
// strictly one at a time: AI calls are the most expensive and
// rate-limit-sensitive step, and sequential execution keeps per-item
// progress monotonic. An empty selection means every processable page.
// Each generated document is validated immediately, so a successful
// generation always carries a definite validation outcome.
func (p *Pipeline) GenerateAll(ctx context.Context, selected []string) error {
	if p.ai == nil {
		return errors.New("generation requires an AI client")
	}
	if p.stage != StageURLList {
		return p.fail(errors.New("generation requires analyzed pages"))
	}

	targets := p.processableRecords(selected)
	for i, rec := range targets {
		p.log.Info("generating schema",
			"url", rec.URL,
			"type", rec.SelectedSchemaType,
			"progress", i+1,
			"total", len(targets),
		)
		p.generateOne(ctx, rec)
	}

	// Content only feeds prompts; once schema work is done it is dead
	// weight for every record.
	for _, rec := range p.records {
		rec.Content = ""
	}

	return p.advance(StageReview)
}

// generateOne runs generation and validation for a single record.
// Failures stay on the record.
func (p *Pipeline) generateOne(ctx context.Context, rec *domain.PageRecord) {
	if rec.SelectedSchemaType == "" {
		rec.SelectedSchemaType = domain.DefaultSchemaType
	}
	rec.GenerationStatus = domain.GenerationRunning

	var (
		doc map[string]any
		err error
	)
	if rec.NeedsAudit() {
		doc, err = p.ai.AuditAndUpgrade(ctx, rec, p.business)
	} else {
		doc, err = p.ai.Generate(ctx, rec, p.business)
	}
	if err != nil {
		rec.GenerationStatus = domain.GenerationFailed
		rec.GenerationError = err.Error()
		p.log.Warn("generation failed", "url", rec.URL, "error", err.Error())
		return
	}

	rec.Schema = doc
	rec.Content = ""
	rec.GenerationStatus = domain.GenerationSuccess

	rec.ValidationStatus = domain.ValidationRunning
	result := schema.Validate(doc, rec.SelectedSchemaType)
	rec.ValidationErrors = result.Errors
	rec.ValidationWarnings = result.Warnings
	if result.IsValid {
		rec.ValidationStatus = domain.ValidationValid
	} else {
		rec.ValidationStatus = domain.ValidationInvalid
	}
}

// Validate re-runs structural validation for one record, for manual
// edits between generation and injection.
func (p *Pipeline) Validate(rec *domain.PageRecord) {
	if rec.Schema == nil {
		return
	}
	result := schema.Validate(rec.Schema, rec.SelectedSchemaType)
	rec.ValidationErrors = result.Errors
	rec.ValidationWarnings = result.Warnings
	if result.IsValid {
		rec.ValidationStatus = domain.ValidationValid
	} else {
		rec.ValidationStatus = domain.ValidationInvalid
	}
}

// InjectAll writes every valid generated document into WordPress in
// fixed-size batches, smaller than analysis batches because WordPress
// sites tolerate burst writes worse than burst reads. Pages without a
// valid document are skipped, not failed: their terminal status is
// whatever earlier stages recorded.
func (p *Pipeline) InjectAll(ctx context.Context) error {
	if p.stage != StageReview {
		return p.fail(errors.New("injection requires generated schema"))
	}

	var eligible []*domain.PageRecord
	for _, rec := range p.records {
		if rec.GenerationStatus == domain.GenerationSuccess && rec.ValidationStatus == domain.ValidationValid {
			rec.InjectionStatus = domain.InjectionPending
			eligible = append(eligible, rec)
		}
	}

	runBatches(ctx, eligible, p.cfg.InjectionBatchSize,
		func(ctx context.Context, rec *domain.PageRecord) struct{} {
			if err := p.injector.Inject(ctx, rec.URL, rec.Schema); err != nil {
				rec.InjectionStatus = domain.InjectionFailed
				rec.InjectionError = err.Error()
				p.log.Warn("injection failed", "url", rec.URL, "error", err.Error())
			} else {
				rec.InjectionStatus = domain.InjectionSuccess
			}
			return struct{}{}
		})

	p.log.Info("injection complete",
		"attempted", len(eligible),
		"succeeded", p.injectionCount(domain.InjectionSuccess),
		"failed", p.injectionCount(domain.InjectionFailed),
	)
	return p.advance(StageComplete)
}

// Run is auto-pilot: the full walk from credential validation to
// injection with no user gate between stages.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.ValidateSetup(ctx); err != nil {
		return err
	}
	if err := p.ResolveSitemaps(ctx); err != nil {
		return err
	}
	if err := p.AnalyzeAll(ctx); err != nil {
		return err
	}
	if err := p.ClassifyAll(ctx); err != nil {
		return p.fail(err)
	}
	if err := p.GenerateAll(ctx, nil); err != nil {
		return err
	}
	return p.InjectAll(ctx)
}

// processableRecords returns records eligible for generation,
// restricted to the selected URLs when the selection is non-empty.
func (p *Pipeline) processableRecords(selected []string) []*domain.PageRecord {
	var filter map[string]struct{}
	if len(selected) > 0 {
		filter = make(map[string]struct{}, len(selected))
		for _, u := range selected {
			filter[u] = struct{}{}
		}
	}

	var out []*domain.PageRecord
	for _, rec := range p.records {
		if !rec.Processable() {
			continue
		}
		if filter != nil {
			if _, ok := filter[rec.URL]; !ok {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// statusCounts tallies records by schema status.
func (p *Pipeline) statusCounts() map[domain.SchemaStatus]int {
	counts := make(map[domain.SchemaStatus]int)
	for _, rec := range p.records {
		counts[rec.SchemaStatus]++
	}
	return counts
}

// injectionCount tallies records with the given injection status.
func (p *Pipeline) injectionCount(status domain.InjectionStatus) int {
	n := 0
	for _, rec := range p.records {
		if rec.InjectionStatus == status {
			n++
		}
	}
	return n
}
