package cmd

import (
	"fmt"

	"github.com/Papalexios/schema-markup-generator/internal/ai"
	"github.com/Papalexios/schema-markup-generator/internal/analyzer"
	"github.com/Papalexios/schema-markup-generator/internal/cache"
	"github.com/Papalexios/schema-markup-generator/internal/config"
	"github.com/Papalexios/schema-markup-generator/internal/gateway"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
	"github.com/Papalexios/schema-markup-generator/internal/pipeline"
	"github.com/Papalexios/schema-markup-generator/internal/sitemap"
	"github.com/Papalexios/schema-markup-generator/internal/wordpress"
)

// deps bundles the wired application components for one command
// invocation.
type deps struct {
	cfg      *config.Config
	log      logger.Interface
	gateway  *gateway.Client
	store    *cache.Store
	resolver *sitemap.Resolver
	analyzer *analyzer.Analyzer
	wp       *wordpress.Client
	ai       ai.Client
}

// buildDeps loads configuration and wires the component graph. The AI
// client is only constructed when requireAI is set, so analysis-only
// commands work without a provider key. The returned closer releases
// the cache database.
func buildDeps(requireAI bool) (*deps, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	logCfg := cfg.Log
	if debug {
		logCfg.Level = "debug"
	}
	log := logger.New(logCfg)

	if requireAI {
		err = cfg.Validate()
	} else {
		err = cfg.ValidateSite()
	}
	if err != nil {
		return nil, nil, err
	}

	gw := gateway.New(cfg.Gateway, log)

	store, err := cache.Open(cfg.Cache.Dir, false, log)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Warn("closing cache failed", "error", closeErr.Error())
		}
	}

	d := &deps{
		cfg:      cfg,
		log:      log,
		gateway:  gw,
		store:    store,
		resolver: sitemap.NewResolver(gw, log),
		analyzer: analyzer.New(gw, store, log),
		wp:       wordpress.New(cfg.WordPress, gw, log),
	}

	if requireAI {
		aiClient, aiErr := ai.New(cfg.AI, gw, log)
		if aiErr != nil {
			closer()
			return nil, nil, aiErr
		}
		d.ai = aiClient
	}

	return d, closer, nil
}

// pipelineConfig maps application config onto the pipeline's knobs.
func (d *deps) pipelineConfig() pipeline.Config {
	return pipeline.Config{
		Site:               d.cfg.WordPress.SiteIdentity(),
		SitemapURL:         d.cfg.Sitemap.URL,
		AnalysisBatchSize:  d.cfg.Batch.AnalysisSize,
		InjectionBatchSize: d.cfg.Batch.InjectionSize,
	}
}

// newPipeline builds a fresh pipeline from the wired components.
func (d *deps) newPipeline() *pipeline.Pipeline {
	return pipeline.New(d.pipelineConfig(), d.resolver, d.analyzer, d.ai, d.wp, &d.cfg.Business, d.log)
}

// restorePipeline rebuilds the pipeline persisted by a previous
// stepwise command.
func (d *deps) restorePipeline() (*pipeline.Pipeline, error) {
	state, err := pipeline.LoadState(d.cfg.Report.Dir)
	if err != nil {
		return nil, fmt.Errorf("no saved run found (run \"schemagen analyze\" first): %w", err)
	}
	if state.Site != d.cfg.WordPress.SiteIdentity() {
		return nil, fmt.Errorf("saved run is for site %s, not %s", state.Site, d.cfg.WordPress.SiteIdentity())
	}
	return pipeline.Restore(state, d.pipelineConfig(), d.resolver, d.analyzer, d.ai, d.wp, &d.cfg.Business, d.log), nil
}

// saveState persists the pipeline for the next stepwise command.
func (d *deps) saveState(p *pipeline.Pipeline) error {
	return pipeline.SaveState(d.cfg.Report.Dir, p.Snapshot())
}
