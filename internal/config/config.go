// Package config provides configuration management for the
// application. Values come from a YAML file, environment variables,
// and an optional .env file, in ascending precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Papalexios/schema-markup-generator/internal/ai"
	"github.com/Papalexios/schema-markup-generator/internal/gateway"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
	"github.com/Papalexios/schema-markup-generator/internal/wordpress"
)

// Default batch widths. Analysis is read-heavy and parallelizes well;
// injection bursts writes at the WordPress site, which tolerates less.
const (
	defaultAnalysisBatchSize  = 10
	defaultInjectionBatchSize = 5
)

// defaultStateDirName is the per-user state directory under $HOME.
const defaultStateDirName = ".schemagen"

// BatchConfig holds the pipeline's concurrency knobs.
type BatchConfig struct {
	// AnalysisSize is the number of pages analyzed concurrently.
	AnalysisSize int `yaml:"analysis_size" mapstructure:"analysis_size"`
	// InjectionSize is the number of pages injected concurrently.
	InjectionSize int `yaml:"injection_size" mapstructure:"injection_size"`
}

// CacheConfig locates the analysis cache.
type CacheConfig struct {
	// Dir is the BadgerDB directory. Defaults to ~/.schemagen/cache.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// SitemapConfig locates the site's sitemap.
type SitemapConfig struct {
	// URL of the sitemap or sitemap index. Defaults to the site root
	// plus /sitemap.xml.
	URL string `yaml:"url" mapstructure:"url"`
}

// ReportConfig locates persisted run reports.
type ReportConfig struct {
	// Dir is where run reports are written. Defaults to
	// ~/.schemagen/reports.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// Config is the application configuration.
type Config struct {
	// WordPress holds the site URL and application password.
	WordPress wordpress.Credentials `yaml:"wordpress" mapstructure:"wordpress"`
	// Sitemap holds the sitemap location.
	Sitemap SitemapConfig `yaml:"sitemap" mapstructure:"sitemap"`
	// AI selects and authenticates the LLM provider.
	AI ai.Config `yaml:"ai" mapstructure:"ai"`
	// Business is optional publisher context for generation prompts.
	Business ai.BusinessInfo `yaml:"business" mapstructure:"business"`
	// Gateway configures HTTP fetching.
	Gateway gateway.Config `yaml:"gateway" mapstructure:"gateway"`
	// Batch configures pipeline concurrency.
	Batch BatchConfig `yaml:"batch" mapstructure:"batch"`
	// Cache configures the analysis cache.
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Report configures run report persistence.
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	// Log configures logging.
	Log logger.Config `yaml:"log" mapstructure:"log"`
}

// WithDefaults returns a copy of the config with default values applied
// for zero-value fields.
func (c Config) WithDefaults() Config {
	if c.Batch.AnalysisSize <= 0 {
		c.Batch.AnalysisSize = defaultAnalysisBatchSize
	}
	if c.Batch.InjectionSize <= 0 {
		c.Batch.InjectionSize = defaultInjectionBatchSize
	}
	if c.Sitemap.URL == "" && c.WordPress.SiteURL != "" {
		c.Sitemap.URL = joinURL(c.WordPress.SiteURL, "sitemap.xml")
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = stateDir("cache")
	}
	if c.Report.Dir == "" {
		c.Report.Dir = stateDir("reports")
	}
	c.Gateway = c.Gateway.WithDefaults()
	return c
}

// Validate checks the configuration for a full pipeline run.
func (c *Config) Validate() error {
	if err := c.ValidateSite(); err != nil {
		return err
	}
	if c.AI.Provider == "" {
		return fmt.Errorf("config: ai.provider is required")
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("config: ai.api_key is required")
	}
	return nil
}

// ValidateSite checks only the site-facing configuration, enough for
// analysis-only commands that never call an LLM.
func (c *Config) ValidateSite() error {
	if err := c.WordPress.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Sitemap.URL == "" {
		return fmt.Errorf("config: sitemap.url is required")
	}
	return nil
}

// stateDir returns a subdirectory of the per-user state directory,
// falling back to the working directory when $HOME is unavailable.
func stateDir(sub string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(defaultStateDirName, sub)
	}
	return filepath.Join(home, defaultStateDirName, sub)
}

// joinURL joins a base URL and a path segment with a single slash.
func joinURL(base, path string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + "/" + path
}
