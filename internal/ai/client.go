// Package ai routes schema-generation operations to the configured LLM
// provider. Providers differ only in endpoint, authentication, and
// default model; those differences live in a dispatch table rather
// than control flow, so the pipeline stays provider-agnostic.
package ai

import (
	"context"
	"fmt"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
	"github.com/Papalexios/schema-markup-generator/internal/gateway"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
)

// Provider identifies an LLM vendor.
type Provider string

// Supported providers.
const (
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
	ProviderGroq       Provider = "groq"
	ProviderGemini     Provider = "gemini"
	ProviderAnthropic  Provider = "anthropic"
)

// Config selects and authenticates a provider. Held for the session
// only; never persisted.
type Config struct {
	// Provider selects the vendor adapter.
	Provider Provider `yaml:"provider" mapstructure:"provider"`
	// APIKey authenticates against the provider.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// Model overrides the provider's default model when set.
	Model string `yaml:"model" mapstructure:"model"`
}

// Error reports a failed AI operation.
type Error struct {
	Op       string
	Provider Provider
	Err      error
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("ai %s (%s): %v", e.Op, e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// PageSummary is the minimal page view type classification works from.
type PageSummary struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// BusinessInfo is optional publisher context woven into generation
// prompts so Organization entities in the knowledge graph are accurate.
type BusinessInfo struct {
	// Name of the business or publisher.
	Name string `yaml:"name" mapstructure:"name"`
	// URL of the business home page.
	URL string `yaml:"url" mapstructure:"url"`
	// LogoURL for the publisher logo entity.
	LogoURL string `yaml:"logo_url" mapstructure:"logo_url"`
}

// Client is the capability set every provider adapter supports.
type Client interface {
	// ValidateKey performs the cheapest possible authenticated call.
	// It never fails; any error reads as an invalid key.
	ValidateKey(ctx context.Context) bool
	// SuggestTypes classifies pages into schema types. URLs whose
	// returned type is outside the supported enumeration are dropped.
	SuggestTypes(ctx context.Context, pages []PageSummary) (map[string]domain.SchemaType, error)
	// Generate produces a knowledge-graph JSON-LD document for a page
	// from its scraped content.
	Generate(ctx context.Context, page *domain.PageRecord, business *BusinessInfo) (map[string]any, error)
	// AuditAndUpgrade regenerates a page's document using its existing
	// markup as additional context.
	AuditAndUpgrade(ctx context.Context, page *domain.PageRecord, business *BusinessInfo) (map[string]any, error)
	// DetectOpportunities returns additional applicable types from the
	// opportunity sub-enumeration. Empty input or any failure yields
	// an empty result, never an error.
	DetectOpportunities(ctx context.Context, content string) []domain.SchemaType
}

// completionRequest is one prompt sent to a provider.
type completionRequest struct {
	System    string
	Prompt    string
	JSONMode  bool
	MaxTokens int
}

// completer is the single low-level operation an adapter implements.
type completer interface {
	Complete(ctx context.Context, req completionRequest) (string, error)
}

// New builds a client for the configured provider. The gateway's HTTP
// client is reused so every adapter shares its timeout.
func New(cfg Config, gw *gateway.Client, log logger.Interface) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai: api key is required")
	}

	spec, ok := providerTable[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("ai: unsupported provider %q (supported: %v)", cfg.Provider, Providers())
	}

	model := cfg.Model
	if model == "" {
		model = spec.DefaultModel
	}

	var backend completer
	if cfg.Provider == ProviderAnthropic {
		backend = newAnthropicCompleter(cfg.APIKey, model, gw.HTTPClient())
	} else {
		backend = newOpenAICompleter(spec, cfg.APIKey, model, gw.HTTPClient())
	}

	return &client{
		backend:  backend,
		provider: cfg.Provider,
		log:      log.WithComponent("ai"),
	}, nil
}
