package ai

import (
	"context"
	"fmt"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
)

// validateKeyMaxTokens keeps the key check as cheap as the provider
// allows.
const validateKeyMaxTokens = 1

// client implements Client on top of any completer. Prompt
// construction and response parsing are identical across providers;
// only the transport differs.
type client struct {
	backend  completer
	provider Provider
	log      logger.Interface
}

// Ensure client implements Client.
var _ Client = (*client)(nil)

// ValidateKey issues a one-token completion. Any failure reads as an
// invalid key; the caller decides whether that is fatal.
func (c *client) ValidateKey(ctx context.Context) bool {
	_, err := c.backend.Complete(ctx, completionRequest{
		Prompt:    "Reply with OK.",
		MaxTokens: validateKeyMaxTokens,
	})
	if err != nil {
		c.log.Debug("key validation failed", "provider", c.provider, "error", err.Error())
		return false
	}
	return true
}

// SuggestTypes classifies pages into schema types. Pairs whose type is
// outside the supported enumeration are dropped: unrecognized AI
// output is discarded rather than trusted.
func (c *client) SuggestTypes(ctx context.Context, pages []PageSummary) (map[string]domain.SchemaType, error) {
	if len(pages) == 0 {
		return map[string]domain.SchemaType{}, nil
	}

	raw, err := c.backend.Complete(ctx, completionRequest{
		System:   systemPrompt,
		Prompt:   suggestPrompt(pages),
		JSONMode: true,
	})
	if err != nil {
		return nil, &Error{Op: "suggest types", Provider: c.provider, Err: err}
	}

	parsed, parseErr := extractJSONObject(raw)
	if parseErr != nil {
		return nil, &Error{Op: "suggest types", Provider: c.provider, Err: parseErr}
	}

	suggestions := make(map[string]domain.SchemaType)
	for url, value := range parsed {
		name, isString := value.(string)
		if !isString {
			continue
		}
		if st, ok := domain.ParseSchemaType(name); ok {
			suggestions[url] = st
		} else {
			c.log.Debug("dropping unrecognized type suggestion", "url", url, "type", name)
		}
	}
	return suggestions, nil
}

// Generate produces a knowledge-graph document for one page.
func (c *client) Generate(ctx context.Context, page *domain.PageRecord, business *BusinessInfo) (map[string]any, error) {
	return c.generateWith(ctx, "generate", generatePrompt(page, business))
}

// AuditAndUpgrade regenerates a page's document with its existing
// markup as additional context.
func (c *client) AuditAndUpgrade(ctx context.Context, page *domain.PageRecord, business *BusinessInfo) (map[string]any, error) {
	return c.generateWith(ctx, "audit", auditPrompt(page, business))
}

// generateWith runs one generation-shaped completion and parses the
// JSON-LD result.
func (c *client) generateWith(ctx context.Context, op, prompt string) (map[string]any, error) {
	raw, err := c.backend.Complete(ctx, completionRequest{
		System:   systemPrompt,
		Prompt:   prompt,
		JSONMode: true,
	})
	if err != nil {
		return nil, &Error{Op: op, Provider: c.provider, Err: err}
	}

	doc, parseErr := extractJSONObject(raw)
	if parseErr != nil {
		return nil, &Error{Op: op, Provider: c.provider, Err: parseErr}
	}
	if len(doc) == 0 {
		return nil, &Error{Op: op, Provider: c.provider, Err: fmt.Errorf("empty document")}
	}
	return doc, nil
}

// DetectOpportunities returns extra applicable types from the
// opportunity sub-enumeration. Empty input or any failure yields an
// empty result; opportunity detection is advisory and never blocks the
// pipeline.
func (c *client) DetectOpportunities(ctx context.Context, content string) []domain.SchemaType {
	if content == "" {
		return nil
	}

	raw, err := c.backend.Complete(ctx, completionRequest{
		System:   systemPrompt,
		Prompt:   opportunitiesPrompt(content),
		JSONMode: true,
	})
	if err != nil {
		c.log.Debug("opportunity detection failed", "provider", c.provider, "error", err.Error())
		return nil
	}

	return parseOpportunities(raw)
}
