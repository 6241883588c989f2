package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
)

// extractJSONObject parses a model response as a JSON object. Markdown
// fences and surrounding prose are tolerated: models ignore the
// raw-JSON instruction often enough that stripping is cheaper than
// retrying.
func extractJSONObject(raw string) (map[string]any, error) {
	candidate := stripFences(raw)

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("parse response JSON: %w", err)
	}
	return parsed, nil
}

// parseOpportunities reads a {"types": [...]} response and filters to
// the opportunity sub-enumeration. Anything unparsable yields nil.
func parseOpportunities(raw string) []domain.SchemaType {
	parsed, err := extractJSONObject(raw)
	if err != nil {
		return nil
	}

	list, ok := parsed["types"].([]any)
	if !ok {
		return nil
	}

	var types []domain.SchemaType
	for _, item := range list {
		name, isString := item.(string)
		if !isString {
			continue
		}
		st, known := domain.ParseSchemaType(name)
		if known && domain.IsOpportunityType(st) {
			types = append(types, st)
		}
	}
	return types
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
