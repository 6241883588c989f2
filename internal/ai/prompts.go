package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
)

// systemPrompt frames every schema operation.
const systemPrompt = "You are an expert in SEO and Schema.org structured data. " +
	"You respond with raw JSON only: no prose, no markdown fences."

// suggestPrompt asks for a URL-to-type classification map.
func suggestPrompt(pages []PageSummary) string {
	var b strings.Builder
	b.WriteString("Classify each page into exactly one Schema.org type from this list: ")
	b.WriteString(typeList(domain.SchemaTypes))
	b.WriteString(".\nRespond with a single JSON object mapping each URL to its type.\n\nPages:\n")
	for _, p := range pages {
		fmt.Fprintf(&b, "- URL: %s | Title: %s\n", p.URL, p.Title)
	}
	return b.String()
}

// generatePrompt asks for a fresh knowledge-graph document.
func generatePrompt(page *domain.PageRecord, business *BusinessInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a complete Schema.org JSON-LD document of type %s for this page. ", page.SelectedSchemaType)
	b.WriteString("Use a @graph array of interlinked entities sharing @id references " +
		"(the primary entity plus supporting Person, Organization, and WebPage entities where appropriate). " +
		"Every property value must come from the page content below; never invent facts.\n")
	writePageContext(&b, page, business)
	b.WriteString("\nRespond with the JSON-LD object only.")
	return b.String()
}

// auditPrompt asks for an upgraded version of existing markup.
func auditPrompt(page *domain.PageRecord, business *BusinessInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Audit and upgrade the existing Schema.org markup for this page into a complete %s document. ", page.SelectedSchemaType)
	b.WriteString("Keep correct values from the existing markup, fill gaps from the page content, " +
		"and restructure into a @graph array of interlinked entities.\n")
	writePageContext(&b, page, business)
	if existing, err := json.Marshal(page.ExistingSchema); err == nil {
		fmt.Fprintf(&b, "\nExisting markup:\n%s\n", existing)
	}
	b.WriteString("\nRespond with the upgraded JSON-LD object only.")
	return b.String()
}

// opportunitiesPrompt asks which extra types apply to the content.
func opportunitiesPrompt(content string) string {
	return fmt.Sprintf(
		"Does this page content qualify for any of these additional Schema.org types: %s? "+
			"Respond with a JSON object of the form {\"types\": [...]} listing only the types that clearly apply, "+
			"or an empty list if none do.\n\nContent:\n%s",
		typeList(domain.OpportunityTypes), content)
}

// writePageContext appends the shared page and business context block.
func writePageContext(b *strings.Builder, page *domain.PageRecord, business *BusinessInfo) {
	fmt.Fprintf(b, "\nPage URL: %s\nPage title: %s\n", page.URL, page.Title)
	if page.Content != "" {
		fmt.Fprintf(b, "Page content:\n%s\n", page.Content)
	}
	if business == nil {
		return
	}
	if business.Name != "" {
		fmt.Fprintf(b, "Publisher name: %s\n", business.Name)
	}
	if business.URL != "" {
		fmt.Fprintf(b, "Publisher URL: %s\n", business.URL)
	}
	if business.LogoURL != "" {
		fmt.Fprintf(b, "Publisher logo URL: %s\n", business.LogoURL)
	}
}

// typeList renders schema types as a comma-separated list.
func typeList(types []domain.SchemaType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
