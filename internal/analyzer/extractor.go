package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jsonLDSelector matches embedded Schema.org markup blocks.
const jsonLDSelector = `script[type="application/ld+json"]`

// nonContentSelectors are elements stripped before text extraction.
const nonContentSelectors = "script, style, noscript, nav, header, footer, aside"

// ExtractedPage is what page extraction pulls from raw HTML.
type ExtractedPage struct {
	// Title from the <title> element.
	Title string
	// Content is the page's visible text with whitespace collapsed.
	Content string
	// ExistingSchema is the first parseable JSON-LD block, or nil. A
	// present but broken block is reported as nil: regenerating is
	// safer than auditing markup we cannot read.
	ExistingSchema map[string]any
}

// ExtractPage parses HTML and extracts the title, plain-text content,
// and any existing JSON-LD markup.
func ExtractPage(body []byte) (*ExtractedPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &ExtractedPage{
		Title:          strings.TrimSpace(doc.Find("title").First().Text()),
		ExistingSchema: extractJSONLD(doc),
	}
	// Text extraction strips script elements, so the JSON-LD block must
	// be read before this point.
	page.Content = extractBodyText(doc)

	return page, nil
}

// extractJSONLD returns the first JSON-LD block that parses, or nil.
func extractJSONLD(doc *goquery.Document) map[string]any {
	block := doc.Find(jsonLDSelector).First()
	if block.Length() == 0 {
		return nil
	}
	return decodeJSONLD(block.Text())
}

// decodeJSONLD parses a JSON-LD block body. A top-level array is
// unwrapped to its first object, matching how publishers commonly emit
// multiple entities in one block.
func decodeJSONLD(raw string) map[string]any {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	switch v := parsed.(type) {
	case map[string]any:
		return v
	case []any:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]any); ok {
				return obj
			}
		}
	}
	return nil
}

// extractBodyText returns the page's visible text. Script, style, and
// chrome elements are removed first; runs of whitespace collapse to
// single spaces.
func extractBodyText(doc *goquery.Document) string {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}

	body.Find(nonContentSelectors).Remove()

	return strings.Join(strings.Fields(body.Text()), " ")
}
