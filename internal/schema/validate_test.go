package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
	"github.com/Papalexios/schema-markup-generator/internal/schema"
)

// mustParse decodes a JSON-LD fixture into the map form the validator
// consumes.
func mustParse(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

// issueCodes collects the codes from a slice of issues for assertions.
func issueCodes(issues []domain.ValidationIssue) []string {
	codes := make([]string, 0, len(issues))
	for _, is := range issues {
		codes = append(codes, is.Code)
	}
	return codes
}

const completeArticleFixture = `{
	"@context": "https://schema.org",
	"@type": "Article",
	"headline": "How to Grow Tomatoes",
	"image": "https://example.com/tomatoes.jpg",
	"author": {"@type": "Person", "name": "Jane Doe"},
	"datePublished": "2024-03-01T09:00:00Z",
	"dateModified": "2024-03-02T09:00:00Z",
	"publisher": {"@type": "Organization", "name": "Garden Weekly"},
	"description": "A growing guide.",
	"mainEntityOfPage": "https://example.com/tomatoes"
}`

const graphFixture = `{
	"@context": "https://schema.org",
	"@graph": [
		{"@type": "WebSite", "name": "Example", "url": "https://example.com"},
		{
			"@type": "Product",
			"name": "Trowel",
			"image": "https://example.com/trowel.jpg",
			"description": "A hand trowel.",
			"offers": {"@type": "Offer", "price": "9.99", "priceCurrency": "USD"},
			"brand": {"@type": "Brand", "name": "DigCo"},
			"sku": "TRW-1",
			"aggregateRating": {"@type": "AggregateRating", "ratingValue": "4.5", "reviewCount": "12"},
			"review": {"@type": "Review", "reviewBody": "Solid."}
		}
	]
}`

func TestValidate_CompleteArticle(t *testing.T) {
	t.Parallel()

	result := schema.Validate(mustParse(t, completeArticleFixture), domain.TypeArticle)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_NilDocument(t *testing.T) {
	t.Parallel()

	result := schema.Validate(nil, domain.TypeArticle)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, schema.CodeInvalidSchema, result.Errors[0].Code)
}

func TestValidate_MissingRequired(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{
		"@type": "Article",
		"headline": "No Image Here",
		"author": {"@type": "Person", "name": "Jane Doe"},
		"datePublished": "2024-03-01"
	}`)

	result := schema.Validate(doc, domain.TypeArticle)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, schema.CodeMissingRequired, result.Errors[0].Code)
	assert.Equal(t, "image", result.Errors[0].Property)
}

func TestValidate_EmptyStringCountsAsMissing(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{
		"@type": "Article",
		"headline": "",
		"image": "https://example.com/a.jpg",
		"author": {"@type": "Person", "name": "Jane Doe"},
		"datePublished": "2024-03-01"
	}`)

	result := schema.Validate(doc, domain.TypeArticle)

	assert.False(t, result.IsValid)
	assert.Contains(t, issueCodes(result.Errors), schema.CodeMissingRequired)
}

func TestValidate_MissingRecommendedIsWarningOnly(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{
		"@type": "Article",
		"headline": "Bare But Valid",
		"image": "https://example.com/a.jpg",
		"author": {"@type": "Person", "name": "Jane Doe"},
		"datePublished": "2024-03-01"
	}`)

	result := schema.Validate(doc, domain.TypeArticle)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.Warnings)
	for _, w := range result.Warnings {
		assert.Equal(t, schema.CodeMissingRecommended, w.Code)
	}
}

func TestValidate_PrimaryEntityInGraph(t *testing.T) {
	t.Parallel()

	result := schema.Validate(mustParse(t, graphFixture), domain.TypeProduct)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestValidate_MissingPrimaryEntity(t *testing.T) {
	t.Parallel()

	result := schema.Validate(mustParse(t, graphFixture), domain.TypeRecipe)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, schema.CodeMissingPrimaryEntity, result.Errors[0].Code)
}

func TestValidate_TypeArrayMatches(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{
		"@type": ["LocalBusiness", "Restaurant"],
		"name": "Pine Diner",
		"address": {"@type": "PostalAddress", "streetAddress": "1 Main St"},
		"telephone": "+1-555-0100"
	}`)

	result := schema.Validate(doc, domain.TypeLocalBusiness)

	assert.True(t, result.IsValid)
}

func TestValidate_AuthorWithoutName(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{
		"@type": "Article",
		"headline": "Anonymous",
		"image": "https://example.com/a.jpg",
		"author": {"@type": "Person"},
		"datePublished": "2024-03-01"
	}`)

	result := schema.Validate(doc, domain.TypeArticle)

	assert.False(t, result.IsValid)
	assert.Contains(t, issueCodes(result.Errors), schema.CodeInvalidAuthor)
}

func TestValidate_UnparseableDate(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{
		"@type": "Article",
		"headline": "Bad Date",
		"image": "https://example.com/a.jpg",
		"author": {"@type": "Person", "name": "Jane Doe"},
		"datePublished": "last Tuesday"
	}`)

	result := schema.Validate(doc, domain.TypeArticle)

	assert.False(t, result.IsValid)
	assert.Contains(t, issueCodes(result.Errors), schema.CodeInvalidDate)
}

func TestValidate_DateLayouts(t *testing.T) {
	t.Parallel()

	for _, date := range []string{"2024-03-01", "2024-03-01T09:00:00", "2024-03-01T09:00:00Z"} {
		doc := mustParse(t, completeArticleFixture)
		doc["datePublished"] = date

		result := schema.Validate(doc, domain.TypeArticle)
		assert.Truef(t, result.IsValid, "date %q should validate", date)
	}
}

func TestValidate_OfferMissingCurrency(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{
		"@type": "Product",
		"name": "Trowel",
		"image": "https://example.com/trowel.jpg",
		"description": "A hand trowel.",
		"offers": {"@type": "Offer", "price": "9.99"}
	}`)

	result := schema.Validate(doc, domain.TypeProduct)

	assert.False(t, result.IsValid)
	assert.Contains(t, issueCodes(result.Errors), schema.CodeInvalidOffer)
}

func TestValidate_StringAddressRejected(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{
		"@type": "LocalBusiness",
		"name": "Pine Diner",
		"address": "1 Main St, Springfield",
		"telephone": "+1-555-0100"
	}`)

	result := schema.Validate(doc, domain.TypeLocalBusiness)

	assert.False(t, result.IsValid)
	assert.Contains(t, issueCodes(result.Errors), schema.CodeInvalidAddress)
}

func TestValidate_RelativeImageURL(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, completeArticleFixture)
	doc["image"] = "/images/tomatoes.jpg"

	result := schema.Validate(doc, domain.TypeArticle)

	assert.False(t, result.IsValid)
	assert.Contains(t, issueCodes(result.Errors), schema.CodeInvalidImage)
}

func TestValidate_DeepChecksSkippedWhenRequiredMissing(t *testing.T) {
	t.Parallel()

	// datePublished is both missing from required and unparseable would
	// not apply; only the missing-required error must surface.
	doc := mustParse(t, `{
		"@type": "Article",
		"headline": "Partial",
		"author": "just a string",
		"datePublished": "not a date"
	}`)

	result := schema.Validate(doc, domain.TypeArticle)

	assert.False(t, result.IsValid)
	for _, code := range issueCodes(result.Errors) {
		assert.Equal(t, schema.CodeMissingRequired, code)
	}
}

func TestRulesFor_UnknownType(t *testing.T) {
	t.Parallel()

	_, ok := schema.RulesFor(domain.SchemaType("Spaceship"))
	assert.False(t, ok)
}

func TestValidate_AllKnownTypesHaveRules(t *testing.T) {
	t.Parallel()

	for _, st := range domain.SchemaTypes {
		_, ok := schema.RulesFor(st)
		assert.Truef(t, ok, "type %s should have a rule set", st)
	}
}
