package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
)

func TestParseSchemaType(t *testing.T) {
	t.Parallel()

	st, ok := domain.ParseSchemaType("Article")
	require.True(t, ok)
	assert.Equal(t, domain.TypeArticle, st)

	// Parsing is exact: no case folding, no fuzzy matching.
	_, ok = domain.ParseSchemaType("article")
	assert.False(t, ok)

	_, ok = domain.ParseSchemaType("BlogPosting")
	assert.False(t, ok)
}

func TestIsOpportunityType(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.IsOpportunityType(domain.TypeFAQPage))
	assert.True(t, domain.IsOpportunityType(domain.TypeHowTo))
	assert.False(t, domain.IsOpportunityType(domain.TypeArticle))
}

func TestFlattenGroups_DedupesPreservingOrder(t *testing.T) {
	t.Parallel()

	groups := []domain.SitemapGroup{
		{SourceSitemapURL: "a.xml", PageURLs: []string{"/1", "/2", "/1"}},
		{SourceSitemapURL: "b.xml", PageURLs: []string{"/2", "/3"}},
	}

	assert.Equal(t, []string{"/1", "/2", "/3"}, domain.FlattenGroups(groups))
}

func TestFlattenGroups_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, domain.FlattenGroups(nil))
}

func TestPageRecord_Processable(t *testing.T) {
	t.Parallel()

	rec := domain.NewPageRecord("https://example.com/")
	assert.False(t, rec.Processable())

	rec.SchemaStatus = domain.StatusNotFound
	assert.True(t, rec.Processable())

	rec.SchemaStatus = domain.StatusAuditRecommended
	assert.True(t, rec.Processable())

	rec.SchemaStatus = domain.StatusCached
	assert.False(t, rec.Processable())
}

func TestPageRecord_NeedsAudit(t *testing.T) {
	t.Parallel()

	rec := domain.NewPageRecord("https://example.com/")
	rec.SchemaStatus = domain.StatusAuditRecommended
	// Audit needs the existing markup to reason about.
	assert.False(t, rec.NeedsAudit())

	rec.ExistingSchema = map[string]any{"@type": "Article"}
	assert.True(t, rec.NeedsAudit())
}
