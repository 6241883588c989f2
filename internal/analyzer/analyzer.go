// Package analyzer inspects pages for existing Schema.org markup. For
// each URL it fetches the HTML, extracts the title and plain-text
// content, classifies the page's schema status, and records the result
// in the cache so later runs can skip unchanged pages.
package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Papalexios/schema-markup-generator/internal/cache"
	"github.com/Papalexios/schema-markup-generator/internal/domain"
	"github.com/Papalexios/schema-markup-generator/internal/gateway"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
)

// maxContentChars caps the plain-text snippet kept per page. The
// snippet only feeds generation prompts, so anything beyond this adds
// token cost without adding signal.
const maxContentChars = 4000

// CacheStore is the cache surface the analyzer needs.
type CacheStore interface {
	Get(site, url string) (cache.Entry, bool)
	Write(site, url string, entry cache.Entry) error
}

// Analyzer classifies pages by schema status.
type Analyzer struct {
	gateway *gateway.Client
	store   CacheStore
	log     logger.Interface
}

// New creates an analyzer.
func New(gw *gateway.Client, store CacheStore, log logger.Interface) *Analyzer {
	return &Analyzer{gateway: gw, store: store, log: log}
}

// Analyze inspects one page URL. A satisfactory cache entry (status
// found or audit recommended) short-circuits to StatusCached with zero
// network fetches. Fetch or parse failures yield StatusAnalysisFailed
// with the captured message; Analyze itself never returns an error.
func (a *Analyzer) Analyze(ctx context.Context, site, url string) *domain.PageRecord {
	record := domain.NewPageRecord(url)

	if entry, ok := a.store.Get(site, url); ok && entry.Satisfactory() {
		record.SchemaStatus = domain.StatusCached
		record.Title = entry.Title
		record.ExistingSchema = entry.ExistingSchema
		a.log.Debug("analysis skipped via cache", "url", url, "cached_status", entry.SchemaStatus)
		return record
	}

	body, status, err := a.gateway.FetchBody(ctx, url)
	if err != nil {
		return a.failed(record, err.Error())
	}
	if status != http.StatusOK {
		return a.failed(record, fmt.Sprintf("http status %d", status))
	}

	page, parseErr := ExtractPage(body)
	if parseErr != nil {
		return a.failed(record, parseErr.Error())
	}

	record.Title = page.Title
	record.Content = truncate(page.Content, maxContentChars)
	record.ExistingSchema = page.ExistingSchema
	if page.ExistingSchema != nil {
		record.SchemaStatus = domain.StatusAuditRecommended
	} else {
		record.SchemaStatus = domain.StatusNotFound
	}

	a.writeThrough(site, record)

	return record
}

// failed marks the record as unanalyzable. No content is retained and
// nothing is cached, so the next run retries the page.
func (a *Analyzer) failed(record *domain.PageRecord, msg string) *domain.PageRecord {
	record.SchemaStatus = domain.StatusAnalysisFailed
	record.AnalysisError = msg
	record.Content = ""
	a.log.Warn("page analysis failed", "url", record.URL, "error", msg)
	return record
}

// writeThrough records the analysis outcome in the cache.
func (a *Analyzer) writeThrough(site string, record *domain.PageRecord) {
	entry := cache.Entry{
		SchemaStatus:   record.SchemaStatus,
		Title:          record.Title,
		ExistingSchema: record.ExistingSchema,
		LastCheckedAt:  time.Now().UTC(),
	}
	if err := a.store.Write(site, record.URL, entry); err != nil {
		a.log.Warn("cache write failed", "url", record.URL, "error", err.Error())
	}
}

// truncate cuts s at limit bytes on a rune boundary.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
