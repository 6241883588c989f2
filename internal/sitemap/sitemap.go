// Package sitemap resolves sitemap URLs into flat lists of page URLs.
// It expands sitemap index files recursively, handling arbitrarily
// nested indexes, and guards against self-referential indexes with a
// visited set.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/Papalexios/schema-markup-generator/internal/domain"
	"github.com/Papalexios/schema-markup-generator/internal/gateway"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
)

// Error reports a fatal sitemap resolution failure: the fetch failed,
// the document was not well-formed XML, or the top-level resolution
// produced zero page URLs.
type Error struct {
	URL string
	Err error
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("sitemap %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// xmlURLSet is the root element of a standard sitemap file.
type xmlURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []xmlURL `xml:"url"`
}

// xmlURL is a single <url> entry inside a <urlset>.
type xmlURL struct {
	Loc string `xml:"loc"`
}

// xmlSitemapIndex is the root element of a sitemap index file.
type xmlSitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Sitemaps []xmlSitemap `xml:"sitemap"`
}

// xmlSitemap is a single <sitemap> entry inside a <sitemapindex>.
type xmlSitemap struct {
	Loc string `xml:"loc"`
}

// Resolver expands sitemap indexes into page URL groups.
type Resolver struct {
	gateway *gateway.Client
	log     logger.Interface
}

// NewResolver creates a sitemap resolver.
func NewResolver(gw *gateway.Client, log logger.Interface) *Resolver {
	return &Resolver{gateway: gw, log: log}
}

// Resolve fetches the sitemap at rawURL and returns one group per leaf
// sitemap, depth-first, in listed order. Nested sitemaps are resolved
// one at a time; sitemap indexes are typically small, so simplicity
// wins over parallel fetches here.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) ([]domain.SitemapGroup, error) {
	visited := make(map[string]struct{})

	groups, err := r.resolve(ctx, rawURL, visited)
	if err != nil {
		return nil, err
	}

	if len(domain.FlattenGroups(groups)) == 0 {
		return nil, &Error{URL: rawURL, Err: fmt.Errorf("no page URLs found")}
	}
	return groups, nil
}

// resolve is the recursive worker behind Resolve. An already-visited
// URL yields no groups instead of recursing forever.
func (r *Resolver) resolve(ctx context.Context, rawURL string, visited map[string]struct{}) ([]domain.SitemapGroup, error) {
	if _, seen := visited[rawURL]; seen {
		r.log.Warn("sitemap cycle detected, skipping", "url", rawURL)
		return nil, nil
	}
	visited[rawURL] = struct{}{}

	body, status, err := r.gateway.FetchBody(ctx, rawURL)
	if err != nil {
		return nil, &Error{URL: rawURL, Err: err}
	}
	if status != http.StatusOK {
		return nil, &Error{URL: rawURL, Err: fmt.Errorf("http status %d", status)}
	}

	if children, ok := parseIndex(body); ok {
		return r.resolveChildren(ctx, children, visited)
	}

	urls, parseErr := parseURLSet(body)
	if parseErr != nil {
		return nil, &Error{URL: rawURL, Err: parseErr}
	}
	if len(urls) == 0 {
		return nil, nil
	}

	r.log.Debug("resolved sitemap", "url", rawURL, "page_count", len(urls))

	return []domain.SitemapGroup{{SourceSitemapURL: rawURL, PageURLs: urls}}, nil
}

// resolveChildren resolves nested sitemaps sequentially in listed order
// and concatenates their groups.
func (r *Resolver) resolveChildren(ctx context.Context, children []string, visited map[string]struct{}) ([]domain.SitemapGroup, error) {
	var groups []domain.SitemapGroup
	for _, child := range children {
		childGroups, err := r.resolve(ctx, child, visited)
		if err != nil {
			return nil, err
		}
		groups = append(groups, childGroups...)
	}
	return groups, nil
}

// parseIndex parses body as a sitemap index. The second return value is
// false when the document is not a sitemap index.
func parseIndex(body []byte) ([]string, bool) {
	var index xmlSitemapIndex
	if err := xml.Unmarshal(body, &index); err != nil || len(index.Sitemaps) == 0 {
		return nil, false
	}

	locs := make([]string, 0, len(index.Sitemaps))
	for _, sm := range index.Sitemaps {
		if sm.Loc != "" {
			locs = append(locs, sm.Loc)
		}
	}
	return locs, len(locs) > 0
}

// parseURLSet parses body as a standard sitemap and returns its page
// locations in document order.
func parseURLSet(body []byte) ([]string, error) {
	var urlset xmlURLSet
	if err := xml.Unmarshal(body, &urlset); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}

	urls := make([]string, 0, len(urlset.URLs))
	for _, u := range urlset.URLs {
		if u.Loc != "" {
			urls = append(urls, u.Loc)
		}
	}
	return urls, nil
}
