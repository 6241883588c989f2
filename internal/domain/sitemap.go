package domain

// SitemapGroup is one resolved sitemap and the page URLs it lists.
// PageURLs preserves document order and may contain duplicates; callers
// dedupe across groups before analysis.
type SitemapGroup struct {
	// SourceSitemapURL is the sitemap document the URLs came from.
	SourceSitemapURL string `json:"source_sitemap_url" mapstructure:"source_sitemap_url"`
	// PageURLs are the page locations listed by the sitemap.
	PageURLs []string `json:"page_urls" mapstructure:"page_urls"`
}

// FlattenGroups returns the union of all page URLs across groups,
// deduplicated, preserving first-seen order.
func FlattenGroups(groups []SitemapGroup) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, g := range groups {
		for _, u := range g.PageURLs {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
		}
	}
	return urls
}
