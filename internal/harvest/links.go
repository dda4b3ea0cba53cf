package harvest

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// detailPathPattern catches detail-page paths anywhere in raw text: anchor
// hrefs, inline scripts, and background fetch bodies all carry the same
// shape.
var detailPathPattern = regexp.MustCompile(`(?i)(?:https?://jobs\.af)?(/jobs/[a-z0-9][a-z0-9\-_/]*)`)

var counterPattern = regexp.MustCompile(`(\d+)\s+Available Jobs`)

// NormalizeURL resolves a discovered href to an absolute URL against base.
func NormalizeURL(base, u string) string {
	base = strings.TrimRight(base, "/")
	if strings.HasPrefix(u, "/") {
		return base + u
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return base + "/" + strings.TrimLeft(u, "/")
}

// BuildListingURL constructs the filtered listing URL: repeated category
// parameters joined by '&', page number appended.
func BuildListingURL(base string, categories []string, page int) string {
	params := make([]string, 0, len(categories)+1)
	for _, cat := range categories {
		params = append(params, "category="+url.QueryEscape(cat))
	}
	params = append(params, fmt.Sprintf("page=%d", page))
	return strings.TrimRight(base, "/") + "/jobs/?" + strings.Join(params, "&")
}

// MineLinksFromText extracts detail-page URLs from raw text via the path
// pattern, skipping listing-query paths.
func MineLinksFromText(base, text string) []string {
	var links []string
	for _, m := range detailPathPattern.FindAllStringSubmatch(text, -1) {
		path := m[1]
		if strings.Contains(path, "/jobs?") {
			continue
		}
		links = append(links, NormalizeURL(base, path))
	}
	return links
}

// ExtractLinksFromHTML unions anchor-based extraction with the text-pattern
// pass over the full markup. Anchors alone miss links embedded in inline
// scripts and non-anchor markup.
func ExtractLinksFromHTML(base, html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing HTML: %w", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		if strings.Contains(href, "/jobs/") && !strings.Contains(href, "/jobs?") && !strings.Contains(href, "/jobs/?") {
			links = append(links, NormalizeURL(base, href))
		}
	})

	links = append(links, MineLinksFromText(base, html)...)
	return links, nil
}

// ParseCount pulls the leading integer from a "N Available Jobs" counter
// text. ok is false when the text carries no counter.
func ParseCount(text string) (int, bool) {
	m := counterPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(m[1], "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}

// PageCount is the authoritative page count: the larger of ceiling division
// by page size and the pager-UI maximum. Either signal alone can undercount
// when the markup drifts.
func PageCount(total, pageSize, pagerMax int) int {
	if pageSize <= 0 {
		pageSize = 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pagerMax > pages {
		pages = pagerMax
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}
