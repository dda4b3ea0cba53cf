// Package extract converts one detail page's markup into a JobRecord using
// competing heuristics with fixed precedence. Every field except the URL is
// optional; a miss never fails the record.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/harvest"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/record"
)

// siteName is the sentinel: a detail page whose title normalizes to the
// site's own name is challenge content, not a posting.
const siteName = "jobs.af"

var (
	companySynonyms  = []string{"company", "organization", "employer"}
	locationSynonyms = []string{"location", "duty station", "city", "provinces"}
	// "closing date" must match exactly so "post date" can never bleed in
	closingSynonyms = []string{"closing date", "deadline", "apply by", "application deadline"}
)

var (
	closingLabelLine = regexp.MustCompile(`(?i)^\s*closing\s+date\s*$`)
	monthDayYearLine = regexp.MustCompile(`^[A-Za-z]{3,}\s+\d{1,2},?\s*\d{4}$`)
	closingInline    = regexp.MustCompile(`(?i)Closing\s+Date[:\s]+([A-Za-z]{3,}\s+\d{1,2},?\s*\d{4})`)
	deadlineInline   = regexp.MustCompile(`(?i)Deadline[:\s]+([A-Za-z]{3,}\s+\d{1,2},?\s*\d{4})`)
)

// Extractor builds JobRecords from raw detail-page markup.
type Extractor struct {
	baseURL string
}

func NewExtractor(baseURL string) *Extractor {
	return &Extractor{baseURL: strings.TrimRight(baseURL, "/")}
}

// Extract parses a detail page into a JobRecord. The URL is normalized to
// absolute form; all other fields are best-effort.
func (e *Extractor) Extract(htmlSrc, url string, now time.Time) (record.JobRecord, error) {
	rec := record.JobRecord{
		URL:       harvest.NormalizeURL(e.baseURL, url),
		Details:   map[string]string{},
		ScrapedAt: record.Timestamp(now),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return rec, fmt.Errorf("failed to parse detail HTML: %w", err)
	}

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		rec.Title = squash(h1.Text())
	}

	rec.Details = ExtractDetails(doc)
	e.deriveFields(&rec)

	if rec.ClosingDateRaw == "" {
		rec.ClosingDateRaw = fallbackClosingDate(doc)
	}
	if rec.ClosingDateRaw != "" {
		rec.ClosingDate = NormalizeClosingDate(rec.ClosingDateRaw)
	}

	rec.ApplyURL = e.applyURL(doc)
	rec.Description = pickDescription(doc)
	return rec, nil
}

// IsSentinelTitle reports whether a title is the site's own name, meaning
// the page was challenge content and the record must be discarded.
func IsSentinelTitle(title string) bool {
	return strings.ToLower(strings.TrimSpace(title)) == siteName
}

// deriveFields pulls company, location and the raw closing date from the
// merged details map by label synonyms, first hit wins.
func (e *Extractor) deriveFields(rec *record.JobRecord) {
	idx := make(map[string]string, len(rec.Details))
	for k, v := range rec.Details {
		idx[strings.ToLower(strings.TrimSpace(k))] = v
	}

	rec.Company = firstSynonym(idx, companySynonyms)
	rec.Location = firstSynonym(idx, locationSynonyms)
	rec.ClosingDateRaw = firstSynonym(idx, closingSynonyms)
}

func firstSynonym(idx map[string]string, synonyms []string) string {
	for _, syn := range synonyms {
		if v, ok := idx[syn]; ok && v != "" {
			return v
		}
	}
	return ""
}

// fallbackClosingDate applies the three fallback patterns in order over the
// flattened page text, keeping the first success: label line followed by a
// date-shaped line, inline "Closing Date: ...", inline "Deadline: ...".
func fallbackClosingDate(doc *goquery.Document) string {
	lines := FlattenedLines(doc.Selection)
	full := strings.Join(lines, "\n")

	passes := []func() string{
		func() string {
			for i, line := range lines {
				if !closingLabelLine.MatchString(line) {
					continue
				}
				if i+1 < len(lines) {
					next := strings.TrimSpace(lines[i+1])
					if monthDayYearLine.MatchString(next) {
						return next
					}
				}
			}
			return ""
		},
		func() string {
			if m := closingInline.FindStringSubmatch(full); m != nil {
				return m[1]
			}
			return ""
		},
		func() string {
			if m := deadlineInline.FindStringSubmatch(full); m != nil {
				return m[1]
			}
			return ""
		},
	}

	for _, pass := range passes {
		if v := pass(); v != "" {
			return v
		}
	}
	return ""
}

// applyURL prefers the first anchor whose visible text mentions apply, then
// the first anchor whose target path does.
func (e *Extractor) applyURL(doc *goquery.Document) string {
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return true
		}
		if strings.Contains(strings.ToLower(squash(a.Text())), "apply") {
			found = harvest.NormalizeURL(e.baseURL, href)
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	doc.Find(`a[href*="apply"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return true
		}
		found = harvest.NormalizeURL(e.baseURL, href)
		return false
	})
	return found
}

// pickDescription returns the first sufficiently long flattened text among
// description-ish containers, article, main, then the whole body.
func pickDescription(doc *goquery.Document) string {
	const minLength = 200

	for _, sel := range []string{"[id*='description']", "[class*='description']", "article", "main"} {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if t := FlattenedText(el); len(t) > minLength {
			return t
		}
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		if t := FlattenedText(body); t != "" && len(t) > minLength {
			return t
		}
	}
	return ""
}
