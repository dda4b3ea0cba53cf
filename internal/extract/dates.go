package extract

import (
	"regexp"
	"strings"
	"time"
)

// Date handling is deliberately fuzzy: closing dates arrive as "Jan 24,
// 2026", "24 January 2026", "24/01/2026" and worse. Numeric forms are read
// day-first. No ecosystem date-guessing library is carried; explicit layouts
// plus embedded-date recovery cover what the site actually emits.

var monthDateLayouts = []string{
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2 Jan, 2006",
	"2 January, 2006",
}

var numericDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
}

var (
	embeddedMonthDate = regexp.MustCompile(`(?i)\b([A-Za-z]{3,9}\s+\d{1,2},?\s*\d{4}|\d{1,2}\s+[A-Za-z]{3,9},?\s*\d{4})\b`)
	embeddedNumeric   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{1,2}[/.\-]\d{1,2}[/.\-]\d{4})\b`)
)

// ParseClosingDate parses a raw closing-date string into a calendar date.
// ok is false when nothing date-shaped can be recovered; the caller keeps
// the raw string either way.
func ParseClosingDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := parseLayouts(s); ok {
		return t, true
	}

	// fuzzy pass: pull the first date-shaped token out of surrounding text
	if m := embeddedMonthDate.FindString(s); m != "" {
		if t, ok := parseLayouts(m); ok {
			return t, true
		}
	}
	if m := embeddedNumeric.FindString(s); m != "" {
		if t, ok := parseLayouts(m); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// NormalizeClosingDate returns the ISO form of a raw closing-date string,
// or "" when it cannot be parsed.
func NormalizeClosingDate(raw string) string {
	t, ok := ParseClosingDate(raw)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

func parseLayouts(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range monthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range numericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
