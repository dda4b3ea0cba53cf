package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// knownLabels is the fixed field-label vocabulary observed on detail pages.
var knownLabels = map[string]bool{
	"post date":           true,
	"closing date":        true,
	"reference":           true,
	"number of vacancies": true,
	"salary range":        true,
	"years of experience": true,
	"probation period":    true,
	"contract type":       true,
	"contract duration":   true,
	"minimum education":   true,
	"location":            true,
	"company":             true,
	"functional area":     true,
	"provinces":           true,
	"countries":           true,
	"contract extensible": true,
}

var titleCaser = cases.Title(language.English)

// detailsPass is one field-discovery heuristic. Passes only fill keys not
// already present, so the merge is first-pass-wins.
type detailsPass func(doc *goquery.Document, details map[string]string)

// detailsPasses in precedence order: labelled elements, dt/dd pairs, table
// rows, flattened-text lines.
var detailsPasses = []detailsPass{
	labelledElementPass,
	definitionListPass,
	tableRowPass,
	flattenedLinePass,
}

// ExtractDetails merges the key-value passes over a detail page.
func ExtractDetails(doc *goquery.Document) map[string]string {
	details := make(map[string]string)
	for _, pass := range detailsPasses {
		pass(doc, details)
	}
	return details
}

func setIfAbsent(details map[string]string, key, value string) {
	if key == "" || value == "" {
		return
	}
	if _, exists := details[key]; !exists {
		details[key] = value
	}
}

// labelledElementPass: elements whose own text is exactly a known label,
// paired with the next sibling element's text as the value.
func labelledElementPass(doc *goquery.Document, details map[string]string) {
	doc.Find("div, span, p, dt, th, td").Each(func(_ int, el *goquery.Selection) {
		text := strings.ToLower(squash(el.Text()))
		if !knownLabels[text] {
			return
		}
		next := el.Next()
		if next.Length() == 0 {
			return
		}
		val := squash(next.Text())
		if val == "" || len(val) >= 200 || knownLabels[strings.ToLower(val)] {
			return
		}
		setIfAbsent(details, titleCaser.String(text), val)
	})
}

// definitionListPass: dt paired with the next dd sibling.
func definitionListPass(doc *goquery.Document, details map[string]string) {
	doc.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		key := squash(dt.Text())
		dd := dt.NextAllFiltered("dd").First()
		if key == "" || dd.Length() == 0 {
			return
		}
		setIfAbsent(details, key, squash(dd.Text()))
	})
}

// tableRowPass: two-cell rows, first cell as a length-bounded key.
func tableRowPass(doc *goquery.Document, details map[string]string) {
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		k := squash(cells.Eq(0).Text())
		v := squash(cells.Eq(1).Text())
		if k == "" || v == "" || len(k) > 80 {
			return
		}
		setIfAbsent(details, k, v)
	})
}

// flattenedLinePass: a line that is exactly a known label takes its value
// from the next 1-2 non-empty lines; otherwise a colon line with bounded
// key/value lengths.
func flattenedLinePass(doc *goquery.Document, details map[string]string) {
	lines := FlattenedLines(doc.Selection)
	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))

		if knownLabels[lower] {
			for j := i + 1; j < len(lines) && j <= i+2; j++ {
				val := strings.TrimSpace(lines[j])
				if val == "" || knownLabels[strings.ToLower(val)] {
					continue
				}
				setIfAbsent(details, titleCaser.String(lower), val)
				break
			}
			continue
		}

		if strings.Contains(line, ":") && len(line) >= 3 && len(line) <= 240 {
			left, right, _ := strings.Cut(line, ":")
			k := strings.TrimSpace(left)
			v := strings.TrimSpace(right)
			if len(k) >= 2 && len(k) <= 80 && v != "" {
				setIfAbsent(details, k, v)
			}
		}
	}
}

// FlattenedLines renders a selection's text content as trimmed, non-empty
// lines, one per text node, skipping script and style subtrees.
func FlattenedLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return lines
}

// FlattenedText is the newline-joined form of FlattenedLines.
func FlattenedText(sel *goquery.Selection) string {
	return strings.Join(FlattenedLines(sel), "\n")
}

// squash collapses inner whitespace runs and trims, the way scraped element
// text is compared against labels.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
