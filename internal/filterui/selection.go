package filterui

import (
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ExcludedKeyword marks options that must never be selected regardless of
// the search term. "Solution Architect" and friends show up under every
// software-ish term but are a different job family.
const ExcludedKeyword = "architect"

// Selection tracks option labels already applied across repeated dropdown
// interactions, so re-rendered options are not re-selected or
// double-counted. Keys are fold-normalized. The set is owned by the run
// driver and passed into each SelectCategory call.
type Selection struct {
	labels mapset.Set[string]
}

func NewSelection() *Selection {
	return &Selection{labels: mapset.NewSet[string]()}
}

// Mark records an option label as applied.
func (s *Selection) Mark(label string) {
	s.labels.Add(NormalizeLabel(label))
}

// Has reports whether an option label was already applied.
func (s *Selection) Has(label string) bool {
	return s.labels.Contains(NormalizeLabel(label))
}

// Labels returns the normalized tracked labels, for handing to the
// in-page option scan.
func (s *Selection) Labels() []string {
	return s.labels.ToSlice()
}

func (s *Selection) Len() int {
	return s.labels.Cardinality()
}

// NormalizeLabel lower-cases and strips diacritics so visually identical
// option rows rendered with different composed forms dedupe.
func NormalizeLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, label)
	if err != nil {
		result = label
	}
	return strings.ToLower(strings.TrimSpace(result))
}

// MatchesOption is the option-match predicate: case-insensitive substring
// containment of the search term, with the excluded keyword always winning.
func MatchesOption(optionText, term string) bool {
	text := NormalizeLabel(optionText)
	if strings.Contains(text, ExcludedKeyword) {
		return false
	}
	return strings.Contains(text, NormalizeLabel(term))
}
