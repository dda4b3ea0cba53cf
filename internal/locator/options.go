package locator

import (
	"github.com/playwright-community/playwright-go"
)

// Option is one visible dropdown option row matching a search term.
type Option struct {
	Text           string
	AlreadyChecked bool
	CenterX        float64
	CenterY        float64
}

// FindOptions enumerates visible option rows below the opened dropdown's
// search box whose text contains term, excluding rows containing the
// excluded keyword or any label in alreadySelected (lower-cased).
func FindOptions(page playwright.Page, term, excluded string, inputX, inputY float64, alreadySelected []string) ([]Option, error) {
	res, err := page.Evaluate(findOptionsJS, map[string]interface{}{
		"searchTerm":      term,
		"excluded":        excluded,
		"inputX":          inputX,
		"inputY":          inputY,
		"alreadySelected": alreadySelected,
	})
	if err != nil {
		return nil, err
	}

	raw, ok := res.([]interface{})
	if !ok {
		return nil, nil
	}

	options := make([]Option, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		options = append(options, Option{
			Text:           asString(m["text"]),
			AlreadyChecked: asBool(m["alreadyChecked"]),
			CenterX:        asFloat(m["centerX"]),
			CenterY:        asFloat(m["centerY"]),
		})
	}
	return options, nil
}

// DropdownStillOpen reports whether a dropdown search input is still
// visible; used to detect auto-close between option clicks.
func DropdownStillOpen(page playwright.Page) bool {
	res, err := page.Evaluate(dropdownStillOpenJS)
	if err != nil {
		return false
	}
	open, _ := res.(bool)
	return open
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}
