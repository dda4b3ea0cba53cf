// Package locator finds filter-UI elements by layout proximity to their
// text labels. The listing UI exposes no stable identifiers for its
// controls; geometry relative to the label is the only stable signal, so
// each heuristic is a named, swappable strategy rather than an inline
// script.
package locator

import (
	"github.com/playwright-community/playwright-go"
)

// Strategy locates a candidate element for a labelled control on a live
// page. A nil element with a nil error is a miss, not a failure.
type Strategy interface {
	Locate(page playwright.Page, label string) (playwright.ElementHandle, error)
}

// ControlBelowLabel picks the nearest interactive element positioned below
// the label's bounding box, skipping tiny elements and the primary keyword
// search input.
type ControlBelowLabel struct{}

func (ControlBelowLabel) Locate(page playwright.Page, label string) (playwright.ElementHandle, error) {
	return evalToElement(page, controlBelowLabelJS, label)
}

// DropdownSearchBox finds the nested search input inside an opened dropdown
// associated with the label, falling back to a scan of visible listbox-like
// containers when no labelled match exists.
type DropdownSearchBox struct{}

func (DropdownSearchBox) Locate(page playwright.Page, label string) (playwright.ElementHandle, error) {
	return evalToElement(page, dropdownSearchBoxJS, label)
}

// ActiveDropdownInput is label-independent: it returns the focused search
// input of the currently open dropdown, or the topmost visible one.
type ActiveDropdownInput struct{}

func (ActiveDropdownInput) Locate(page playwright.Page, _ string) (playwright.ElementHandle, error) {
	return evalToElementNoArg(page, activeDropdownInputJS)
}

func evalToElement(page playwright.Page, script, label string) (playwright.ElementHandle, error) {
	handle, err := page.EvaluateHandle(script, label)
	if err != nil {
		return nil, err
	}
	return handle.AsElement(), nil
}

func evalToElementNoArg(page playwright.Page, script string) (playwright.ElementHandle, error) {
	handle, err := page.EvaluateHandle(script)
	if err != nil {
		return nil, err
	}
	return handle.AsElement(), nil
}
