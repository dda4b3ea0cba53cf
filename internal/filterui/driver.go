package filterui

import (
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/locator"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/logger"
)

const categoriesLabel = "Categories"

// Driver operates the label-relative multi-select category control. All
// element lookups go through locator strategies so the geometry heuristics
// stay swappable.
type Driver struct {
	baseURL     string
	control     locator.Strategy
	searchBox   locator.Strategy
	activeInput locator.Strategy
}

func NewDriver(baseURL string) *Driver {
	return &Driver{
		baseURL:     strings.TrimRight(baseURL, "/"),
		control:     locator.ControlBelowLabel{},
		searchBox:   locator.DropdownSearchBox{},
		activeInput: locator.ActiveDropdownInput{},
	}
}

// IsDetailURL reports whether u points at a job detail page rather than the
// listing. Detail paths look like /jobs/<slug> with no query after the
// segment.
func IsDetailURL(u string) bool {
	idx := strings.Index(u, "/jobs/")
	if idx < 0 {
		return false
	}
	if strings.HasSuffix(u, "/jobs") {
		return false
	}
	rest := u[idx+len("/jobs/"):]
	return rest != "" && !strings.Contains(rest, "?")
}

// EnsureOnListing checks the current URL and, if an errant click navigated
// to a detail page, goes back to the last filtered listing URL (or the bare
// listing) and reopens the filter panel. Returns true when recovery ran.
func (d *Driver) EnsureOnListing(page playwright.Page, filteredURL string) bool {
	if !IsDetailURL(page.URL()) {
		return false
	}

	logger.Log.Warn().Str("url", page.URL()).Msg("accidentally navigated to a detail page, going back")
	target := filteredURL
	if target == "" {
		target = d.baseURL + "/jobs"
	}
	if _, err := page.Goto(target, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		logger.Log.Warn().Err(err).Msg("recovery navigation failed")
	}
	time.Sleep(1500 * time.Millisecond)
	softNetworkIdle(page, 10000)

	d.openFilterPanel(page)
	time.Sleep(800 * time.Millisecond)
	return true
}

// SelectCategory types term into the category dropdown's search box and
// clicks every visible, unselected option containing it. Zero matches is a
// logged no-op. The updated selection is the tracking set passed in.
func (d *Driver) SelectCategory(page playwright.Page, term string, sel *Selection, filteredURL string) error {
	d.EnsureOnListing(page, filteredURL)

	oldCounter := counterText(page)

	// close anything open
	_ = page.Keyboard().Press("Escape")
	time.Sleep(300 * time.Millisecond)

	control, err := d.findCategoriesControl(page)
	if err != nil {
		return err
	}
	if control == nil {
		logger.Log.Warn().Str("term", term).Msg("could not find Categories control, skipping")
		return nil
	}

	inp, err := d.openAndFindSearchBox(page, control)
	if err != nil {
		return err
	}
	if inp == nil {
		logger.Log.Warn().Str("term", term).Msg("could not find Categories search input, skipping")
		return nil
	}

	if err := typeSearchTerm(inp, term); err != nil {
		logger.Log.Warn().Err(err).Str("term", term).Msg("typing search term failed")
		return nil
	}
	time.Sleep(1200 * time.Millisecond)

	box, err := inp.BoundingBox()
	if err != nil || box == nil {
		logger.Log.Warn().Str("term", term).Msg("could not measure search input, skipping")
		return nil
	}

	options, err := locator.FindOptions(page, NormalizeLabel(term), ExcludedKeyword, box.X, box.Y, sel.Labels())
	if err != nil {
		logger.Log.Warn().Err(err).Str("term", term).Msg("option scan failed")
		return nil
	}
	options = dedupeOptions(options, sel)

	if len(options) == 0 {
		logger.Log.Info().Str("term", term).Msg("no matching options found")
	} else {
		logger.Log.Debug().Str("term", term).Int("matches", len(options)).Msg("matching options found")
	}

	d.clickOptions(page, term, options, sel)

	time.Sleep(400 * time.Millisecond)

	// click outside the dropdown to close and apply
	_ = page.Mouse().Click(700, 200)
	time.Sleep(600 * time.Millisecond)

	waitResultsRefresh(page, oldCounter)
	softNetworkIdle(page, 5000)
	time.Sleep(400 * time.Millisecond)

	if newCounter := counterText(page); newCounter != oldCounter {
		logger.Log.Debug().Str("before", oldCounter).Str("after", newCounter).Msg("result counter changed")
	}
	return nil
}

// clickOptions applies each pending option by absolute screen coordinates.
// Element handles go stale after every click, so coordinates from the scan
// are the only reliable target. Navigation checks bracket every click.
func (d *Driver) clickOptions(page playwright.Page, term string, options []locator.Option, sel *Selection) {
	for _, opt := range options {
		if opt.AlreadyChecked {
			// persists visually as checked from a previous term
			sel.Mark(opt.Text)
			continue
		}
		if sel.Has(opt.Text) {
			continue
		}

		if d.EnsureOnListing(page, "") {
			logger.Log.Warn().Str("term", term).Msg("page changed during selection, stopping this term")
			return
		}

		if err := page.Mouse().Click(opt.CenterX, opt.CenterY); err != nil {
			logger.Log.Warn().Err(err).Str("option", opt.Text).Msg("option click failed")
			continue
		}
		sel.Mark(opt.Text)
		logger.Log.Info().Str("option", opt.Text).Msg("selected category option")
		time.Sleep(500 * time.Millisecond)

		if d.EnsureOnListing(page, "") {
			logger.Log.Warn().Str("term", term).Msg("navigated away after click, stopping this term")
			return
		}

		if remainingClicks(options, sel) == 0 {
			continue
		}
		// the dropdown sometimes closes itself after a click; reopen and
		// retype before the next option
		if !locator.DropdownStillOpen(page) {
			d.reopenAndRetype(page, term)
		}
	}
}

func (d *Driver) reopenAndRetype(page playwright.Page, term string) {
	control, err := d.control.Locate(page, categoriesLabel)
	if err != nil || control == nil {
		return
	}
	if err := control.Click(playwright.ElementHandleClickOptions{Force: playwright.Bool(true)}); err != nil {
		return
	}
	time.Sleep(400 * time.Millisecond)

	inp := d.pollSearchBox(page, 20)
	if inp == nil {
		return
	}
	if err := typeSearchTerm(inp, term); err != nil {
		return
	}
	time.Sleep(800 * time.Millisecond)
}

// findCategoriesControl locates the category control, re-opening the filter
// panel once when the first lookup misses.
func (d *Driver) findCategoriesControl(page playwright.Page) (playwright.ElementHandle, error) {
	control, err := d.control.Locate(page, categoriesLabel)
	if err != nil {
		return nil, err
	}
	if control != nil {
		return control, nil
	}

	d.openFilterPanel(page)
	time.Sleep(800 * time.Millisecond)
	return d.control.Locate(page, categoriesLabel)
}

// openAndFindSearchBox clicks the control open (unless it is itself an
// input) and polls for the nested search box.
func (d *Driver) openAndFindSearchBox(page playwright.Page, control playwright.ElementHandle) (playwright.ElementHandle, error) {
	_ = control.ScrollIntoViewIfNeeded()

	if tagName(control) == "INPUT" {
		if err := control.Click(playwright.ElementHandleClickOptions{Force: playwright.Bool(true)}); err != nil {
			return nil, err
		}
		time.Sleep(200 * time.Millisecond)
		return control, nil
	}

	if err := control.Click(playwright.ElementHandleClickOptions{Force: playwright.Bool(true)}); err != nil {
		return nil, err
	}
	time.Sleep(400 * time.Millisecond)

	return d.pollSearchBox(page, 20), nil
}

func (d *Driver) pollSearchBox(page playwright.Page, attempts int) playwright.ElementHandle {
	for i := 0; i < attempts; i++ {
		inp, err := d.searchBox.Locate(page, categoriesLabel)
		if err == nil && inp == nil {
			inp, err = d.activeInput.Locate(page, "")
		}
		if err == nil && inp != nil {
			if visible, _ := inp.IsVisible(); visible {
				return inp
			}
		}
		time.Sleep(150 * time.Millisecond)
	}
	return nil
}

// openFilterPanel clicks whichever "Filters" affordance the UI currently
// renders.
func (d *Driver) openFilterPanel(page playwright.Page) bool {
	candidates := []playwright.Locator{
		page.Locator(`button:has-text("Filters")`).First(),
		page.Locator(`[role="button"]:has-text("Filters")`).First(),
		page.Locator(`text="Filters"`).First(),
		page.Locator(`text=Filters`).First(),
	}
	for _, c := range candidates {
		if forceClick(c) {
			return true
		}
	}
	return false
}

func forceClick(loc playwright.Locator) bool {
	if err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(12000),
	}); err != nil {
		return false
	}
	_ = loc.ScrollIntoViewIfNeeded()
	return loc.Click(playwright.LocatorClickOptions{
		Force:   playwright.Bool(true),
		Timeout: playwright.Float(12000),
	}) == nil
}

func typeSearchTerm(inp playwright.ElementHandle, term string) error {
	_ = inp.Focus()
	_ = inp.Click(playwright.ElementHandleClickOptions{Force: playwright.Bool(true)})
	_ = inp.Fill("")
	return inp.Type(term, playwright.ElementHandleTypeOptions{
		Delay: playwright.Float(30),
	})
}

func tagName(el playwright.ElementHandle) string {
	prop, err := el.GetProperty("tagName")
	if err != nil {
		return ""
	}
	v, err := prop.JSONValue()
	if err != nil {
		return ""
	}
	tag, _ := v.(string)
	return strings.ToUpper(tag)
}

func dedupeOptions(options []locator.Option, sel *Selection) []locator.Option {
	seen := make(map[string]bool, len(options))
	unique := make([]locator.Option, 0, len(options))
	for _, opt := range options {
		key := NormalizeLabel(opt.Text)
		if seen[key] || sel.Has(opt.Text) {
			continue
		}
		seen[key] = true
		unique = append(unique, opt)
	}
	return unique
}

func remainingClicks(options []locator.Option, sel *Selection) int {
	n := 0
	for _, opt := range options {
		if !opt.AlreadyChecked && !sel.Has(opt.Text) {
			n++
		}
	}
	return n
}

// counterText reads the live "N Available Jobs" counter, empty when absent.
func counterText(page playwright.Page) string {
	res, err := page.Evaluate(`
		() => {
			const els = Array.from(document.querySelectorAll('*'));
			const el = els.find(e => e && e.innerText && /\b\d+\s+Available Jobs\b/i.test(e.innerText));
			return el ? el.innerText.trim() : '';
		}
	`)
	if err != nil {
		return ""
	}
	text, _ := res.(string)
	return text
}

// waitResultsRefresh waits, best effort, for the result counter to change
// after a selection was applied.
func waitResultsRefresh(page playwright.Page, oldCounter string) {
	time.Sleep(350 * time.Millisecond)
	if oldCounter != "" {
		_, _ = page.WaitForFunction(`
			(oldText) => {
				const els = Array.from(document.querySelectorAll('*'));
				const el = els.find(e => e && e.innerText && /\b\d+\s+Available Jobs\b/i.test(e.innerText));
				if (!el) return false;
				return el.innerText.trim() !== oldText;
			}
		`, oldCounter, playwright.PageWaitForFunctionOptions{
			Timeout: playwright.Float(12000),
		})
	}
	softNetworkIdle(page, 12000)
}

func softNetworkIdle(page playwright.Page, timeoutMs float64) bool {
	err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(timeoutMs),
	})
	return err == nil
}
