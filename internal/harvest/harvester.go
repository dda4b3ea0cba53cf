package harvest

import (
	"errors"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/playwright-community/playwright-go"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/challenge"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/logger"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/navigate"
	"github.com/nasirkhansayyad132/jobsaf-tracker/utils"
)

// ErrNoResults is the distinct terminal condition for a listing that
// reports zero available results. It is reported, not treated as a failure.
var ErrNoResults = errors.New("listing reported zero available results")

// Harvester collects the complete set of detail-page URLs for a filter set.
// The link set is thread-safe because the passive response listener appends
// to it from the browser runtime's event goroutine while the page loop
// reads page HTML.
type Harvester struct {
	baseURL    string
	categories []string
	pageSize   int
	nav        *navigate.Navigator
	gate       *challenge.Gate
	links      mapset.Set[string]
}

func NewHarvester(baseURL string, categories []string, pageSize int, nav *navigate.Navigator, gate *challenge.Gate) *Harvester {
	return &Harvester{
		baseURL:    baseURL,
		categories: categories,
		pageSize:   pageSize,
		nav:        nav,
		gate:       gate,
		links:      mapset.NewSet[string](),
	}
}

// ListingURL returns the filtered listing URL for a page number.
func (h *Harvester) ListingURL(page int) string {
	return BuildListingURL(h.baseURL, h.categories, page)
}

// AttachResponseListener registers the network side-channel: every
// intercepted xhr/fetch body is mined for detail paths. Links fetched as
// background data never reach the HTML document, only this listener.
func (h *Harvester) AttachResponseListener(page playwright.Page) {
	page.OnResponse(func(resp playwright.Response) {
		rt := resp.Request().ResourceType()
		if rt != "xhr" && rt != "fetch" {
			return
		}
		body, err := resp.Text()
		if err != nil {
			return
		}
		for _, link := range MineLinksFromText(h.baseURL, body) {
			h.links.Add(link)
		}
	})
}

// Links returns the current harvest as a sorted slice.
func (h *Harvester) Links() []string {
	links := h.links.ToSlice()
	sort.Strings(links)
	return links
}

// Run loads page 1, learns the total count and page count, then walks every
// result page mining links. Page 1 is assumed already loaded by the caller
// (the filter pass ends there); it is re-used without a fresh navigation.
func (h *Harvester) Run(page playwright.Page) ([]string, error) {
	total := h.totalResults(page)
	logger.Log.Info().Int("total", total).Msg("available results reported")

	if total == 0 {
		return nil, ErrNoResults
	}

	pages := PageCount(total, h.pageSize, h.pagerMax(page))
	logger.Log.Info().Int("pages", pages).Int("page_size", h.pageSize).Msg("computed page count")

	for pageNum := 1; pageNum <= pages; pageNum++ {
		if pageNum > 1 {
			ok, err := h.nav.Goto(page, h.ListingURL(pageNum))
			if err != nil || !ok {
				logger.Log.Warn().Err(err).Int("page", pageNum).Msg("listing page load failed, continuing")
				continue
			}
			time.Sleep(1500 * time.Millisecond)
			challenge.WaitNetworkIdle(page, 10000)
		}

		h.forceLazyRender(page)

		html, err := page.Content()
		if err != nil {
			logger.Log.Warn().Err(err).Int("page", pageNum).Msg("could not read page HTML")
			continue
		}

		// a page can come back blocked mid-run and recover after the gate
		if challenge.LooksChallenged(html) {
			logger.Log.Warn().Int("page", pageNum).Msg("challenge content on listing page, waiting it out")
			time.Sleep(5 * time.Second)
			h.gate.Wait(page)
			if rehtml, err := page.Content(); err == nil {
				html = rehtml
			}
		}

		before := h.links.Cardinality()
		found, err := ExtractLinksFromHTML(h.baseURL, html)
		if err != nil {
			logger.Log.Warn().Err(err).Int("page", pageNum).Msg("link extraction failed")
			continue
		}
		for _, link := range found {
			h.links.Add(link)
		}

		// growth is diagnostic only: stagnant pages can be temporarily
		// blocked and recover, so the loop always runs to the page count
		logger.Log.Info().
			Int("page", pageNum).
			Int("pages", pages).
			Int("new", h.links.Cardinality()-before).
			Int("total", h.links.Cardinality()).
			Msg("harvested listing page")
	}

	return h.Links(), nil
}

// totalResults reads the "N Available Jobs" counter from the live page.
func (h *Harvester) totalResults(page playwright.Page) int {
	text, err := challenge.VisibleText(page)
	if err != nil {
		return 0
	}
	n, ok := ParseCount(text)
	if !ok {
		return 0
	}
	return n
}

// pagerMax scans pager controls for the largest plausible page number.
func (h *Harvester) pagerMax(page playwright.Page) int {
	res, err := page.Evaluate(`
		() => {
			let maxPage = 1;
			const spans = document.querySelectorAll('main span, nav span');
			for (const s of spans) {
				const num = parseInt(s.textContent.trim());
				if (!isNaN(num) && num > 0 && num < 200) {
					const r = s.getBoundingClientRect();
					if (r.width > 10 && r.width < 80 && r.height > 10 && r.height < 80) {
						if (num > maxPage) maxPage = num;
					}
				}
			}
			return maxPage;
		}
	`)
	if err != nil {
		return 1
	}
	switch n := res.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 1
}

// forceLazyRender scrolls to the bottom and back so lazy-loaded cards
// render before the HTML snapshot. The wheel scroll first keeps the
// movement human-shaped before the direct jumps.
func (h *Harvester) forceLazyRender(page playwright.Page) {
	utils.SmoothScroll(page)
	for i := 0; i < 5; i++ {
		_, _ = page.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`)
		time.Sleep(400 * time.Millisecond)
	}
	_, _ = page.Evaluate(`window.scrollTo(0, 0)`)
	time.Sleep(300 * time.Millisecond)
}
