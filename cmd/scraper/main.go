package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/browser"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/challenge"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/config"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/extract"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/filterui"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/harvest"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/logger"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/navigate"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/notify"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/postprocess"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/record"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/seen"
	"github.com/nasirkhansayyad132/jobsaf-tracker/utils"
)

// detailVisitDelay keeps detail-page visits slow enough to stay under the
// anti-bot rate heuristics.
const detailVisitDelay = 500 * time.Millisecond

func main() {
	cfg := config.Load()
	logger.Log.Info().Int("categories", len(cfg.Categories)).Str("base_url", cfg.BaseURL).Msg("config loaded")

	bot, err := notify.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to init Telegram bot")
	}
	if bot == nil {
		logger.Log.Info().Msg("notifier disabled (no Telegram credentials)")
	}

	store := seen.NewStore(cfg.SeenPath)

	if err := run(cfg, bot, store); err != nil {
		_ = bot.SendError(err)
		logger.Log.Fatal().Err(err).Msg("run failed")
	}
}

func run(cfg *config.Config, bot *notify.Bot, store *seen.Store) error {
	mgr, err := browser.NewManager(cfg)
	if err != nil {
		return err
	}
	defer mgr.Close()

	cookies, err := browser.LoadCookies(cfg.CookiesPath)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("could not load cookies, continuing without")
	} else {
		logger.Log.Info().Int("count", len(cookies)).Msg("loaded cookies")
	}

	browserCtx, err := mgr.NewContext(cookies)
	if err != nil {
		return err
	}

	// one page drives the listing, a second is reused for every detail
	// visit so context creation never happens in the hot loop
	listingPage, err := browserCtx.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create listing page: %w", err)
	}
	detailPage, err := browserCtx.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create detail page: %w", err)
	}

	gate := challenge.NewGate(cfg.ChallengeTimeoutMs)
	nav := navigate.New(gate, cfg.NavTimeoutMs, cfg.NavRetries)
	shots := utils.NewScreenShotDebugger(cfg.DebugDir)

	harvester := harvest.NewHarvester(cfg.BaseURL, cfg.Categories, cfg.PageSize, nav, gate)
	harvester.AttachResponseListener(listingPage)

	logger.Log.Info().Msg("loading first listing page")
	ok, err := nav.Goto(listingPage, harvester.ListingURL(1))
	if err != nil {
		return fmt.Errorf("first listing page load failed: %w", err)
	}
	if !ok {
		shots.Capture(listingPage, "error_challenge_wall")
		return errors.New("challenge wall never cleared on the first listing page")
	}
	time.Sleep(1500 * time.Millisecond)
	challenge.WaitNetworkIdle(listingPage, 10000)
	utils.MouseJiggle(listingPage)
	shots.Capture(listingPage, "01_first_page")

	if cfg.ApplyUIFilters {
		applyFilters(cfg, listingPage, harvester)
		shots.Capture(listingPage, "02_filters_applied")
	}

	links, err := harvester.Run(listingPage)
	if errors.Is(err, harvest.ErrNoResults) {
		logger.Log.Info().Msg("listing reported zero results, nothing to harvest")
		shots.Capture(listingPage, "error_no_results")
		_ = bot.SendStatus("Scrape finished: listing reported zero results.")
		return nil
	}
	if err != nil {
		return err
	}
	shots.Capture(listingPage, "99_last_page")

	logger.Log.Info().Int("links", len(links)).Msg("harvest complete")
	if len(links) == 0 {
		logger.Log.Warn().Msg("0 links collected, check debug screenshots")
		_ = bot.SendStatus("Scrape finished: 0 links collected.")
		return nil
	}

	records := visitDetails(cfg, nav, detailPage, links)
	logger.Log.Info().Int("records", len(records)).Msg("detail extraction complete")

	if err := record.SaveJSON(cfg.JSONPath, records); err != nil {
		return fmt.Errorf("failed to save JSON output: %w", err)
	}
	if err := record.SaveCSV(cfg.CSVPath, records); err != nil {
		return fmt.Errorf("failed to save CSV output: %w", err)
	}

	res := postprocess.Process(records, store.URLs(), time.Now())
	if err := res.Save(cfg.CleanJSONPath, cfg.SummaryPath); err != nil {
		return fmt.Errorf("failed to save post-processed output: %w", err)
	}

	urls := make([]string, 0, len(records))
	for _, r := range records {
		urls = append(urls, r.URL)
	}
	store.Add(urls)

	if err := browser.SaveCookies(cfg.CookiesPath, browserCtx); err != nil {
		logger.Log.Warn().Err(err).Msg("could not persist cookies")
	}

	if err := bot.SendSummary(res.Summary); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to send summary")
	}

	logger.Log.Info().
		Int("open", res.Summary.TotalOpen).
		Int("expired", res.Summary.TotalExpired).
		Int("new", len(res.Summary.NewURLs)).
		Msg("run finished")
	return nil
}

// applyFilters drives the category multi-select for every configured term.
// A term that finds no options is a no-op, never a failure.
func applyFilters(cfg *config.Config, page playwright.Page, harvester *harvest.Harvester) {
	driver := filterui.NewDriver(cfg.BaseURL)
	sel := filterui.NewSelection()

	for _, term := range cfg.Categories {
		if err := driver.SelectCategory(page, term, sel, harvester.ListingURL(1)); err != nil {
			logger.Log.Warn().Err(err).Str("term", term).Msg("category selection failed, continuing")
		}
	}
	logger.Log.Info().Int("selected", sel.Len()).Msg("category filter pass finished")
}

// visitDetails navigates every harvested URL sequentially and extracts a
// record per page. Challenge content and sentinel titles are discarded; any
// error skips that URL only.
func visitDetails(cfg *config.Config, nav *navigate.Navigator, page playwright.Page, links []string) []record.JobRecord {
	extractor := extract.NewExtractor(cfg.BaseURL)
	records := make([]record.JobRecord, 0, len(links))

	for i, u := range links {
		ok, err := nav.Goto(page, u)
		if err != nil || !ok {
			logger.Log.Warn().Err(err).Str("url", u).Msg("detail page load failed, skipping")
			continue
		}

		html, err := page.Content()
		if err != nil {
			logger.Log.Warn().Err(err).Str("url", u).Msg("could not read detail HTML, skipping")
			continue
		}
		if challenge.LooksChallenged(html) {
			logger.Log.Warn().Str("url", u).Msg("challenge content on detail page, skipping")
			continue
		}

		rec, err := extractor.Extract(html, u, time.Now())
		if err != nil {
			logger.Log.Warn().Err(err).Str("url", u).Msg("extraction failed, skipping")
			continue
		}
		if extract.IsSentinelTitle(rec.Title) {
			logger.Log.Warn().Str("url", u).Msg("sentinel title, discarding challenge page")
			continue
		}

		records = append(records, rec)
		logger.Log.Debug().
			Int("done", i+1).
			Int("total", len(links)).
			Str("title", rec.Title).
			Str("closing", firstNonEmpty(rec.ClosingDate, rec.ClosingDateRaw, "unknown")).
			Msg("scraped detail page")

		time.Sleep(detailVisitDelay)
	}
	return records
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
