package challenge

import (
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/logger"
)

// phrases are the interstitial texts the challenge wall shows. The check is
// a plain substring scan over the page's visible text.
var phrases = []string{
	"Verifying you are human",
	"Checking your browser",
	"security of your connection",
	"Just a moment",
}

const (
	pollInterval  = 3 * time.Second
	errorInterval = 1 * time.Second
	settleDelay   = 2 * time.Second
	quiesceWaitMs = 10000
)

// LooksChallenged reports whether visible page text still contains a
// challenge-indicator phrase.
func LooksChallenged(text string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Gate blocks page loads until the challenge wall has cleared.
type Gate struct {
	Budget time.Duration
}

func NewGate(budgetMs float64) *Gate {
	return &Gate{Budget: time.Duration(budgetMs) * time.Millisecond}
}

// Wait polls the page's visible text until no challenge phrase remains or
// the budget elapses, then applies a settle delay and a best-effort wait for
// network quiescence. It never fails: an expired budget is treated as
// cleared, and evaluation errors count as "still challenged".
func (g *Gate) Wait(page playwright.Page) {
	deadline := time.Now().Add(g.Budget)

	for time.Now().Before(deadline) {
		text, err := VisibleText(page)
		if err != nil {
			time.Sleep(errorInterval)
			continue
		}
		if !LooksChallenged(text) {
			break
		}
		logger.Log.Debug().Msg("challenge wall still up, waiting")
		time.Sleep(pollInterval)
	}

	time.Sleep(settleDelay)
	WaitNetworkIdle(page, quiesceWaitMs)
}

// VisibleText returns the page body's innerText.
func VisibleText(page playwright.Page) (string, error) {
	res, err := page.Evaluate(`() => document.body?.innerText || ''`)
	if err != nil {
		return "", err
	}
	text, _ := res.(string)
	return text, nil
}

// WaitNetworkIdle is a best-effort wait for network quiescence. Expiry is
// reported, never propagated.
func WaitNetworkIdle(page playwright.Page, timeoutMs float64) bool {
	err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(timeoutMs),
	})
	return err == nil
}
