package navigate

import (
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/challenge"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/logger"
)

const (
	challengedBackoff = 5 * time.Second
	navErrorBackoff   = 3 * time.Second
)

// Navigator wraps page loads with the challenge gate and bounded retries.
// Navigation, challenge-clearing and challenge-persistence are coupled: a
// retry redoes all three because a fresh load can re-trigger the wall.
type Navigator struct {
	gate      *challenge.Gate
	timeoutMs float64
	retries   int
}

func New(gate *challenge.Gate, timeoutMs float64, retries int) *Navigator {
	if retries < 1 {
		retries = 1
	}
	return &Navigator{gate: gate, timeoutMs: timeoutMs, retries: retries}
}

// Goto navigates to url and returns true once the loaded page shows no
// challenge phrase. Exhausted retries re-raise the last navigation error if
// one occurred, otherwise (false, nil) means the wall never cleared.
func (n *Navigator) Goto(page playwright.Page, url string) (bool, error) {
	var lastErr error

	for attempt := 1; attempt <= n.retries; attempt++ {
		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(n.timeoutMs),
		})
		if err != nil {
			lastErr = err
			logger.Log.Warn().Err(err).Int("attempt", attempt).Str("url", url).Msg("navigation failed")
			if attempt < n.retries {
				time.Sleep(navErrorBackoff)
			}
			continue
		}

		n.gate.Wait(page)

		text, err := challenge.VisibleText(page)
		if err == nil && !challenge.LooksChallenged(text) {
			return true, nil
		}

		logger.Log.Warn().Int("attempt", attempt).Str("url", url).Msg("challenge persists after gate")
		if attempt < n.retries {
			time.Sleep(challengedBackoff)
		}
	}

	if lastErr != nil {
		return false, lastErr
	}
	return false, nil
}
