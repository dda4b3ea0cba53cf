package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// stealthScript hides the most common automation fingerprints before any
// page script runs. The challenge wall keys on navigator.webdriver.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
window.chrome = window.chrome || { runtime: {} };
`

// ApplyStealth registers the stealth init script on a browser context so it
// applies to every page the context opens.
func ApplyStealth(ctx playwright.BrowserContext) error {
	if err := ctx.AddInitScript(playwright.Script{
		Content: playwright.String(stealthScript),
	}); err != nil {
		return fmt.Errorf("failed to add stealth init script: %w", err)
	}
	return nil
}
