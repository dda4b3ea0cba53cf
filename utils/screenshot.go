package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/logger"
)

// ScreenShotDebugger captures full-page images at named run checkpoints.
// Purely observational: captures are never consumed by logic and failures
// are only logged.
type ScreenShotDebugger struct {
	outputDir string
	enabled   bool
}

func NewScreenShotDebugger(outputDir string) *ScreenShotDebugger {
	if outputDir == "" {
		return &ScreenShotDebugger{}
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to create screenshot directory")
		return &ScreenShotDebugger{}
	}
	return &ScreenShotDebugger{outputDir: outputDir, enabled: true}
}

// Capture stores a full-page screenshot under the checkpoint name.
func (s *ScreenShotDebugger) Capture(page playwright.Page, name string) {
	if !s.enabled {
		return
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		logger.Log.Warn().Err(err).Str("checkpoint", name).Msg("failed to capture screenshot")
		return
	}
	logger.Log.Debug().Str("path", path).Msg("screenshot saved")
}
