// Package notify renders the run summary into a Telegram message. The
// notifier is optional: a nil *Bot is a no-op sender.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/postprocess"
)

// listCap bounds how many URLs a summary message enumerates per cohort.
const listCap = 15

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewBot returns nil (disabled) when the token is empty.
func NewBot(token string, chatID int64) (*Bot, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, chatID: chatID}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// SendSummary posts the run digest: counts plus the new, expiring-today and
// expiring-soon cohorts.
func (b *Bot) SendSummary(s postprocess.Summary) error {
	if b == nil {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("📊 *Job scrape summary*\n")
	sb.WriteString(escapeMarkdown(fmt.Sprintf("Scraped: %d | Open: %d | Expired: %d\n", s.TotalScraped, s.TotalOpen, s.TotalExpired)))

	writeCohort(&sb, "🆕 New postings", s.NewURLs)
	writeCohort(&sb, "🔔 Expiring today", s.ExpiringToday)
	writeCohort(&sb, "⏳ Expiring soon", s.ExpiringSoon)

	msg := tgbotapi.NewMessage(b.chatID, sb.String())
	msg.ParseMode = "MarkdownV2"
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendStatus(message string) error {
	if b == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(runErr error) error {
	if b == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", runErr))
	_, err := b.api.Send(msg)
	return err
}

func writeCohort(sb *strings.Builder, header string, urls []string) {
	sb.WriteString(fmt.Sprintf("\n%s: %d\n", escapeMarkdown(header), len(urls)))
	for i, u := range urls {
		if i == listCap {
			sb.WriteString(escapeMarkdown(fmt.Sprintf("... and %d more\n", len(urls)-listCap)))
			break
		}
		sb.WriteString(escapeMarkdown(u) + "\n")
	}
}
