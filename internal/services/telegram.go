package services

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"insaka-backend-go/internal/models"
)

// TelegramAnnouncer mirrors announcements to a Telegram channel so
// delegates who follow it get pushes without opening the portal.
type TelegramAnnouncer struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramAnnouncer connects the bot, or returns nil when the token
// is unset. A nil announcer is safe to call.
func NewTelegramAnnouncer(token string, chatID int64) *TelegramAnnouncer {
	if token == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("telegram: connect failed: %v", err)
		return nil
	}
	return &TelegramAnnouncer{bot: bot, chatID: chatID}
}

// Announce posts the announcement to the channel. Failures are logged,
// never surfaced; the portal copy is the source of truth.
func (t *TelegramAnnouncer) Announce(announcement models.Announcement) {
	if t == nil {
		return
	}
	prefix := ""
	switch announcement.Priority {
	case PriorityUrgent:
		prefix = "🚨 "
	case PriorityHigh:
		prefix = "❗ "
	}
	text := prefix + "*" + escapeMarkdown(announcement.Title) + "*\n\n" + escapeMarkdown(announcement.Content)
	message := tgbotapi.NewMessage(t.chatID, text)
	message.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(message); err != nil {
		log.Printf("telegram: send failed: %v", err)
	}
}

func escapeMarkdown(value string) string {
	replacer := strings.NewReplacer("*", "\\*", "_", "\\_", "`", "\\`", "[", "\\[")
	return replacer.Replace(value)
}
