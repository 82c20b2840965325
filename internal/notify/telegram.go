package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Announcer publishes short operational messages to a side channel.
type Announcer interface {
	Announce(text string) error
}

// TelegramAnnouncer sends announcements to a single Telegram chat, typically
// the staff group where tomorrow's reservation links are shared.
type TelegramAnnouncer struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *logrus.Logger
}

// NewTelegramAnnouncer authorizes the bot and returns the announcer.
func NewTelegramAnnouncer(token string, chatID int64, logger *logrus.Logger) (*TelegramAnnouncer, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Infof("Telegram announcer authorized as @%s", bot.Self.UserName)

	return &TelegramAnnouncer{bot: bot, chatID: chatID, logger: logger}, nil
}

// Announce sends the text to the configured chat.
func (t *TelegramAnnouncer) Announce(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
