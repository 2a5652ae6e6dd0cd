// Package notify delivers digest messages to an external channel. Only
// Telegram is implemented; when it is not configured the caller logs the
// digest instead.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier pushes messages to a single configured chat. Unlike a
// full bot there is no update loop; delivery is one-way.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram authenticates against the Bot API.
func NewTelegram(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// Send delivers one HTML-formatted message.
func (n *TelegramNotifier) Send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
