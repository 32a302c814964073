package notification

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// Client is the part of the bot API used to deliver messages.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram is a notify.Notifier delivering Markdown messages to chats.
type Telegram struct {
	client  Client
	chatIDs []int64
}

func (t *Telegram) SetClient(client Client) {
	t.client = client
}

func (t *Telegram) AddReceivers(chatIDs ...int64) {
	t.chatIDs = append(t.chatIDs, chatIDs...)
}

func (t Telegram) Send(ctx context.Context, subject, message string) error {
	text := message
	if subject != "" {
		text = subject + "\n" + message
	}

	for _, chatID := range t.chatIDs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := t.client.Send(msg); err != nil {
			return errors.Wrapf(err, "send message to chat %d", chatID)
		}
	}
	return nil
}
