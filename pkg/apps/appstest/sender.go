package appstest

import (
	"context"
	"sync"

	"f1seasonbot/pkg/apps"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender records replies instead of delivering them.
type Sender struct {
	mu        sync.Mutex
	Texts     []string
	Delivered []tgbotapi.MessageConfig
	Err       error
}

func (s *Sender) Send(ctx context.Context, chatID int64, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if subject != "" {
		body = subject + "\n" + body
	}
	s.Texts = append(s.Texts, body)
	return nil
}

func (s *Sender) Deliver(ctx context.Context, chatID int64, c tgbotapi.Chattable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.Delivered = append(s.Delivered, msg)
	}
	return nil
}

// Last returns the most recent text reply.
func (s *Sender) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Texts) == 0 {
		return ""
	}
	return s.Texts[len(s.Texts)-1]
}

// LastDelivered returns the most recent prepared message.
func (s *Sender) LastDelivered() (tgbotapi.MessageConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Delivered) == 0 {
		return tgbotapi.MessageConfig{}, false
	}
	return s.Delivered[len(s.Delivered)-1], true
}

func (s *Sender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Texts) + len(s.Delivered)
}

// WithUser puts a Telegram user and chat in ctx the way the update loop does.
func WithUser(ctx context.Context, userID, chatID int64) context.Context {
	ctx = context.WithValue(ctx, apps.UserContextKey, &tgbotapi.User{ID: userID})
	return context.WithValue(ctx, apps.ChatContextKey, &tgbotapi.Chat{ID: chatID})
}
