package notification

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikoksr/notify"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxAttempts     = 3
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxElapsed      = 20 * time.Second
)

type Options struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxElapsed      time.Duration
}

// Manager delivers replies with bounded exponential retry. The retry budget
// never outlives the caller's context.
type Manager struct {
	client Client
	opts   Options
	logger *logrus.Logger
}

func NewManager(client Client, opts Options, logger *logrus.Logger) *Manager {
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = DefaultInitialInterval
	}
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = DefaultMaxElapsed
	}
	return &Manager{
		client: client,
		opts:   opts,
		logger: logger,
	}
}

// Send delivers subject and body to chatID through notify, returning the
// last error once the attempts or the time budget run out.
func (m *Manager) Send(ctx context.Context, chatID int64, subject, body string) error {
	tg := &Telegram{}
	tg.SetClient(m.client)
	tg.AddReceivers(chatID)
	n := notify.NewWithServices(tg)

	return m.retry(ctx, chatID, func() error {
		return n.Send(ctx, subject, body)
	})
}

// Deliver sends a prepared message, such as one carrying a keyboard, with
// the same retry policy as Send.
func (m *Manager) Deliver(ctx context.Context, chatID int64, c tgbotapi.Chattable) error {
	return m.retry(ctx, chatID, func() error {
		_, err := m.client.Send(c)
		return err
	})
}

func (m *Manager) retry(ctx context.Context, chatID int64, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.opts.InitialInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		return struct{}{}, op()
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(m.opts.MaxAttempts),
		backoff.WithMaxElapsedTime(m.opts.MaxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			m.logger.WithError(err).WithField("chat_id", chatID).WithField("attempt", attempt).WithField("retry_in", next).Warn("delivery failed, retrying")
		}),
	)
	if err != nil {
		m.logger.WithError(err).WithField("chat_id", chatID).WithField("attempts", attempt).Error("delivery failed")
		return err
	}
	return nil
}
