package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu       sync.Mutex
	failures int
	sent     []tgbotapi.MessageConfig
	attempts int
}

func (f *fakeClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failures {
		return tgbotapi.Message{}, errors.New("telegram unavailable")
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func newManager(client Client) *Manager {
	logger, _ := test.NewNullLogger()
	return NewManager(client, Options{InitialInterval: 5 * time.Millisecond, MaxElapsed: time.Second}, logger)
}

func TestSendDelivers(t *testing.T) {
	client := &fakeClient{}
	m := newManager(client)

	require.NoError(t, m.Send(context.Background(), 99, "Next race", "Bahrain"))

	require.Len(t, client.sent, 1)
	assert.Equal(t, int64(99), client.sent[0].ChatID)
	assert.Equal(t, "Next race\nBahrain", client.sent[0].Text)
	assert.Equal(t, tgbotapi.ModeMarkdown, client.sent[0].ParseMode)
}

func TestSendRetriesThenSucceeds(t *testing.T) {
	client := &fakeClient{failures: 2}
	m := newManager(client)

	require.NoError(t, m.Send(context.Background(), 1, "", "body"))

	assert.Equal(t, 3, client.attempts)
	assert.Len(t, client.sent, 1)
}

func TestSendGivesUpAfterThreeAttempts(t *testing.T) {
	client := &fakeClient{failures: 10}
	m := newManager(client)

	err := m.Send(context.Background(), 1, "", "body")

	assert.Error(t, err)
	assert.Equal(t, 3, client.attempts)
}

func TestSendStopsAtContextDeadline(t *testing.T) {
	client := &fakeClient{failures: 10}
	logger, _ := test.NewNullLogger()
	m := NewManager(client, Options{MaxAttempts: 3, InitialInterval: time.Second, MaxElapsed: time.Minute}, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := m.Send(ctx, 1, "", "body")

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
	assert.Equal(t, 1, client.attempts)
}

func TestDefaults(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := NewManager(&fakeClient{}, Options{}, logger)

	assert.Equal(t, uint(DefaultMaxAttempts), m.opts.MaxAttempts)
	assert.Equal(t, DefaultInitialInterval, m.opts.InitialInterval)
}

func TestDeliverRetriesPreparedMessage(t *testing.T) {
	client := &fakeClient{failures: 1}
	m := newManager(client)
	msg := tgbotapi.NewMessage(5, "pick a round")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("R1", "race:2023:1")),
	)

	require.NoError(t, m.Deliver(context.Background(), 5, msg))

	assert.Equal(t, 2, client.attempts)
	require.Len(t, client.sent, 1)
	assert.NotNil(t, client.sent[0].ReplyMarkup)
}
