package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"f1seasonbot/pkg/apps"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCommandTimeout = 30 * time.Second
	timeoutNoticeBudget   = 5 * time.Second
)

// Bot dispatches Telegram updates to the application tree. Every update runs
// in its own goroutine under the command timeout.
type Bot struct {
	app     apps.Accepter
	sender  apps.Sender
	timeout time.Duration
	logger  *logrus.Logger
	wg      sync.WaitGroup
}

func New(app apps.Accepter, sender apps.Sender, commandTimeout time.Duration, logger *logrus.Logger) *Bot {
	if commandTimeout <= 0 {
		commandTimeout = DefaultCommandTimeout
	}
	return &Bot{
		app:     app,
		sender:  sender,
		timeout: commandTimeout,
		logger:  logger,
	}
}

// Run consumes updates until ctx is done or the channel is closed, then
// waits for the handlers still running.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate runs the handler accepting update, if any.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	chatID := message.Chat.ID

	var (
		accept  bool
		handler func(ctx context.Context, chatId int64) error
		name    string
	)
	if message.IsCommand() {
		name = "/" + strings.ToLower(message.Command())
		accept, handler = b.app.AcceptCommand(name, strings.Fields(message.CommandArguments()))
	} else {
		name = message.Text
		accept, handler = b.app.AcceptButton(message.Text)
	}

	entry := b.entry(message.From, chatID, name)
	if !accept {
		entry.Debug("message not handled")
		return
	}

	ctx, cancel := b.commandContext(ctx, message.From, message.Chat)
	defer cancel()
	b.finish(ctx, entry, chatID, handler(ctx, chatID))
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil || query.Message.Chat == nil {
		return
	}
	chatID := query.Message.Chat.ID

	entry := b.entry(query.From, chatID, query.Data)
	accept, handler := b.app.AcceptCallback(query)
	if !accept {
		entry.Debug("callback not handled")
		return
	}

	ctx, cancel := b.commandContext(ctx, query.From, query.Message.Chat)
	defer cancel()
	b.finish(ctx, entry, chatID, handler(ctx, query))
}

func (b *Bot) commandContext(ctx context.Context, user *tgbotapi.User, chat *tgbotapi.Chat) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	ctx = context.WithValue(ctx, apps.UserContextKey, user)
	ctx = context.WithValue(ctx, apps.ChatContextKey, chat)
	return ctx, cancel
}

func (b *Bot) entry(user *tgbotapi.User, chatID int64, name string) *logrus.Entry {
	fields := logrus.Fields{
		"request_id": uuid.NewString(),
		"chat_id":    chatID,
		"command":    name,
	}
	if user != nil {
		fields["user_id"] = user.ID
	}
	return b.logger.WithFields(fields)
}

// finish logs the outcome. A handler cut short by the command timeout could
// not reply, so the user is told with a short budget of its own.
func (b *Bot) finish(ctx context.Context, entry *logrus.Entry, chatID int64, err error) {
	if err == nil {
		entry.Info("command handled")
		return
	}
	entry.WithError(err).Error("command failed")

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		noticeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeoutNoticeBudget)
		defer cancel()
		if err := b.sender.Send(noticeCtx, chatID, "", apps.MessageTimeout); err != nil {
			entry.WithError(err).Warn("error sending timeout notice")
		}
	}
}
