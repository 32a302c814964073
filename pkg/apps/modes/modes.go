package modes

import (
	"context"
	"fmt"
	"strconv"

	"f1seasonbot/pkg/apps"
	"f1seasonbot/pkg/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	ButtonMode = "⚙️ Mode"

	commandHistory = "/history"
	commandCurrent = "/current"
	commandMode    = "/mode"

	callbackCurrent = "mode:current"
)

var aliases = map[string]string{
	"/history":      commandHistory,
	"/history_mode": commandHistory,
	"/current":      commandCurrent,
	"/current_mode": commandCurrent,
	"/mode":         commandMode,
	"/status":       commandMode,
}

// ModesApp switches a user between the current season and a pinned
// historical one.
type ModesApp struct {
	modes       apps.ModeStore
	sender      apps.Sender
	currentYear func() int
	logger      *logrus.Logger
}

func NewModesApp(modes apps.ModeStore, sender apps.Sender, currentYear func() int, logger *logrus.Logger) *ModesApp {
	return &ModesApp{
		modes:       modes,
		sender:      sender,
		currentYear: currentYear,
		logger:      logger,
	}
}

func (ma *ModesApp) AcceptCommand(command string, args []string) (bool, func(ctx context.Context, chatId int64) error) {
	switch aliases[command] {
	case commandHistory:
		return true, ma.renderHistory(args)
	case commandCurrent:
		return true, ma.renderCurrent()
	case commandMode:
		return true, ma.renderMode()
	}
	return false, nil
}

func (ma *ModesApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	if button == ButtonMode {
		return true, ma.renderMode()
	}
	return false, nil
}

func (ma *ModesApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	if query.Data != callbackCurrent {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		return ma.renderCurrent()(ctx, query.Message.Chat.ID)
	}
}

func (ma *ModesApp) renderHistory(args []string) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		if len(args) == 0 {
			return ma.sender.Send(ctx, chatId, "", "❌ Please provide a year.\nExample: /history 2021")
		}
		year, err := strconv.Atoi(args[0])
		now := ma.currentYear()
		if err != nil || !model.ValidYear(year, now) {
			return ma.sender.Send(ctx, chatId, "", fmt.Sprintf("❌ Invalid year %s. Valid range: %d-%d", args[0], model.MinYear, now+1))
		}

		if err := ma.modes.SetHistoryMode(apps.UserID(ctx), year); err != nil {
			ma.logger.WithError(err).WithField("year", year).Error("error switching to history mode")
			return ma.sender.Send(ctx, chatId, "", apps.ErrorMessage(err))
		}
		return ma.sender.Send(ctx, chatId, "", fmt.Sprintf("✅ Switched to History Mode | Year: %d", year))
	}
}

func (ma *ModesApp) renderCurrent() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		if err := ma.modes.SetCurrentMode(apps.UserID(ctx)); err != nil {
			ma.logger.WithError(err).Error("error switching to current mode")
			return ma.sender.Send(ctx, chatId, "", apps.ErrorMessage(err))
		}
		return ma.sender.Send(ctx, chatId, "", fmt.Sprintf("✅ Switched to Current Mode | Year: %d", ma.currentYear()))
	}
}

func (ma *ModesApp) renderMode() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		mode := apps.UserMode(ctx, ma.modes)
		if !mode.Historical {
			return ma.sender.Send(ctx, chatId, "", fmt.Sprintf("📊 Current Mode | Year: %d", ma.currentYear()))
		}
		msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("📊 History Mode | Year: %d", mode.Year))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Back to current season", callbackCurrent),
			),
		)
		return ma.sender.Deliver(ctx, chatId, msg)
	}
}
