package mainapp

import (
	"context"
	"strings"

	"f1seasonbot/pkg/apps"
	"f1seasonbot/pkg/apps/modes"
	"f1seasonbot/pkg/apps/season"
	"f1seasonbot/pkg/apps/standings"
	"f1seasonbot/pkg/menus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	menuStart       = "/start"
	menuMenu        = "/menu"
	menuHelp        = "/help"
	buttonStandings = "🏆 Standings"
	appName         = "menu"
)

var (
	menuKeyboard = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(season.ButtonNextRace),
			tgbotapi.NewKeyboardButton(season.ButtonCalendar),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonStandings),
			tgbotapi.NewKeyboardButton(season.ButtonLastRace),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(modes.ButtonMode),
		),
	)
)

const helpText = `🏎 F1 season bot

Season
/next_race - next race of the season
/calendar [year] - season calendar
/race <round> [year] - race details
/schedule <round> [year] - session times

Championship
/standings [year] [round] - driver standings
/team_standings [year] [round] - constructor standings

Results
/results [round] [year] - race results, last race by default
/last_race - last race results

Mode
/history <year> - pin a past season
/current - back to the current season
/mode - show the active mode

/menu - show the menu`

type menuer struct{}

func (m menuer) Menu() tgbotapi.ReplyKeyboardMarkup {
	return menuKeyboard
}

type MainApp struct {
	sender    apps.Sender
	accepters []apps.Accepter
	logger    *logrus.Logger
}

func NewMainApp(engine apps.Engine, ms apps.ModeStore, sender apps.Sender, logger *logrus.Logger) *MainApp {
	standingsAppMenu := menus.NewApplicationMenu(buttonStandings, appName, menuer{})
	standingsApp := standings.NewStandingsApp(engine, ms, sender, standingsAppMenu, logger)

	seasonApp := season.NewSeasonApp(engine, ms, sender, logger)
	modesApp := modes.NewModesApp(ms, sender, engine.CurrentYear, logger)

	accepters := []apps.Accepter{seasonApp, standingsApp, modesApp}

	return &MainApp{
		sender:    sender,
		accepters: accepters,
		logger:    logger,
	}
}

func (m *MainApp) AcceptCommand(command string, args []string) (bool, func(ctx context.Context, chatId int64) error) {
	switch command {
	case menuStart, menuHelp:
		return true, m.renderStart()
	case menuMenu:
		return true, m.renderMenu()
	}
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCommand(command, args)
		if accept {
			return true, handler
		}
	}

	if strings.HasPrefix(command, "/") {
		return true, m.renderUnknown()
	}
	return false, nil
}

func (m *MainApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCallback(query)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptButton(button)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

// plain text: command names carry underscores
func (m *MainApp) renderStart() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		msg := tgbotapi.NewMessage(chatId, helpText)
		msg.ReplyMarkup = menuKeyboard
		return m.sender.Deliver(ctx, chatId, msg)
	}
}

func (m *MainApp) renderMenu() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		msg := tgbotapi.NewMessage(chatId, "Menu\n\n")
		msg.ReplyMarkup = menuKeyboard
		return m.sender.Deliver(ctx, chatId, msg)
	}
}

func (m *MainApp) renderUnknown() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		m.logger.WithField("chat_id", chatId).Debug("unknown command")
		return m.sender.Send(ctx, chatId, "", apps.MessageUnknown)
	}
}
