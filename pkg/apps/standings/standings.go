package standings

import (
	"context"
	"fmt"

	"f1seasonbot/pkg/apps"
	"f1seasonbot/pkg/menus"
	"f1seasonbot/pkg/render"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	buttonDrivers = "🏎 Drivers"
	buttonTeams   = "🔧 Teams"

	commandDrivers = "/driver_standings"
	commandTeams   = "/team_standings"

	topStandings = 10
)

var aliases = map[string]string{
	"/driver_standings": commandDrivers,
	"/driverstandings":  commandDrivers,
	"/standings":        commandDrivers,
	"/team_standings":   commandTeams,
	"/teamstandings":    commandTeams,
}

type StandingsApp struct {
	engine       apps.Engine
	modes        apps.ModeStore
	sender       apps.Sender
	appMenu      menus.ApplicationMenu
	menuKeyboard tgbotapi.ReplyKeyboardMarkup
	logger       *logrus.Logger
}

func NewStandingsApp(engine apps.Engine, modes apps.ModeStore, sender apps.Sender, appMenu menus.ApplicationMenu, logger *logrus.Logger) *StandingsApp {
	menuKeyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonDrivers),
			tgbotapi.NewKeyboardButton(buttonTeams),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(appMenu.ButtonBackTo()),
		),
	)

	return &StandingsApp{
		engine:       engine,
		modes:        modes,
		sender:       sender,
		appMenu:      appMenu,
		menuKeyboard: menuKeyboard,
		logger:       logger,
	}
}

func (sa *StandingsApp) Menu() tgbotapi.ReplyKeyboardMarkup {
	return sa.menuKeyboard
}

func (sa *StandingsApp) AcceptCommand(command string, args []string) (bool, func(ctx context.Context, chatId int64) error) {
	switch aliases[command] {
	case commandDrivers:
		return true, sa.renderDrivers(args)
	case commandTeams:
		return true, sa.renderTeams(args)
	}
	return false, nil
}

func (sa *StandingsApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	return false, nil
}

func (sa *StandingsApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	switch button {
	case sa.appMenu.Name:
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, fmt.Sprintf("%s\n\nPick a championship.", sa.appMenu.Name))
			msg.ReplyMarkup = sa.menuKeyboard
			return sa.sender.Deliver(ctx, chatId, msg)
		}
	case sa.appMenu.ButtonBackTo():
		return true, func(ctx context.Context, chatId int64) error {
			msg := tgbotapi.NewMessage(chatId, "OK")
			msg.ReplyMarkup = sa.appMenu.PrevMenu()
			return sa.sender.Deliver(ctx, chatId, msg)
		}
	case buttonDrivers:
		return true, sa.renderDrivers(nil)
	case buttonTeams:
		return true, sa.renderTeams(nil)
	}
	return false, nil
}

func (sa *StandingsApp) parse(ctx context.Context, args []string) (apps.SeasonArgs, bool) {
	return apps.ParseSeasonArgs(args, apps.UserMode(ctx, sa.modes), sa.engine.CurrentYear())
}

func (sa *StandingsApp) title(kind string, a apps.SeasonArgs) string {
	year := sa.engine.CurrentYear()
	if a.Year != nil {
		year = *a.Year
	}
	if a.Round != nil {
		return fmt.Sprintf("%s %d after round %d", kind, year, *a.Round)
	}
	return fmt.Sprintf("%s %d", kind, year)
}

func (sa *StandingsApp) renderDrivers(args []string) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		parsed, ok := sa.parse(ctx, args)
		if !ok {
			return sa.sender.Send(ctx, chatId, "", apps.MessageInvalidInput)
		}
		rows, err := sa.engine.DriverStandings(ctx, parsed.Year, parsed.Round)
		if err != nil {
			sa.logger.WithError(err).WithField("chat_id", chatId).Warn("driver standings unavailable")
		}
		if err == nil && len(rows) == 0 {
			return sa.sender.Send(ctx, chatId, "", apps.MessageNotFound)
		}
		if len(rows) > topStandings {
			rows = rows[:topStandings]
		}
		body := render.Code(sa.title("Drivers", parsed), render.DriverStandings(rows, render.Options{Compact: true}))
		return apps.Reply(ctx, sa.sender, chatId, body, err)
	}
}

func (sa *StandingsApp) renderTeams(args []string) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		parsed, ok := sa.parse(ctx, args)
		if !ok {
			return sa.sender.Send(ctx, chatId, "", apps.MessageInvalidInput)
		}
		rows, err := sa.engine.TeamStandings(ctx, parsed.Year, parsed.Round)
		if err != nil {
			sa.logger.WithError(err).WithField("chat_id", chatId).Warn("team standings unavailable")
		}
		if err == nil && len(rows) == 0 {
			return sa.sender.Send(ctx, chatId, "", apps.MessageNotFound)
		}
		if len(rows) > topStandings {
			rows = rows[:topStandings]
		}
		body := render.Code(sa.title("Teams", parsed), render.TeamStandings(rows, render.Options{Compact: true}))
		return apps.Reply(ctx, sa.sender, chatId, body, err)
	}
}
