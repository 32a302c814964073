package season

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"f1seasonbot/pkg/apps"
	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/render"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	ButtonNextRace = "⏭ Next race"
	ButtonCalendar = "🗓 Calendar"
	ButtonLastRace = "🏁 Last race"

	commandNextRace = "/next_race"
	commandCalendar = "/calendar"
	commandRace     = "/race"
	commandSchedule = "/schedule"
	commandResults  = "/results"
	commandLastRace = "/last_race"

	subcommandRace = "race"
	roundsPerRow   = 6
	topResults     = 10
)

var aliases = map[string]string{
	"/next_race": commandNextRace,
	"/nextrace":  commandNextRace,
	"/calendar":  commandCalendar,
	"/race":      commandRace,
	"/race_info": commandRace,
	"/schedule":  commandSchedule,
	"/sessions":  commandSchedule,
	"/results":   commandResults,
	"/last_race": commandLastRace,
	"/lastrace":  commandLastRace,
}

// SeasonApp answers calendar, race and result commands.
type SeasonApp struct {
	engine apps.Engine
	modes  apps.ModeStore
	sender apps.Sender
	logger *logrus.Logger
}

func NewSeasonApp(engine apps.Engine, modes apps.ModeStore, sender apps.Sender, logger *logrus.Logger) *SeasonApp {
	return &SeasonApp{
		engine: engine,
		modes:  modes,
		sender: sender,
		logger: logger,
	}
}

func (sa *SeasonApp) AcceptCommand(command string, args []string) (bool, func(ctx context.Context, chatId int64) error) {
	switch aliases[command] {
	case commandNextRace:
		return true, sa.renderNextRace()
	case commandCalendar:
		return true, sa.renderCalendar(args)
	case commandRace:
		return true, sa.renderRace(args)
	case commandSchedule:
		return true, sa.renderSchedule(args)
	case commandResults:
		return true, sa.renderResults(args)
	case commandLastRace:
		return true, sa.renderLastRace()
	}
	return false, nil
}

func (sa *SeasonApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	switch button {
	case ButtonNextRace:
		return true, sa.renderNextRace()
	case ButtonCalendar:
		return true, sa.renderCalendar(nil)
	case ButtonLastRace:
		return true, sa.renderLastRace()
	}
	return false, nil
}

// AcceptCallback handles the round buttons under the calendar, whose data
// is "race:<year>:<round>".
func (sa *SeasonApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if len(data) != 3 || data[0] != subcommandRace {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		chatID := query.Message.Chat.ID
		year, errYear := strconv.Atoi(data[1])
		round, errRound := strconv.Atoi(data[2])
		if errYear != nil || errRound != nil {
			return sa.sender.Send(ctx, chatID, "", apps.MessageInvalidInput)
		}
		details, err := sa.engine.RaceDetails(ctx, &year, round)
		return apps.Reply(ctx, sa.sender, chatID, render.Code("", render.RaceDetails(details)), err)
	}
}

func (sa *SeasonApp) parse(ctx context.Context, args []string) (apps.SeasonArgs, bool) {
	return apps.ParseSeasonArgs(args, apps.UserMode(ctx, sa.modes), sa.engine.CurrentYear())
}

func (sa *SeasonApp) renderNextRace() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		race, err := sa.engine.NextRace(ctx, nil)
		return apps.Reply(ctx, sa.sender, chatId, render.Code("Next race", render.Race(race)), err)
	}
}

func (sa *SeasonApp) renderCalendar(args []string) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		parsed, ok := sa.parse(ctx, args)
		if !ok {
			return sa.sender.Send(ctx, chatId, "", apps.MessageInvalidInput)
		}
		year := sa.engine.CurrentYear()
		if parsed.Year != nil {
			year = *parsed.Year
		}

		races, err := sa.engine.ListRaces(ctx, &year)
		if err != nil {
			return apps.Reply(ctx, sa.sender, chatId, "", err)
		}
		if len(races) == 0 {
			return sa.sender.Send(ctx, chatId, "", apps.MessageNotFound)
		}

		title := fmt.Sprintf("F1 %d calendar", year)
		msg := tgbotapi.NewMessage(chatId, render.Code(title, render.Races(races, render.Options{Compact: true})))
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.ReplyMarkup = roundsKeyboard(year, races)
		return sa.sender.Deliver(ctx, chatId, msg)
	}
}

func roundsKeyboard(year int, races []model.Race) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for _, r := range races {
		data := fmt.Sprintf("%s:%d:%d", subcommandRace, year, r.RoundNumber)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("R%d", r.RoundNumber), data))
		if len(row) == roundsPerRow {
			rows = append(rows, row)
			row = []tgbotapi.InlineKeyboardButton{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func roundUsage(command string) string {
	return fmt.Sprintf("❌ Please provide a valid round number.\nExample: %s 5\nOr: %s 5 2023", command, command)
}

func (sa *SeasonApp) renderRace(args []string) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		parsed, ok := sa.parse(ctx, args)
		if !ok || parsed.Round == nil {
			return sa.sender.Send(ctx, chatId, "", roundUsage(commandRace))
		}
		details, err := sa.engine.RaceDetails(ctx, parsed.Year, *parsed.Round)
		return apps.Reply(ctx, sa.sender, chatId, render.Code("", render.RaceDetails(details)), err)
	}
}

func (sa *SeasonApp) renderSchedule(args []string) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		parsed, ok := sa.parse(ctx, args)
		if !ok || parsed.Round == nil {
			return sa.sender.Send(ctx, chatId, "", roundUsage(commandSchedule))
		}
		schedule, err := sa.engine.Schedule(ctx, parsed.Year, *parsed.Round)
		return apps.Reply(ctx, sa.sender, chatId, render.Code("", render.Schedule(schedule)), err)
	}
}

func (sa *SeasonApp) renderResults(args []string) func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		parsed, ok := sa.parse(ctx, args)
		if !ok {
			return sa.sender.Send(ctx, chatId, "", apps.MessageInvalidInput)
		}
		var (
			rows []model.RaceResult
			err  error
		)
		if parsed.Round != nil {
			rows, err = sa.engine.ResultsByRound(ctx, parsed.Year, *parsed.Round)
		} else {
			rows, err = sa.engine.LastResults(ctx, parsed.Year)
		}
		return sa.replyResults(ctx, chatId, rows, err)
	}
}

func (sa *SeasonApp) renderLastRace() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		year := apps.UserMode(ctx, sa.modes).YearOr(0)
		var sel *int
		if year != 0 {
			sel = &year
		}
		rows, err := sa.engine.LastResults(ctx, sel)
		return sa.replyResults(ctx, chatId, rows, err)
	}
}

func (sa *SeasonApp) replyResults(ctx context.Context, chatId int64, rows []model.RaceResult, err error) error {
	if err == nil && len(rows) == 0 {
		err = model.ErrNotFound
	}
	if err != nil {
		sa.logger.WithError(err).WithField("chat_id", chatId).Debug("no results to show")
		return apps.Reply(ctx, sa.sender, chatId, "", err)
	}
	if len(rows) > topResults {
		rows = rows[:topResults]
	}
	return apps.Reply(ctx, sa.sender, chatId, render.Code("Race results", render.Results(rows, render.Options{Compact: true})), nil)
}
