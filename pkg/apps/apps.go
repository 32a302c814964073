package apps

import (
	"context"
	"errors"

	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/settings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ContextUser string
type ContextChatID string

const (
	UserContextKey ContextUser   = "user"
	ChatContextKey ContextChatID = "chat"
)

type Accepter interface {
	AcceptCommand(command string, args []string) (bool, func(ctx context.Context, chatId int64) error)
	AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error)
	AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error)
}

// Engine is the season query surface the apps render.
type Engine interface {
	CurrentYear() int
	ListRaces(ctx context.Context, year *int) ([]model.Race, error)
	NextRace(ctx context.Context, year *int) (model.Race, error)
	RaceDetails(ctx context.Context, year *int, round int) (model.RaceDetails, error)
	Schedule(ctx context.Context, year *int, round int) (model.RaceSchedule, error)
	DriverStandings(ctx context.Context, year, round *int) ([]model.DriverStanding, error)
	TeamStandings(ctx context.Context, year, round *int) ([]model.TeamStanding, error)
	ResultsByRound(ctx context.Context, year *int, round int) ([]model.RaceResult, error)
	LastResults(ctx context.Context, year *int) ([]model.RaceResult, error)
}

type ModeStore interface {
	SetHistoryMode(userID int64, year int) error
	SetCurrentMode(userID int64) error
	Mode(userID int64) (settings.Mode, error)
}

// Sender delivers replies. Send takes Markdown text, Deliver a prepared
// message such as one carrying a keyboard.
type Sender interface {
	Send(ctx context.Context, chatID int64, subject, body string) error
	Deliver(ctx context.Context, chatID int64, c tgbotapi.Chattable) error
}

// UserID reads the Telegram user stored in ctx by the update loop. It
// returns 0 when there is none.
func UserID(ctx context.Context) int64 {
	user, ok := ctx.Value(UserContextKey).(*tgbotapi.User)
	if !ok || user == nil {
		return 0
	}
	return user.ID
}

// UserMode returns the caller's mode, falling back to current mode when the
// store cannot answer.
func UserMode(ctx context.Context, ms ModeStore) settings.Mode {
	mode, err := ms.Mode(UserID(ctx))
	if err != nil {
		return settings.Mode{}
	}
	return mode
}

const (
	MessageInvalidInput = "❌ Invalid year or round. Use /help to see what each command expects."
	MessageNotFound     = "📭 No data available for that selection yet."
	MessageTimeout      = "⏱️ That took too long. Please try again in a moment."
	MessageFailure      = "⚠️ Something went wrong. Please try again later."
	MessageUnknown      = "❓ Unknown command. Use /help to see available commands."
)

// ErrorMessage maps an engine error to the text shown to the user.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return MessageInvalidInput
	case errors.Is(err, model.ErrNotFound):
		return MessageNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return MessageTimeout
	default:
		return MessageFailure
	}
}

// Reply sends body as a Markdown message, or the user facing text for err.
func Reply(ctx context.Context, s Sender, chatID int64, body string, err error) error {
	if err != nil {
		return s.Send(ctx, chatID, "", ErrorMessage(err))
	}
	return s.Send(ctx, chatID, "", body)
}
