package engine

import (
	"context"
	"time"

	"f1seasonbot/pkg/cache"
	"f1seasonbot/pkg/calendar"
	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/openf1"
	"f1seasonbot/pkg/results"
	"f1seasonbot/pkg/roster"
	"f1seasonbot/pkg/sessions"
	"f1seasonbot/pkg/standings"

	"github.com/sirupsen/logrus"
)

// Feed is everything the engine reads from OpenF1.
type Feed interface {
	Meetings(ctx context.Context, year int) []openf1.Meeting
	DriverChampionship(ctx context.Context, sessionKey string) []openf1.ChampionshipDriver
	TeamChampionship(ctx context.Context, sessionKey string) []openf1.ChampionshipTeam
	Drivers(ctx context.Context, sessionKey string) []openf1.Driver
	Sessions(ctx context.Context, sessionType, meetingKey string) []openf1.Session
	SessionResults(ctx context.Context, sessionKey string) []openf1.SessionResult
}

// Engine is the query surface used by the bot, the API and the CLI. A nil
// year means the current season.
type Engine struct {
	calendar  *calendar.Calendar
	standings *standings.Service
	results   *results.Service
	store     *cache.Store
	logger    *logrus.Logger
	now       func() time.Time
}

func New(feed Feed, store *cache.Store, logger *logrus.Logger, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	composer := sessions.NewComposer(feed, store, logger, now)
	cal := calendar.NewCalendar(feed, composer, store, logger, now)
	resolver := calendar.NewResolver(cal, composer, logger, now)
	rp := roster.NewProvider(feed, logger)

	return &Engine{
		calendar:  cal,
		standings: standings.NewService(feed, resolver, rp, store, logger, now),
		results:   results.NewService(feed, cal, resolver, composer, rp, store, logger, now),
		store:     store,
		logger:    logger,
		now:       now,
	}
}

func (e *Engine) CurrentYear() int {
	return e.now().Year()
}

func (e *Engine) year(year *int) int {
	if year == nil {
		return e.CurrentYear()
	}
	return *year
}

// Purge empties the cache.
func (e *Engine) Purge() {
	e.store.Purge()
	e.logger.Info("cache purged")
}

// PurgeEvery empties the cache every interval until ctx is done.
func (e *Engine) PurgeEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Purge()
		}
	}
}

func (e *Engine) ListRaces(ctx context.Context, year *int) ([]model.Race, error) {
	return e.calendar.Races(ctx, e.year(year))
}

func (e *Engine) NextRace(ctx context.Context, year *int) (model.Race, error) {
	return e.calendar.NextRace(ctx, e.year(year))
}

func (e *Engine) RaceDetails(ctx context.Context, year *int, round int) (model.RaceDetails, error) {
	return e.calendar.RaceDetails(ctx, e.year(year), round)
}

func (e *Engine) AllRaceDetails(ctx context.Context, year *int) ([]model.RaceDetails, error) {
	return e.calendar.AllRaceDetails(ctx, e.year(year))
}

func (e *Engine) Schedule(ctx context.Context, year *int, round int) (model.RaceSchedule, error) {
	return e.calendar.Schedule(ctx, e.year(year), round)
}

// DriverStandings without a year reads the feed's latest snapshot and
// ignores round.
func (e *Engine) DriverStandings(ctx context.Context, year, round *int) ([]model.DriverStanding, error) {
	return e.standings.Drivers(ctx, calendar.Selector{Year: year, Round: round})
}

func (e *Engine) TeamStandings(ctx context.Context, year, round *int) ([]model.TeamStanding, error) {
	return e.standings.Teams(ctx, calendar.Selector{Year: year, Round: round})
}

func (e *Engine) ResultsByRound(ctx context.Context, year *int, round int) ([]model.RaceResult, error) {
	return e.results.ByRound(ctx, year, round)
}

func (e *Engine) LastResults(ctx context.Context, year *int) ([]model.RaceResult, error) {
	return e.results.Last(ctx, year)
}
