package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"f1seasonbot/pkg/cache"
	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/openf1"
	"f1seasonbot/pkg/sessions"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const detailsConcurrency = 4

type Feed interface {
	Meetings(ctx context.Context, year int) []openf1.Meeting
}

// Calendar answers season level questions: rounds, status, next race and
// per round details.
type Calendar struct {
	feed     Feed
	composer *sessions.Composer
	store    *cache.Store
	logger   *logrus.Logger
	now      func() time.Time
}

func NewCalendar(feed Feed, composer *sessions.Composer, store *cache.Store, logger *logrus.Logger, now func() time.Time) *Calendar {
	if now == nil {
		now = time.Now
	}
	return &Calendar{
		feed:     feed,
		composer: composer,
		store:    store,
		logger:   logger,
		now:      now,
	}
}

// detailsEntry is what the cache keeps for race details. Status is left out
// and computed on every read.
type detailsEntry struct {
	Meeting  model.Meeting
	Sessions []model.Session
}

func (c *Calendar) validate(year int) error {
	if !model.ValidYear(year, c.now().Year()) {
		return fmt.Errorf("year %d: %w", year, model.ErrInvalidInput)
	}
	return nil
}

// Meetings returns the season's meetings ordered by start with dense rounds.
func (c *Calendar) Meetings(ctx context.Context, year int) ([]model.Meeting, error) {
	if err := c.validate(year); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("races_%d", year)
	return cache.GetOrCompute(ctx, c.store, key, cache.TierFor(year, c.now()), func(ctx context.Context) ([]model.Meeting, error) {
		raw := c.feed.Meetings(ctx, year)
		if len(raw) == 0 {
			c.logger.WithField("year", year).Warn("no meetings for season")
			return nil, fmt.Errorf("meetings of %d: %w", year, model.ErrNotFound)
		}
		return numberRounds(raw), nil
	})
}

func numberRounds(raw []openf1.Meeting) []model.Meeting {
	sorted := make([]openf1.Meeting, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateStart.Before(sorted[j].DateStart)
	})

	meetings := make([]model.Meeting, 0, len(sorted))
	for i, m := range sorted {
		meetings = append(meetings, model.Meeting{
			Key:       m.MeetingKey,
			Name:      m.MeetingName,
			Location:  m.Location,
			Country:   m.CountryName,
			Year:      m.Year,
			Round:     i + 1,
			DateStart: m.DateStart,
			DateEnd:   m.DateEnd,
		})
	}
	return meetings
}

// MeetingByRound returns the meeting numbered round within year.
func (c *Calendar) MeetingByRound(ctx context.Context, year, round int) (model.Meeting, error) {
	if round < 1 {
		return model.Meeting{}, fmt.Errorf("round %d: %w", round, model.ErrInvalidInput)
	}
	meetings, err := c.Meetings(ctx, year)
	if err != nil {
		return model.Meeting{}, err
	}
	if round > len(meetings) {
		c.logger.WithField("year", year).WithField("round", round).Warn("round not in season")
		return model.Meeting{}, fmt.Errorf("round %d of %d: %w", round, year, model.ErrNotFound)
	}
	return meetings[round-1], nil
}

// LastMeeting returns the meeting with the latest start. On equal starts the
// later one in feed order wins.
func (c *Calendar) LastMeeting(ctx context.Context, year int) (model.Meeting, error) {
	meetings, err := c.Meetings(ctx, year)
	if err != nil {
		return model.Meeting{}, err
	}
	return meetings[len(meetings)-1], nil
}

// LastCompleted returns the most recent meeting whose end is in the past.
func (c *Calendar) LastCompleted(ctx context.Context, year int) (model.Meeting, error) {
	meetings, err := c.Meetings(ctx, year)
	if err != nil {
		return model.Meeting{}, err
	}
	now := c.now()
	for i := len(meetings) - 1; i >= 0; i-- {
		if model.StatusAt(meetings[i].DateEnd, now) == model.StatusCompleted {
			return meetings[i], nil
		}
	}
	return model.Meeting{}, fmt.Errorf("completed meeting in %d: %w", year, model.ErrNotFound)
}

// Races lists the season with status computed now. A season without
// meetings is an empty list.
func (c *Calendar) Races(ctx context.Context, year int) ([]model.Race, error) {
	meetings, err := c.Meetings(ctx, year)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		return []model.Race{}, nil
	default:
		return nil, err
	}

	now := c.now()
	races := make([]model.Race, 0, len(meetings))
	for _, m := range meetings {
		races = append(races, m.Race(now))
	}
	return races, nil
}

// NextRace returns the first upcoming race of the season.
func (c *Calendar) NextRace(ctx context.Context, year int) (model.Race, error) {
	races, err := c.Races(ctx, year)
	if err != nil {
		return model.Race{}, err
	}
	for _, r := range races {
		if r.Status == model.StatusUpcoming {
			return r, nil
		}
	}
	return model.Race{}, fmt.Errorf("upcoming race in %d: %w", year, model.ErrNotFound)
}

// Schedule returns the session schedule of a round.
func (c *Calendar) Schedule(ctx context.Context, year, round int) (model.RaceSchedule, error) {
	m, err := c.MeetingByRound(ctx, year, round)
	if err != nil {
		return model.RaceSchedule{}, err
	}
	return c.composer.Schedule(ctx, m)
}

// RaceDetails returns a round with its sessions. A missing schedule leaves
// the sessions empty.
func (c *Calendar) RaceDetails(ctx context.Context, year, round int) (model.RaceDetails, error) {
	m, err := c.MeetingByRound(ctx, year, round)
	if err != nil {
		return model.RaceDetails{}, err
	}
	key := fmt.Sprintf("race_details_%d_%d", year, round)
	entry, err := cache.GetOrCompute(ctx, c.store, key, cache.TierFor(year, c.now()), func(ctx context.Context) (detailsEntry, error) {
		entry, ok := c.details(ctx, m)
		if !ok {
			return entry, cache.NoStore(entry)
		}
		return entry, nil
	})
	if err != nil {
		return model.RaceDetails{}, err
	}
	return entry.project(c.now()), nil
}

// AllRaceDetails returns every round of the season with its sessions.
// Schedules are fetched concurrently.
func (c *Calendar) AllRaceDetails(ctx context.Context, year int) ([]model.RaceDetails, error) {
	meetings, err := c.Meetings(ctx, year)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		return []model.RaceDetails{}, nil
	default:
		return nil, err
	}

	key := fmt.Sprintf("all_race_details_%d", year)
	entries, err := cache.GetOrCompute(ctx, c.store, key, cache.TierFor(year, c.now()), func(ctx context.Context) ([]detailsEntry, error) {
		entries := make([]detailsEntry, len(meetings))
		complete := make([]bool, len(meetings))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(detailsConcurrency)
		for i, m := range meetings {
			i, m := i, m
			g.Go(func() error {
				entries[i], complete[i] = c.details(gctx, m)
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, ok := range complete {
			if !ok {
				return entries, cache.NoStore(entries)
			}
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}

	now := c.now()
	out := make([]model.RaceDetails, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.project(now))
	}
	return out, nil
}

// details reports false when the meeting has no schedule yet.
func (c *Calendar) details(ctx context.Context, m model.Meeting) (detailsEntry, bool) {
	entry := detailsEntry{Meeting: m, Sessions: []model.Session{}}
	schedule, err := c.composer.Schedule(ctx, m)
	if err != nil {
		c.logger.WithError(err).WithField("meeting_key", m.Key).Debug("race details without sessions")
		return entry, false
	}
	entry.Sessions = schedule.Sessions
	return entry, true
}

func (e detailsEntry) project(now time.Time) model.RaceDetails {
	sessions := make([]model.Session, len(e.Sessions))
	copy(sessions, e.Sessions)
	return model.RaceDetails{
		Race:     e.Meeting.Race(now),
		Sessions: sessions,
	}
}
