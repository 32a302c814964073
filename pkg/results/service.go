package results

import (
	"context"
	"fmt"
	"time"

	"f1seasonbot/pkg/aggregate"
	"f1seasonbot/pkg/cache"
	"f1seasonbot/pkg/calendar"
	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/openf1"
	"f1seasonbot/pkg/roster"
	"f1seasonbot/pkg/sessions"

	"github.com/sirupsen/logrus"
)

type Feed interface {
	SessionResults(ctx context.Context, sessionKey string) []openf1.SessionResult
	Sessions(ctx context.Context, sessionType, meetingKey string) []openf1.Session
}

type Service struct {
	feed     Feed
	calendar *calendar.Calendar
	resolver *calendar.Resolver
	composer *sessions.Composer
	roster   *roster.Provider
	store    *cache.Store
	logger   *logrus.Logger
	now      func() time.Time
}

func NewService(feed Feed, cal *calendar.Calendar, resolver *calendar.Resolver, composer *sessions.Composer, rp *roster.Provider, store *cache.Store, logger *logrus.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		feed:     feed,
		calendar: cal,
		resolver: resolver,
		composer: composer,
		roster:   rp,
		store:    store,
		logger:   logger,
		now:      now,
	}
}

// ByRound returns the classification of a round. A nil year means the
// current season.
func (s *Service) ByRound(ctx context.Context, year *int, round int) ([]model.RaceResult, error) {
	y := s.now().Year()
	if year != nil {
		y = *year
	}
	key := fmt.Sprintf("race_results_%d_%d", y, round)
	return cache.GetOrCompute(ctx, s.store, key, cache.TierFor(y, s.now()), func(ctx context.Context) ([]model.RaceResult, error) {
		target, err := s.resolver.Resolve(ctx, calendar.Selector{Year: &y, Round: &round})
		if err != nil {
			return nil, err
		}
		return s.build(ctx, target.SessionKey, target.Meeting.Key)
	})
}

// Last returns the classification of the most recent race. Without a year
// the feed's latest race session is used; with one, the season's last
// completed meeting.
func (s *Service) Last(ctx context.Context, year *int) ([]model.RaceResult, error) {
	if year == nil {
		return cache.Uncached(ctx, s.latest)
	}

	y := *year
	if !model.ValidYear(y, s.now().Year()) {
		return nil, fmt.Errorf("year %d: %w", y, model.ErrInvalidInput)
	}
	key := fmt.Sprintf("last_race_results_%d", y)
	return cache.GetOrCompute(ctx, s.store, key, cache.TierFor(y, s.now()), func(ctx context.Context) ([]model.RaceResult, error) {
		m, err := s.calendar.LastCompleted(ctx, y)
		if err != nil {
			return nil, err
		}
		sessionKey, err := s.composer.RaceSessionKey(ctx, m)
		if err != nil {
			return nil, err
		}
		return s.build(ctx, sessionKey, m.Key)
	})
}

func (s *Service) latest(ctx context.Context) ([]model.RaceResult, error) {
	race, ok := openf1.MostRecent(s.feed.Sessions(ctx, model.SessionTypeRace, openf1.LatestSessionKey))
	if !ok {
		s.logger.Warn("no latest race session")
		return nil, fmt.Errorf("latest race session: %w", model.ErrNotFound)
	}
	return s.build(ctx, fmt.Sprint(race.SessionKey), race.MeetingKey)
}

func (s *Service) build(ctx context.Context, sessionKey string, meetingKey int) ([]model.RaceResult, error) {
	log := s.logger.WithField("session_key", sessionKey).WithField("meeting_key", meetingKey)

	rows := s.feed.SessionResults(ctx, sessionKey)
	if len(rows) == 0 {
		log.Warn("no session results")
		return nil, cache.NoStore([]model.RaceResult{})
	}

	drivers := s.roster.Lookup(ctx, sessionKey, &meetingKey)
	out := aggregate.RaceResults(meetingKey, rows, drivers)
	log.WithField("rows", len(out)).Info("race results built")
	return out, nil
}
