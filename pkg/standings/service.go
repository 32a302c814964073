package standings

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"f1seasonbot/pkg/aggregate"
	"f1seasonbot/pkg/cache"
	"f1seasonbot/pkg/calendar"
	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/openf1"
	"f1seasonbot/pkg/roster"

	"github.com/sirupsen/logrus"
)

type Feed interface {
	DriverChampionship(ctx context.Context, sessionKey string) []openf1.ChampionshipDriver
	TeamChampionship(ctx context.Context, sessionKey string) []openf1.ChampionshipTeam
}

type Service struct {
	feed     Feed
	resolver *calendar.Resolver
	roster   *roster.Provider
	store    *cache.Store
	logger   *logrus.Logger
	now      func() time.Time
}

func NewService(feed Feed, resolver *calendar.Resolver, rp *roster.Provider, store *cache.Store, logger *logrus.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		feed:     feed,
		resolver: resolver,
		roster:   rp,
		store:    store,
		logger:   logger,
		now:      now,
	}
}

func cacheKey(prefix string, sel calendar.Selector) string {
	round := "last"
	if sel.Round != nil {
		round = strconv.Itoa(*sel.Round)
	}
	return fmt.Sprintf("%s_%d_%s", prefix, *sel.Year, round)
}

// cached runs fn through the store when the selector names a year. Latest
// lookups always go to the feed.
func cached[T any](ctx context.Context, s *Service, prefix string, sel calendar.Selector, fn func(ctx context.Context) (T, error)) (T, error) {
	if sel.Year == nil {
		return cache.Uncached(ctx, fn)
	}
	return cache.GetOrCompute(ctx, s.store, cacheKey(prefix, sel), cache.TierFor(*sel.Year, s.now()), fn)
}

// Drivers returns the drivers' championship at the selected point, at most
// 20 rows. No championship data is an empty list.
func (s *Service) Drivers(ctx context.Context, sel calendar.Selector) ([]model.DriverStanding, error) {
	return cached(ctx, s, "driver_standings", sel, func(ctx context.Context) ([]model.DriverStanding, error) {
		target, err := s.resolver.Resolve(ctx, sel)
		if err != nil {
			return nil, err
		}
		log := s.logger.WithField("selector", sel.String()).WithField("session_key", target.SessionKey)

		rows := s.feed.DriverChampionship(ctx, target.SessionKey)
		if len(rows) == 0 {
			log.Warn("no driver championship data")
			return nil, cache.NoStore([]model.DriverStanding{})
		}

		drivers := s.roster.Lookup(ctx, target.SessionKey, target.MeetingKey())
		out := aggregate.DriverStandings(rows, drivers)
		log.WithField("rows", len(out)).Info("driver standings built")
		return out, nil
	})
}

// Teams returns the constructors' championship at the selected point.
func (s *Service) Teams(ctx context.Context, sel calendar.Selector) ([]model.TeamStanding, error) {
	return cached(ctx, s, "team_standings", sel, func(ctx context.Context) ([]model.TeamStanding, error) {
		target, err := s.resolver.Resolve(ctx, sel)
		if err != nil {
			return nil, err
		}
		log := s.logger.WithField("selector", sel.String()).WithField("session_key", target.SessionKey)

		rows := s.feed.TeamChampionship(ctx, target.SessionKey)
		if len(rows) == 0 {
			log.Warn("no team championship data")
			return nil, cache.NoStore([]model.TeamStanding{})
		}

		out := aggregate.TeamStandings(rows)
		log.WithField("rows", len(out)).Info("team standings built")
		return out, nil
	})
}
