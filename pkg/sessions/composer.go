package sessions

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"f1seasonbot/pkg/cache"
	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/openf1"

	"github.com/sirupsen/logrus"
)

type Feed interface {
	Sessions(ctx context.Context, sessionType, meetingKey string) []openf1.Session
}

// Composer turns the sessions of a meeting into schedules and race session keys.
type Composer struct {
	feed   Feed
	store  *cache.Store
	logger *logrus.Logger
	now    func() time.Time
}

func NewComposer(feed Feed, store *cache.Store, logger *logrus.Logger, now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{
		feed:   feed,
		store:  store,
		logger: logger,
		now:    now,
	}
}

// Schedule lists every session of the meeting, earliest first with undated
// sessions ahead of dated ones.
func (c *Composer) Schedule(ctx context.Context, m model.Meeting) (model.RaceSchedule, error) {
	key := fmt.Sprintf("race_schedule_%d", m.Key)
	return cache.GetOrCompute(ctx, c.store, key, cache.Short, func(ctx context.Context) (model.RaceSchedule, error) {
		raw := c.feed.Sessions(ctx, "", strconv.Itoa(m.Key))
		if len(raw) == 0 {
			c.logger.WithField("meeting_key", m.Key).Warn("no sessions for meeting")
			return model.RaceSchedule{}, fmt.Errorf("sessions of meeting %d: %w", m.Key, model.ErrNotFound)
		}

		sorted := make([]openf1.Session, len(raw))
		copy(sorted, raw)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].StartedBefore(sorted[j])
		})

		out := make([]model.Session, 0, len(sorted))
		for _, s := range sorted {
			out = append(out, model.Session{
				SessionType: s.SessionType,
				SessionName: s.SessionName,
				StartTime:   s.DateStart,
				EndTime:     s.DateEnd,
			})
		}
		return model.RaceSchedule{
			RaceID:   m.Key,
			RaceName: m.Name,
			Sessions: out,
		}, nil
	})
}

// RaceSessionKey finds the Race session of the meeting. With several, the
// latest start wins. Other session types are never used.
func (c *Composer) RaceSessionKey(ctx context.Context, m model.Meeting) (string, error) {
	key := fmt.Sprintf("race_session_%d", m.Key)
	tier := cache.TierFor(m.Year, c.now())
	return cache.GetOrCompute(ctx, c.store, key, tier, func(ctx context.Context) (string, error) {
		race, ok := openf1.MostRecent(c.feed.Sessions(ctx, model.SessionTypeRace, strconv.Itoa(m.Key)))
		if !ok {
			c.logger.WithField("meeting_key", m.Key).Warn("no race session for meeting")
			return "", fmt.Errorf("race session of meeting %d: %w", m.Key, model.ErrNotFound)
		}
		return strconv.Itoa(race.SessionKey), nil
	})
}
