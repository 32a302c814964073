package calendar

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/openf1"
	"f1seasonbot/pkg/sessions"

	"github.com/sirupsen/logrus"
)

// Selector is a possibly partial request for a point in a season.
type Selector struct {
	Year  *int
	Round *int
}

func (s Selector) String() string {
	year, round := "latest", "last"
	if s.Year != nil {
		year = strconv.Itoa(*s.Year)
	}
	if s.Round != nil {
		round = strconv.Itoa(*s.Round)
	}
	return year + "/" + round
}

// Target is a resolved selector. Meeting is nil for the latest sentinel.
type Target struct {
	SessionKey string
	Meeting    *model.Meeting
	Year       int
}

func (t Target) Latest() bool {
	return t.Meeting == nil
}

// MeetingKey is the meeting to fall back on for rosters, if any.
func (t Target) MeetingKey() *int {
	if t.Meeting == nil {
		return nil
	}
	k := t.Meeting.Key
	return &k
}

type Resolver struct {
	calendar *Calendar
	composer *sessions.Composer
	logger   *logrus.Logger
	now      func() time.Time
}

func NewResolver(calendar *Calendar, composer *sessions.Composer, logger *logrus.Logger, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{
		calendar: calendar,
		composer: composer,
		logger:   logger,
		now:      now,
	}
}

// Resolve turns a selector into a session key. Without a year the round is
// ignored and the latest sentinel is returned. Out of range input fails
// before any feed call.
func (r *Resolver) Resolve(ctx context.Context, sel Selector) (Target, error) {
	if sel.Year == nil {
		return Target{SessionKey: openf1.LatestSessionKey, Year: r.now().Year()}, nil
	}

	year := *sel.Year
	if !model.ValidYear(year, r.now().Year()) {
		return Target{}, fmt.Errorf("year %d: %w", year, model.ErrInvalidInput)
	}
	if sel.Round != nil && *sel.Round < 1 {
		return Target{}, fmt.Errorf("round %d: %w", *sel.Round, model.ErrInvalidInput)
	}

	var (
		m   model.Meeting
		err error
	)
	if sel.Round == nil {
		m, err = r.calendar.LastMeeting(ctx, year)
	} else {
		m, err = r.calendar.MeetingByRound(ctx, year, *sel.Round)
	}
	if err != nil {
		return Target{}, err
	}

	key, err := r.composer.RaceSessionKey(ctx, m)
	if err != nil {
		return Target{}, err
	}

	r.logger.WithField("selector", sel.String()).WithField("meeting_key", m.Key).WithField("session_key", key).Debug("selector resolved")
	return Target{SessionKey: key, Meeting: &m, Year: year}, nil
}
