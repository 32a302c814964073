package roster

import (
	"context"
	"strconv"

	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/openf1"
	"f1seasonbot/pkg/queues"

	"github.com/sirupsen/logrus"
)

// FallbackSessionTypes is tried in order when the primary roster is empty.
var FallbackSessionTypes = []string{
	model.SessionTypeQualifying,
	"Practice 1",
	"Practice 2",
	"Practice 3",
	"FP1",
	"FP2",
	"FP3",
}

type Feed interface {
	Drivers(ctx context.Context, sessionKey string) []openf1.Driver
	Sessions(ctx context.Context, sessionType, meetingKey string) []openf1.Session
}

type Provider struct {
	feed   Feed
	logger *logrus.Logger
}

func NewProvider(feed Feed, logger *logrus.Logger) *Provider {
	return &Provider{
		feed:   feed,
		logger: logger,
	}
}

// Lookup returns the roster of sessionKey. When it is empty and meetingKey is
// known, the other sessions of the meeting are tried: first the preferred
// types, then every non race session from the most recent back. It never
// fails; without any roster the empty primary result comes back.
func (p *Provider) Lookup(ctx context.Context, sessionKey string, meetingKey *int) []openf1.Driver {
	drivers := p.feed.Drivers(ctx, sessionKey)
	if len(drivers) > 0 {
		p.logger.WithField("session_key", sessionKey).WithField("drivers", len(drivers)).Debug("roster found")
		return drivers
	}
	if meetingKey == nil {
		p.logger.WithField("session_key", sessionKey).Warn("empty roster and no meeting to fall back on")
		return drivers
	}

	mk := strconv.Itoa(*meetingKey)
	log := p.logger.WithField("session_key", sessionKey).WithField("meeting_key", mk)
	log.Debug("empty roster, trying fallback sessions")

	preferred := queues.From(FallbackSessionTypes)
	for !preferred.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return drivers
		}
		sessionType := preferred.Pop()
		session, ok := openf1.MostRecent(p.feed.Sessions(ctx, sessionType, mk))
		if !ok {
			continue
		}
		if found := p.feed.Drivers(ctx, strconv.Itoa(session.SessionKey)); len(found) > 0 {
			log.WithField("fallback_type", sessionType).WithField("fallback_session", session.SessionKey).Info("roster found in fallback session")
			return found
		}
	}

	sweep := queues.From(openf1.ByStartDesc(p.feed.Sessions(ctx, "", mk)))
	for !sweep.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return drivers
		}
		session := sweep.Pop()
		if session.SessionType == model.SessionTypeRace {
			continue
		}
		if found := p.feed.Drivers(ctx, strconv.Itoa(session.SessionKey)); len(found) > 0 {
			log.WithField("fallback_type", session.SessionType).WithField("fallback_session", session.SessionKey).Info("roster found sweeping meeting sessions")
			return found
		}
	}

	log.Warn("no roster even after fallback")
	return drivers
}
