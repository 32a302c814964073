package standings

import (
	"context"
	"strconv"
	"testing"
	"time"

	"f1seasonbot/pkg/cache"
	"f1seasonbot/pkg/calendar"
	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/openf1"
	"f1seasonbot/pkg/openf1/openf1test"
	"f1seasonbot/pkg/roster"
	"f1seasonbot/pkg/sessions"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var midMarch2023 = time.Date(2023, time.March, 15, 12, 0, 0, 0, time.UTC)

func newService(feed *openf1test.Feed) *Service {
	logger, _ := test.NewNullLogger()
	now := func() time.Time { return midMarch2023 }
	store := cache.NewStore(0, time.Minute, time.Hour, logger)
	composer := sessions.NewComposer(feed, store, logger, now)
	cal := calendar.NewCalendar(feed, composer, store, logger, now)
	resolver := calendar.NewResolver(cal, composer, logger, now)
	return NewService(feed, resolver, roster.NewProvider(feed, logger), store, logger, now)
}

func intp(v int) *int {
	return &v
}

func TestDriversForRound(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	s := newService(feed)

	out, err := s.Drivers(context.Background(), calendar.Selector{Year: intp(2023), Round: intp(2)})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, model.DriverStanding{Position: 1, DriverName: "Max Verstappen", DriverNumber: 1, TeamName: "Red Bull Racing", Points: 50}, out[0])
	assert.Equal(t, "Lewis Hamilton", out[1].DriverName)
}

func TestDriversCachedPerYearAndRound(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	s := newService(feed)
	sel := calendar.Selector{Year: intp(2023), Round: intp(1)}

	first, err := s.Drivers(context.Background(), sel)
	require.NoError(t, err)
	calls := feed.TotalCalls()
	second, err := s.Drivers(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, calls, feed.TotalCalls())
}

func TestDriversLatestNeverCached(t *testing.T) {
	feed := openf1test.NewFeed()
	feed.DriverRows[openf1.LatestSessionKey] = []openf1.ChampionshipDriver{{DriverNumber: 1, PositionCurrent: 1, PointsCurrent: 10}}
	feed.DriversBySession[openf1.LatestSessionKey] = openf1test.Roster()
	s := newService(feed)

	_, err := s.Drivers(context.Background(), calendar.Selector{})
	require.NoError(t, err)
	out, err := s.Drivers(context.Background(), calendar.Selector{Round: intp(5)})
	require.NoError(t, err)

	assert.Equal(t, "Max Verstappen", out[0].DriverName)
	assert.Equal(t, 2, feed.Calls("DriverChampionship"))
	assert.Equal(t, 0, feed.Calls("Meetings"))
}

func TestDriversRosterFallback(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	delete(feed.DriversBySession, strconv.Itoa(openf1test.RaceSessionKeys2023[2]))
	feed.DriversBySession[strconv.Itoa(openf1test.QualiSessionKeys[2])] = openf1test.Roster()[:1]
	s := newService(feed)

	out, err := s.Drivers(context.Background(), calendar.Selector{Year: intp(2023)})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "Max Verstappen", out[0].DriverName)
	assert.Equal(t, "Driver #44", out[1].DriverName)
	assert.Equal(t, "Unknown Team", out[1].TeamName)
}

func TestDriversEmptyIsNotCached(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	race := strconv.Itoa(openf1test.RaceSessionKeys2023[0])
	delete(feed.DriverRows, race)
	s := newService(feed)
	sel := calendar.Selector{Year: intp(2023), Round: intp(1)}

	out, err := s.Drivers(context.Background(), sel)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
	_, err = s.Drivers(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, 2, feed.Calls("DriverChampionship"))
	assert.Equal(t, 0, feed.Calls("Drivers"))
}

func TestDriversInvalidAndMissing(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	s := newService(feed)

	_, err := s.Drivers(context.Background(), calendar.Selector{Year: intp(1900)})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, 0, feed.TotalCalls())

	_, err = s.Drivers(context.Background(), calendar.Selector{Year: intp(2023), Round: intp(4)})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTeams(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	s := newService(feed)

	out, err := s.Teams(context.Background(), calendar.Selector{Year: intp(2023), Round: intp(3)})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, model.TeamStanding{Position: 1, TeamName: "Red Bull Racing", Points: 129}, out[0])
	assert.Equal(t, 0, feed.Calls("Drivers"))
}

func TestTeamsLatest(t *testing.T) {
	feed := openf1test.NewFeed()
	feed.TeamRows[openf1.LatestSessionKey] = []openf1.ChampionshipTeam{
		{TeamName: "McLaren", PositionCurrent: 1, PointsCurrent: 24.5},
	}
	s := newService(feed)

	out, err := s.Teams(context.Background(), calendar.Selector{})
	require.NoError(t, err)

	assert.Equal(t, 24, out[0].Points)
}
