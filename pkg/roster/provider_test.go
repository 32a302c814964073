package roster

import (
	"context"
	"strconv"
	"testing"
	"time"

	"f1seasonbot/pkg/openf1"
	"f1seasonbot/pkg/openf1/openf1test"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(feed Feed) *Provider {
	logger, _ := test.NewNullLogger()
	return NewProvider(feed, logger)
}

func intp(v int) *int {
	return &v
}

func TestLookupPrimary(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	p := newProvider(feed)

	drivers := p.Lookup(context.Background(), strconv.Itoa(openf1test.RaceSessionKeys2023[0]), intp(openf1test.MeetingKeys2023[0]))

	assert.Len(t, drivers, 2)
	assert.Equal(t, 0, feed.Calls("Sessions"))
}

func TestLookupFallsBackToQualifying(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	race := strconv.Itoa(openf1test.RaceSessionKeys2023[0])
	delete(feed.DriversBySession, race)
	feed.DriversBySession[strconv.Itoa(openf1test.QualiSessionKeys[0])] = openf1test.Roster()[:1]
	p := newProvider(feed)

	drivers := p.Lookup(context.Background(), race, intp(openf1test.MeetingKeys2023[0]))

	require.Len(t, drivers, 1)
	assert.Equal(t, 1, drivers[0].DriverNumber)
	assert.Equal(t, []string{"Qualifying"}, feed.SessionTypes())
}

func TestLookupWalksPreferenceOrderThenSweeps(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	race := strconv.Itoa(openf1test.RaceSessionKeys2023[0])
	delete(feed.DriversBySession, race)
	// practice sessions are typed "Practice", so only the sweep reaches them
	feed.DriversBySession[strconv.Itoa(openf1test.PracticeSessionKeys[0])] = openf1test.Roster()
	p := newProvider(feed)

	drivers := p.Lookup(context.Background(), race, intp(openf1test.MeetingKeys2023[0]))

	assert.Len(t, drivers, 2)
	expected := append([]string{}, FallbackSessionTypes...)
	expected = append(expected, "")
	assert.Equal(t, expected, feed.SessionTypes())
}

func TestLookupSweepSkipsRaceAndPrefersRecent(t *testing.T) {
	feed := openf1test.NewFeed()
	t1 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	t3 := t2.Add(24 * time.Hour)
	feed.SessionsByMeeting["9"] = []openf1.Session{
		{SessionKey: 1, SessionType: "Practice", DateStart: &t1},
		{SessionKey: 2, SessionType: "Sprint Shootout", DateStart: &t2},
		{SessionKey: 3, SessionType: "Race", DateStart: &t3},
	}
	feed.DriversBySession["1"] = openf1test.Roster()[:1]
	feed.DriversBySession["2"] = openf1test.Roster()
	feed.DriversBySession["3"] = openf1test.Roster()
	p := newProvider(feed)

	drivers := p.Lookup(context.Background(), "100", intp(9))

	assert.Len(t, drivers, 2)
	// primary plus the sprint shootout; the race is skipped unasked
	assert.Equal(t, 2, feed.Calls("Drivers"))
}

func TestLookupOnlyRaceSessionsIsEmpty(t *testing.T) {
	feed := openf1test.NewFeed()
	t1 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	feed.SessionsByMeeting["9"] = []openf1.Session{
		{SessionKey: 3, SessionType: "Race", DateStart: &t1},
	}
	feed.DriversBySession["3"] = openf1test.Roster()
	p := newProvider(feed)

	drivers := p.Lookup(context.Background(), "100", intp(9))

	assert.NotNil(t, drivers)
	assert.Empty(t, drivers)
	assert.Equal(t, 1, feed.Calls("Drivers"))
}

func TestLookupNoMeetingNoFallback(t *testing.T) {
	feed := openf1test.NewFeed()
	p := newProvider(feed)

	drivers := p.Lookup(context.Background(), openf1.LatestSessionKey, nil)

	assert.Empty(t, drivers)
	assert.Equal(t, 0, feed.Calls("Sessions"))
}
