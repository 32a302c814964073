package sessions

import (
	"context"
	"testing"
	"time"

	"f1seasonbot/pkg/cache"
	"f1seasonbot/pkg/model"
	"f1seasonbot/pkg/openf1"
	"f1seasonbot/pkg/openf1/openf1test"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComposer(feed Feed) *Composer {
	logger, _ := test.NewNullLogger()
	store := cache.NewStore(0, time.Minute, time.Hour, logger)
	return NewComposer(feed, store, logger, nil)
}

func meeting(i int) model.Meeting {
	return model.Meeting{Key: openf1test.MeetingKeys2023[i], Name: "GP", Year: openf1test.Year2023, Round: i + 1}
}

func TestScheduleOrdersByStart(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	c := newComposer(feed)

	schedule, err := c.Schedule(context.Background(), meeting(0))
	require.NoError(t, err)

	require.Len(t, schedule.Sessions, 3)
	assert.Equal(t, openf1test.MeetingKeys2023[0], schedule.RaceID)
	assert.Equal(t, "Practice 1", schedule.Sessions[0].SessionName)
	assert.Equal(t, "Qualifying", schedule.Sessions[1].SessionName)
	assert.Equal(t, "Race", schedule.Sessions[2].SessionName)
}

func TestScheduleUndatedFirst(t *testing.T) {
	feed := openf1test.NewFeed()
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	feed.SessionsByMeeting["1"] = []openf1.Session{
		{SessionKey: 10, SessionName: "Race", SessionType: "Race", DateStart: &start},
		{SessionKey: 11, SessionName: "Sprint", SessionType: "Race"},
	}
	c := newComposer(feed)

	schedule, err := c.Schedule(context.Background(), model.Meeting{Key: 1, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, "Sprint", schedule.Sessions[0].SessionName)
	assert.Equal(t, "TBA", schedule.Sessions[0].StartLabel())
}

func TestScheduleCachedAndMissingNotCached(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	c := newComposer(feed)

	_, err := c.Schedule(context.Background(), meeting(1))
	require.NoError(t, err)
	_, err = c.Schedule(context.Background(), meeting(1))
	require.NoError(t, err)
	assert.Equal(t, 1, feed.Calls("Sessions"))

	_, err = c.Schedule(context.Background(), model.Meeting{Key: 99})
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = c.Schedule(context.Background(), model.Meeting{Key: 99})
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 3, feed.Calls("Sessions"))
}

func TestRaceSessionKey(t *testing.T) {
	feed := openf1test.NewFeed().Season2023()
	c := newComposer(feed)

	key, err := c.RaceSessionKey(context.Background(), meeting(2))
	require.NoError(t, err)

	assert.Equal(t, "7003", key)
	assert.Equal(t, []string{"Race"}, feed.SessionTypes())
}

func TestRaceSessionKeyLatestWins(t *testing.T) {
	feed := openf1test.NewFeed()
	early := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)
	feed.SessionsByMeeting["5"] = []openf1.Session{
		{SessionKey: 2, SessionType: "Race", DateStart: &late},
		{SessionKey: 1, SessionType: "Race", DateStart: &early},
		{SessionKey: 3, SessionType: "Race", DateStart: &late},
	}
	c := newComposer(feed)

	key, err := c.RaceSessionKey(context.Background(), model.Meeting{Key: 5, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, "3", key)
}

func TestRaceSessionKeyNoRace(t *testing.T) {
	feed := openf1test.NewFeed()
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	feed.SessionsByMeeting["5"] = []openf1.Session{
		{SessionKey: 1, SessionType: "Qualifying", DateStart: &start},
	}
	c := newComposer(feed)

	_, err := c.RaceSessionKey(context.Background(), model.Meeting{Key: 5, Year: 2024})

	assert.ErrorIs(t, err, model.ErrNotFound)
}
