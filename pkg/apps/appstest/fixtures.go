package appstest

import (
	"strings"
	"testing"
	"time"

	"f1seasonbot/pkg/cache"
	"f1seasonbot/pkg/engine"
	"f1seasonbot/pkg/openf1/openf1test"
	"f1seasonbot/pkg/settings"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// MidMarch2023 sits between the second and third rounds of the 2023 fixture.
var MidMarch2023 = time.Date(2023, time.March, 15, 12, 0, 0, 0, time.UTC)

// Env is an engine over the 2023 fixture, an in-memory mode store and a
// recording sender.
type Env struct {
	Feed   *openf1test.Feed
	Engine *engine.Engine
	Modes  *settings.Manager
	Sender *Sender
	Logger *logrus.Logger
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	logger, _ := test.NewNullLogger()
	feed := openf1test.NewFeed().Season2023()
	store := cache.NewStore(0, time.Minute, time.Hour, logger)

	ms, err := settings.NewManager("file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared", logger)
	require.NoError(t, err)
	t.Cleanup(func() { ms.Close() })

	return &Env{
		Feed:   feed,
		Engine: engine.New(feed, store, logger, func() time.Time { return MidMarch2023 }),
		Modes:  ms,
		Sender: &Sender{},
		Logger: logger,
	}
}
