package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(shortTTL, longTTL time.Duration) *Store {
	logger, _ := test.NewNullLogger()
	return NewStore(0, shortTTL, longTTL, logger)
}

func TestTierFor(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, Long, TierFor(2023, now))
	assert.Equal(t, Short, TierFor(2025, now))
	assert.Equal(t, Short, TierFor(2026, now))
}

func TestGetOrComputeHit(t *testing.T) {
	s := newTestStore(time.Minute, time.Hour)
	var calls int32
	fn := func(ctx context.Context) ([]int, error) {
		atomic.AddInt32(&calls, 1)
		return []int{1, 2, 3}, nil
	}

	first, err := GetOrCompute(context.Background(), s, "races_2023", Long, fn)
	require.NoError(t, err)
	second, err := GetOrCompute(context.Background(), s, "races_2023", Long, fn)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, s.Len())
}

func TestGetOrComputeExpires(t *testing.T) {
	s := newTestStore(50*time.Millisecond, time.Hour)
	var calls int32
	fn := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "v", nil
	}

	_, err := GetOrCompute(context.Background(), s, "k", Short, fn)
	require.NoError(t, err)
	_, err = GetOrCompute(context.Background(), s, "k", Long, fn)
	require.NoError(t, err)
	time.Sleep(150 * time.Millisecond)
	_, err = GetOrCompute(context.Background(), s, "k", Short, fn)
	require.NoError(t, err)
	_, err = GetOrCompute(context.Background(), s, "k", Long, fn)
	require.NoError(t, err)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetOrComputeErrorsNotCached(t *testing.T) {
	s := newTestStore(time.Minute, time.Hour)
	boom := errors.New("boom")
	var calls int32
	fn := func(ctx context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return 0, boom
		}
		return 7, nil
	}

	_, err := GetOrCompute(context.Background(), s, "k", Short, fn)
	assert.ErrorIs(t, err, boom)
	v, err := GetOrCompute(context.Background(), s, "k", Short, fn)
	require.NoError(t, err)

	assert.Equal(t, 7, v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetOrComputeSharesConcurrentMisses(t *testing.T) {
	s := newTestStore(time.Minute, time.Hour)
	release := make(chan struct{})
	var calls int32
	fn := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := GetOrCompute(context.Background(), s, "shared", Short, fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestGetOrComputeCancelledCallerDoesNotFailOthers(t *testing.T) {
	s := newTestStore(time.Minute, time.Hour)
	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(ctx context.Context) (string, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("feed empty: %w", err)
		}
		return "meetings", nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := GetOrCompute(leaderCtx, s, "races_2023", Short, fn)
		leaderErr <- err
	}()
	<-started

	type result struct {
		v   string
		err error
	}
	follower := make(chan result, 1)
	go func() {
		v, err := GetOrCompute(context.Background(), s, "races_2023", Short, fn)
		follower <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)
	close(release)

	got := <-follower
	require.NoError(t, got.err)
	assert.Equal(t, "meetings", got.v)

	cached, err := GetOrCompute(context.Background(), s, "races_2023", Short, func(ctx context.Context) (string, error) {
		return "", errors.New("should be cached")
	})
	require.NoError(t, err)
	assert.Equal(t, "meetings", cached)
}

func TestGetOrComputeSharedCallIsBounded(t *testing.T) {
	s := newTestStore(time.Minute, time.Hour)
	s.computeTimeout = 30 * time.Millisecond
	fn := func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}

	start := time.Now()
	_, err := GetOrCompute(context.Background(), s, "slow", Short, fn)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGetOrComputeDifferentKeysDoNotBlock(t *testing.T) {
	s := newTestStore(time.Minute, time.Hour)
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_, _ = GetOrCompute(context.Background(), s, "slow", Short, func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		})
		close(done)
	}()

	v, err := GetOrCompute(context.Background(), s, "fast", Short, func(ctx context.Context) (int, error) {
		return 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	close(release)
	<-done
}

func TestPurge(t *testing.T) {
	s := newTestStore(time.Minute, time.Hour)
	_, _ = GetOrCompute(context.Background(), s, "a", Short, func(ctx context.Context) (int, error) { return 1, nil })
	_, _ = GetOrCompute(context.Background(), s, "b", Long, func(ctx context.Context) (int, error) { return 1, nil })
	require.Equal(t, 2, s.Len())

	s.Purge()

	assert.Equal(t, 0, s.Len())
}

func TestGetOrComputeNoStore(t *testing.T) {
	s := newTestStore(time.Minute, time.Hour)
	var calls int32
	fn := func(ctx context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return nil, NoStore([]string{})
	}

	v, err := GetOrCompute(context.Background(), s, "empty", Short, fn)
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)
	_, err = GetOrCompute(context.Background(), s, "empty", Short, fn)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 0, s.Len())
}

func TestUncached(t *testing.T) {
	v, err := Uncached(context.Background(), func(ctx context.Context) ([]int, error) {
		return nil, NoStore([]int{})
	})
	require.NoError(t, err)
	assert.NotNil(t, v)

	boom := errors.New("boom")
	_, err = Uncached(context.Background(), func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}
