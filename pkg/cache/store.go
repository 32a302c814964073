package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultShortTTL       = 5 * time.Minute
	DefaultLongTTL        = time.Hour
	DefaultComputeTimeout = 30 * time.Second
)

// Tier selects the TTL a value is stored with.
type Tier int

const (
	Short Tier = iota
	Long
)

func (t Tier) String() string {
	if t == Long {
		return "long"
	}
	return "short"
}

// TierFor picks Long for closed seasons and Short for the current or future ones.
func TierFor(year int, now time.Time) Tier {
	if year < now.Year() {
		return Long
	}
	return Short
}

// Store keeps computed values in two expiring LRUs. The LRUs carry their own
// locks so feed calls never run while a lock is held.
type Store struct {
	short  *expirable.LRU[string, any]
	long   *expirable.LRU[string, any]
	group  singleflight.Group
	logger *logrus.Logger

	// shared computations run detached from any single caller under this ceiling
	computeTimeout time.Duration
}

// NewStore builds a store. size bounds each tier; 0 leaves them unbounded.
func NewStore(size int, shortTTL, longTTL time.Duration, logger *logrus.Logger) *Store {
	if shortTTL <= 0 {
		shortTTL = DefaultShortTTL
	}
	if longTTL <= 0 {
		longTTL = DefaultLongTTL
	}
	return &Store{
		short:  expirable.NewLRU[string, any](size, nil, shortTTL),
		long:   expirable.NewLRU[string, any](size, nil, longTTL),
		logger: logger,

		computeTimeout: DefaultComputeTimeout,
	}
}

func (s *Store) tier(t Tier) *expirable.LRU[string, any] {
	if t == Long {
		return s.long
	}
	return s.short
}

// Purge drops every cached value in both tiers.
func (s *Store) Purge() {
	s.short.Purge()
	s.long.Purge()
}

func (s *Store) Len() int {
	return s.short.Len() + s.long.Len()
}

type noStore[T any] struct {
	value T
}

func (noStore[T]) Error() string {
	return "value not stored"
}

// NoStore makes fn hand v back to GetOrCompute callers without caching it.
// Used for empty or partial results that may fill in on a later call.
func NoStore[T any](v T) error {
	return noStore[T]{value: v}
}

// GetOrCompute returns the cached value for key or runs fn and stores its
// result. Errors are returned without being stored. Concurrent misses on the
// same key share one fn call, which runs on a context detached from the
// callers so one caller giving up never fails the others. Each caller still
// stops waiting when its own ctx is done.
func GetOrCompute[T any](ctx context.Context, s *Store, key string, tier Tier, fn func(ctx context.Context) (T, error)) (T, error) {
	lru := s.tier(tier)
	if v, ok := lru.Get(key); ok {
		if typed, ok := v.(T); ok {
			s.logger.WithField("key", key).WithField("tier", tier.String()).Debug("cache hit")
			return typed, nil
		}
	}

	ch := s.group.DoChan(fmt.Sprintf("%s/%s", tier, key), func() (interface{}, error) {
		if v, ok := lru.Get(key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
		s.logger.WithField("key", key).WithField("tier", tier.String()).Debug("cache miss")

		computeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.computeTimeout)
		defer cancel()
		res, err := fn(computeCtx)
		if err != nil {
			return nil, err
		}
		lru.Add(key, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return unwrap[T](r.Err)
		}
		return r.Val.(T), nil
	}
}

// Uncached runs fn without touching the store, honouring NoStore results.
func Uncached[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return unwrap[T](err)
	}
	return v, nil
}

func unwrap[T any](err error) (T, error) {
	var ns noStore[T]
	if errors.As(err, &ns) {
		return ns.value, nil
	}
	var zero T
	return zero, err
}
