package session

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultIdleTTL       = 24 * time.Hour
	DefaultSweepInterval = 10 * time.Minute
)

type CacheStoreOptions struct {
	// IdleTTL evicts a session that has not been written for this long.
	// A negative value disables eviction.
	IdleTTL       time.Duration
	SweepInterval time.Duration
	Logger        *slog.Logger
}

// CacheStore is a Store with idle eviction. Every Set restarts the session's
// TTL, so active users are never evicted.
type CacheStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewCacheStore(opts CacheStoreOptions) *CacheStore {
	ttl := opts.IdleTTL
	switch {
	case ttl == 0:
		ttl = DefaultIdleTTL
	case ttl < 0:
		ttl = cache.NoExpiration
	}
	sweep := opts.SweepInterval
	if sweep <= 0 {
		sweep = DefaultSweepInterval
	}
	if ttl == cache.NoExpiration {
		sweep = 0
	}

	c := cache.New(ttl, sweep)
	if opts.Logger != nil {
		logger := opts.Logger
		c.OnEvicted(func(key string, v any) {
			s, _ := v.(Session)
			logger.Info("session_evicted", "user_id", key, "state", s.State.String(), "idle_since", s.UpdatedAt)
		})
	}
	return &CacheStore{cache: c, ttl: ttl}
}

func (c *CacheStore) Get(userID int64) Session {
	if v, ok := c.cache.Get(cacheKey(userID)); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return New()
}

func (c *CacheStore) Set(userID int64, s Session) {
	c.cache.Set(cacheKey(userID), s, cache.DefaultExpiration)
}

// Len counts stored sessions, including expired ones not yet swept.
func (c *CacheStore) Len() int {
	return c.cache.ItemCount()
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
