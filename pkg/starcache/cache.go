// Package starcache provides the bounded, expiring store of star-status
// answers keyed by credential and repository. Entries expire after a TTL
// measured against an injectable clock, and the least recently used entry is
// evicted when the cache is full.
package starcache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agentstation/stargazer/pkg/constants"
	"github.com/agentstation/stargazer/pkg/errors"
)

// Key identifies one cached star-status answer. Credential is a digest of the
// caller's token so raw tokens are never held by the cache.
type Key struct {
	Credential string
	Owner      string
	Repo       string
}

// NewKey builds a Key for token and the owner/repo pair. Owner and repo are
// case-folded because the upstream treats them case-insensitively.
func NewKey(token, owner, repo string) Key {
	sum := sha256.Sum256([]byte(token))
	return Key{
		Credential: hex.EncodeToString(sum[:]),
		Owner:      strings.ToLower(owner),
		Repo:       strings.ToLower(repo),
	}
}

type entry struct {
	value     bool
	expiresAt time.Time
}

// Stats are cumulative cache counters plus the current entry count.
type Stats struct {
	Entries     int    `json:"entries"`
	Capacity    int    `json:"capacity"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Expirations uint64 `json:"expirations"`
	Evictions   uint64 `json:"evictions"`
}

// Cache is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	store    *lru.Cache[Key, entry]
	ttl      time.Duration
	capacity int
	now      func() time.Time

	hits        uint64
	misses      uint64
	expirations uint64
	evictions   uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity sets the maximum number of entries.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		c.capacity = n
	}
}

// WithTTL sets how long an entry stays visible after it is written.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock replaces the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a cache. Capacity and TTL default to 100 entries and one hour.
func New(opts ...Option) (*Cache, error) {
	c := &Cache{
		capacity: constants.StarCacheCapacity,
		ttl:      constants.StarCacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.capacity <= 0 {
		return nil, errors.NewConfigError("star cache", "capacity must be positive", nil)
	}
	if c.ttl <= 0 {
		return nil, errors.NewConfigError("star cache", "ttl must be positive", nil)
	}

	store, err := lru.New[Key, entry](c.capacity)
	if err != nil {
		return nil, errors.NewConfigError("star cache", "failed to create store", err)
	}
	c.store = store
	return c, nil
}

// Get returns the cached value for key. Expired entries are removed and
// reported as absent. A hit marks the entry as recently used.
func (c *Cache) Get(key Key) (value bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.store.Get(key)
	if !found {
		c.misses++
		return false, false
	}
	if !c.now().Before(e.expiresAt) {
		c.store.Remove(key)
		c.expirations++
		c.misses++
		return false, false
	}
	c.hits++
	return e.value, true
}

// Set stores value for key with a fresh expiry, replacing any previous value.
// When the cache is full the least recently used entry is evicted.
func (c *Cache) Set(key Key, value bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if evicted := c.store.Add(key, entry{value: value, expiresAt: c.now().Add(c.ttl)}); evicted {
		c.evictions++
	}
}

// Invalidate removes key if present.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Remove(key)
}

// Len returns the number of stored entries, including ones that have expired
// but not yet been read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Len()
}

// Purge removes every entry. Counters are kept.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Purge()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:     c.store.Len(),
		Capacity:    c.capacity,
		Hits:        c.hits,
		Misses:      c.misses,
		Expirations: c.expirations,
		Evictions:   c.evictions,
	}
}
