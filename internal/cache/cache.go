package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long fetched channel/video data stays valid.
const DefaultTTL = 5 * time.Minute

type entry struct {
	data      any
	timestamp time.Time
}

// Cache is a session-scoped in-memory TTL cache. Entries are immutable once
// written (overwritten wholesale, never mutated) and evicted lazily on read.
// Construct one per process and inject it; there is no global instance.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time

	// group collapses concurrent identical in-flight fetches into one
	// shared call, dropping the key on completion so later calls re-fetch.
	group singleflight.Group
}

// New creates a cache with the given TTL (DefaultTTL when zero).
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewWithClock creates a cache with an injected clock, for tests.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	c := New(ttl)
	c.now = now
	return c
}

// Get returns the cached value for key, or nil when absent or expired.
// Expired entries are deleted on read.
func (c *Cache) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.now().Sub(e.timestamp) > c.ttl {
		delete(c.entries, key)
		return nil
	}
	return e.data
}

// Set stores a value under key, replacing any previous entry.
func (c *Cache) Set(key string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: data, timestamp: c.now()}
}

// Delete removes a single key. Reports whether an entry existed.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// DeleteByPrefix removes every key starting with prefix and returns the count.
func (c *Cache) DeleteByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	deleted := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			deleted++
		}
	}
	return deleted
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Stats returns the current entry count and keys, for debugging.
func (c *Cache) Stats() (size int, keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys = make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return len(c.entries), keys
}

// Deduped runs fn once per key among concurrent callers; every caller with
// the same key receives the same result. The key is forgotten as soon as the
// call completes, success or failure.
func (c *Cache) Deduped(key string, fn func() (any, error)) (any, error) {
	v, err, _ := c.group.Do(key, fn)
	return v, err
}

// Cache key helpers.

func ChannelIDKey(channelURL string) string {
	return fmt.Sprintf("channel:id:%s", channelURL)
}

func ChannelInfoKey(channelID string) string {
	return fmt.Sprintf("channel:info:%s", channelID)
}

func ChannelVideosKey(channelID string) string {
	return fmt.Sprintf("channel:videos:%s", channelID)
}

func ChannelVideosPageKey(channelID, pageToken string) string {
	return fmt.Sprintf("channel:videos:%s:%s", channelID, pageToken)
}

func ChannelStatsKey(channelID string) string {
	return fmt.Sprintf("channel:stats:%s", channelID)
}
