package rechtspraak

import (
	"net/url"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached payload stays servable.
const DefaultCacheTTL = 5 * time.Minute

// cacheEntry holds one cached payload. Entries are immutable once stored.
type cacheEntry struct {
	payload  []byte
	etag     string
	storedAt time.Time
}

// ttlCache is a mutex-guarded in-memory cache with lazy expiry: a stale
// entry is evicted on the next lookup for its key, never by a background
// sweeper. Call volume is low enough that coarse locking suffices.
type ttlCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ttlCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// get returns the cached payload and validation tag for key. An entry
// older than the TTL is evicted and reported as a miss. The returned
// slice is the caller's own copy; mutating it cannot corrupt the entry.
func (c *ttlCache) get(key string) ([]byte, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, "", false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, "", false
	}
	return copyBytes(entry.payload), entry.etag, true
}

// put stores a payload unconditionally, overwriting any stale entry.
// The payload is copied, so the caller keeps ownership of its slice.
func (c *ttlCache) put(key string, payload []byte, etag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		payload:  copyBytes(payload),
		etag:     etag,
		storedAt: c.now(),
	}
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// size returns the number of entries currently held, expired or not.
func (c *ttlCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// clear drops every entry.
func (c *ttlCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// cacheKey derives the request identity: path plus the canonical
// serialization of its parameters. url.Values.Encode sorts by key, so two
// maps with the same pairs always produce the same key.
func cacheKey(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, v)
	}
	return path + "?" + values.Encode()
}
