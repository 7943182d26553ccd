package completion

import (
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/zeebo/xxh3"
)

const (
	defaultCacheCapacity = 256
	defaultCacheTTL      = 30 * time.Minute
)

// Fingerprint derives the cache key for a prompt: a 128-bit xxh3 hash of
// the exact prompt bytes rendered as hex. Any byte of difference yields a
// different key, so "similar" prompts never collide.
func Fingerprint(prompt string) string {
	sum := xxh3.HashString128(prompt)
	return fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo)
}

// SuggestionCache maps prompt fingerprints to sanitize-ready suggestion
// lists. Growth is bounded two ways: LRU eviction past the capacity and a
// TTL on every entry. Clear drops everything at once.
type SuggestionCache struct {
	cache *ttlcache.Cache[string, []string]
}

func NewSuggestionCache(capacity uint64, ttl time.Duration) *SuggestionCache {
	if capacity == 0 {
		capacity = defaultCacheCapacity
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cache := ttlcache.New[string, []string](
		ttlcache.WithTTL[string, []string](ttl),
		ttlcache.WithCapacity[string, []string](capacity),
	)
	go cache.Start()
	return &SuggestionCache{cache: cache}
}

func (c *SuggestionCache) Get(prompt string) ([]string, bool) {
	item := c.cache.Get(Fingerprint(prompt))
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (c *SuggestionCache) Put(prompt string, suggestions []string) {
	c.cache.Set(Fingerprint(prompt), suggestions, ttlcache.DefaultTTL)
}

func (c *SuggestionCache) Clear() {
	c.cache.DeleteAll()
}

func (c *SuggestionCache) Len() int {
	return c.cache.Len()
}

// Stop halts the background expiration loop.
func (c *SuggestionCache) Stop() {
	c.cache.Stop()
}
