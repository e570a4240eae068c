package weather

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/yegors/preflight/pkg/logger"
)

// Cache keeps recent briefings per station. Entries expire after the
// configured TTL and the least recently used station is evicted when full.
type Cache struct {
	lru    *expirable.LRU[string, *Briefing]
	ttl    time.Duration
	logger *logger.Logger
}

// NewCache creates a new briefing cache
func NewCache(config Config, logger *logger.Logger) *Cache {
	ttl := time.Duration(config.CacheExpiryMinutes) * time.Minute
	size := config.CacheSize
	if size <= 0 {
		size = DefaultConfig().CacheSize
	}

	return &Cache{
		lru:    expirable.NewLRU[string, *Briefing](size, nil, ttl),
		ttl:    ttl,
		logger: logger.Named("weather-cache"),
	}
}

// Get returns the cached briefing for a station, if still fresh
func (c *Cache) Get(station string) (*Briefing, bool) {
	return c.lru.Get(station)
}

// Set stores a briefing
func (c *Cache) Set(station string, b *Briefing) {
	c.lru.Add(station, b)

	c.logger.Debug("Weather data cached",
		logger.String("station", station),
		logger.Time("last_updated", b.LastUpdated),
		logger.Time("expires_at", b.LastUpdated.Add(c.ttl)),
		logger.Int("error_count", len(b.FetchErrors)))
}

// Remove drops a station from the cache
func (c *Cache) Remove(station string) {
	c.lru.Remove(station)
}

// Len returns the number of cached stations
func (c *Cache) Len() int {
	return c.lru.Len()
}
