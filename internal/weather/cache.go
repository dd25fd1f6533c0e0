package weather

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mohae/deepcopy"

	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
)

// Cache holds fetched station weather with per-station expiry. Entries are
// stored and handed out as deep copies so callers can never mutate the
// cached snapshot.
type Cache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	clock   clockwork.Clock
	logger  *logger.Logger
	mu      sync.RWMutex
}

type cacheEntry struct {
	data      *StationWeather
	expiresAt time.Time
}

// NewCache creates a new station weather cache
func NewCache(ttl time.Duration, clock clockwork.Clock, log *logger.Logger) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		clock:   clock,
		logger:  log.Named("weather-cache"),
	}
}

// Get returns a copy of the cached weather for the station, or nil when the
// station is unknown or its entry has expired.
func (c *Cache) Get(station string) *StationWeather {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[station]
	if !ok {
		return nil
	}
	if c.clock.Now().After(entry.expiresAt) {
		return nil
	}

	return deepcopy.Copy(entry.data).(*StationWeather)
}

// Set stores a copy of the weather for a station, resetting its expiry.
// Later writes to the caller's object never reach the cache.
func (c *Cache) Set(data *StationWeather) {
	stored := deepcopy.Copy(data).(*StationWeather)

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	c.entries[data.Station] = cacheEntry{data: stored, expiresAt: expiresAt}

	c.logger.Debug("Weather data cached",
		logger.String("station", data.Station),
		logger.Time("expires_at", expiresAt))
}

// peek returns the stored entry even when expired, without copying. Used
// for change detection during background refresh.
func (c *Cache) peek(station string) *StationWeather {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[station]
	if !ok {
		return nil
	}
	return entry.data
}

// Len returns the number of cached stations, expired entries included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
