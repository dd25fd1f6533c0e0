package weather

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"

	"github.com/jordandelaney/METAR-Vibe/internal/config"
	"github.com/jordandelaney/METAR-Vibe/internal/observability"
	"github.com/jordandelaney/METAR-Vibe/internal/wx"
	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
)

// Service fetches, decodes, and caches station weather. Looked-up stations
// join a bounded tracked set that a background goroutine re-fetches on an
// interval, broadcasting changes to connected clients.
type Service struct {
	cfg      config.WeatherConfig
	client   *Client
	cache    *Cache
	searches SearchRecorder
	hub      Broadcaster
	metrics  *observability.Metrics
	clock    clockwork.Clock
	logger   *logger.Logger

	// Service lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex

	// Stations refreshed in the background, by last lookup time
	tracked   map[string]time.Time
	trackedMu sync.Mutex
}

// NewService creates a new weather service
func NewService(cfg config.WeatherConfig, searches SearchRecorder, hub Broadcaster, metrics *observability.Metrics, clock clockwork.Clock, log *logger.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		cfg:      cfg,
		client:   NewClient(cfg, metrics, log),
		cache:    NewCache(time.Duration(cfg.CacheTTLMinutes)*time.Minute, clock, log),
		searches: searches,
		hub:      hub,
		metrics:  metrics,
		clock:    clock,
		logger:   log.Named("weather-service"),
		ctx:      ctx,
		cancel:   cancel,
		tracked:  make(map[string]time.Time),
	}
}

// Start begins the background refresh of tracked stations
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil // Already started
	}

	s.logger.Info("Starting weather service",
		logger.Int("refresh_interval_minutes", s.cfg.RefreshIntervalMinutes),
		logger.Int("max_tracked_stations", s.cfg.MaxTrackedStations))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.backgroundRefresh()
	}()

	s.started = true
	return nil
}

// Stop gracefully shuts down the weather service
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil // Already stopped
	}

	s.logger.Info("Stopping weather service")

	// Cancel context to signal goroutines to stop
	s.cancel()

	// Wait for all goroutines to finish
	s.wg.Wait()

	s.started = false
	s.logger.Info("Weather service stopped")
	return nil
}

// Lookup returns the decoded weather for a station, serving from cache when
// fresh and fetching otherwise. Successful lookups are recorded in the
// search history and add the station to the tracked set.
func (s *Service) Lookup(ctx context.Context, station string) (*StationWeather, error) {
	data := s.cache.Get(station)
	if data != nil {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		s.logger.Debug("Serving weather from cache", logger.String("station", station))
	} else {
		if s.cache.peek(station) != nil {
			s.metrics.CacheLookups.WithLabelValues("expired").Inc()
		} else {
			s.metrics.CacheLookups.WithLabelValues("miss").Inc()
		}

		fetched, err := s.fetch(ctx, station)
		if err != nil {
			s.metrics.LookupErrors.Inc()
			return nil, err
		}
		s.cache.Set(fetched)
		data = fetched
	}

	s.track(station)
	s.metrics.LookupsTotal.WithLabelValues(data.FlightCategory).Inc()

	if err := s.searches.RecordSearch(data.Station, data.FlightCategory, s.clock.Now()); err != nil {
		// History is best-effort; the lookup response still stands
		s.logger.Warn("Failed to record search",
			logger.String("station", data.Station),
			logger.Error(err))
	}

	return s.withAge(data), nil
}

// fetch pulls both reports for a station and decodes them into a snapshot
func (s *Service) fetch(ctx context.Context, station string) (*StationWeather, error) {
	var (
		rawMETAR, rawTAF string
		metarErr, tafErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		rawMETAR, metarErr = s.client.FetchMETAR(ctx, station)
	}()
	go func() {
		defer wg.Done()
		rawTAF, tafErr = s.client.FetchTAF(ctx, station)
	}()
	wg.Wait()

	if metarErr != nil {
		return nil, fmt.Errorf("failed to fetch METAR for %s: %w", station, metarErr)
	}
	if rawMETAR == "" {
		return nil, fmt.Errorf("no METAR found for %s", station)
	}
	if tafErr != nil {
		// Lookups degrade to METAR-only when the TAF fetch fails
		s.logger.Warn("Failed to fetch TAF, continuing without forecast",
			logger.String("station", station),
			logger.Error(tafErr))
		rawTAF = ""
	}

	cls := wx.Classify(rawMETAR)

	return &StationWeather{
		Station:          station,
		RawMETAR:         rawMETAR,
		RawTAF:           rawTAF,
		FlightCategory:   string(cls.Category),
		VisibilitySM:     cls.VisibilitySM,
		CeilingFt:        cls.CeilingFt,
		METARTranslation: wx.TranslateMETAR(rawMETAR),
		TAFTranslation:   wx.TranslateTAF(rawTAF),
		FetchedAt:        s.clock.Now().UTC(),
	}, nil
}

// track adds a station to the background refresh set, evicting the station
// with the oldest lookup when the set is full.
func (s *Service) track(station string) {
	s.trackedMu.Lock()
	defer s.trackedMu.Unlock()

	if _, ok := s.tracked[station]; !ok && len(s.tracked) >= s.cfg.MaxTrackedStations {
		s.evictOldestLocked()
	}
	s.tracked[station] = s.clock.Now()

	s.metrics.TrackedStations.Set(float64(len(s.tracked)))
}

// evictOldestLocked removes the least recently looked up station. Caller
// must hold trackedMu.
func (s *Service) evictOldestLocked() {
	var oldest string
	var oldestAt time.Time
	for id, at := range s.tracked {
		if oldest == "" || at.Before(oldestAt) {
			oldest, oldestAt = id, at
		}
	}
	if oldest != "" {
		delete(s.tracked, oldest)
		s.logger.Debug("Evicted station from tracked set", logger.String("station", oldest))
	}
}

// trackedStations returns the tracked set in stable order
func (s *Service) trackedStations() []string {
	s.trackedMu.Lock()
	defer s.trackedMu.Unlock()

	stations := make([]string, 0, len(s.tracked))
	for id := range s.tracked {
		stations = append(stations, id)
	}
	sort.Strings(stations)
	return stations
}

// backgroundRefresh runs the periodic re-fetch of tracked stations
func (s *Service) backgroundRefresh() {
	interval := time.Duration(s.cfg.RefreshIntervalMinutes) * time.Minute
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Background weather refresh started",
		logger.String("interval", interval.String()))

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Background weather refresh stopped")
			return
		case <-ticker.Chan():
			s.refreshTracked()
		}
	}
}

// refreshTracked re-fetches every tracked station and broadcasts the
// stations whose reports changed.
func (s *Service) refreshTracked() {
	stations := s.trackedStations()
	if len(stations) == 0 {
		return
	}

	s.logger.Debug("Refreshing tracked stations", logger.Int("count", len(stations)))
	s.metrics.RefreshCycles.Inc()

	for _, station := range stations {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		data, err := s.fetch(s.ctx, station)
		if err != nil {
			// Refresh failures are logged and skipped, never fatal
			s.logger.Warn("Background refresh failed",
				logger.String("station", station),
				logger.Error(err))
			continue
		}

		prev := s.cache.peek(station)
		changed := prev == nil || prev.RawMETAR != data.RawMETAR || prev.RawTAF != data.RawTAF
		s.cache.Set(data)

		if changed && s.hub != nil {
			s.logger.Info("Station weather changed, broadcasting",
				logger.String("station", station),
				logger.String("flight_category", data.FlightCategory))
			s.hub.BroadcastWeather(s.withAge(data))
		}
	}
}

// withAge stamps the snapshot with a human-relative fetch age
func (s *Service) withAge(data *StationWeather) *StationWeather {
	data.Age = humanize.RelTime(data.FetchedAt, s.clock.Now(), "ago", "from now")
	return data
}
