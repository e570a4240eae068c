package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yegors/preflight/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// ErrStationNotFound is returned when neither the API nor the built-in data know a station
var ErrStationNotFound = errors.New("station not found")

// Service fetches, normalizes and caches weather briefings per station
type Service struct {
	config Config
	client *Client
	cache  *Cache
	logger *logger.Logger
	now    func() time.Time

	// Called after a watched station is refreshed in the background
	onUpdate func(*Briefing)
	hookMu   sync.Mutex

	// Service lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex
}

// NewService creates a new weather service
func NewService(config Config, logger *logger.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		config: config,
		client: NewClient(config, logger),
		cache:  NewCache(config, logger),
		logger: logger.Named("weather-service"),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins refreshing the watched stations in the background
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info("Starting weather service",
		logger.Int("watched_stations", len(s.config.WatchStations)),
		logger.Int("refresh_interval_minutes", s.config.RefreshIntervalMinutes))

	if len(s.config.WatchStations) > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.backgroundRefresh()
		}()
	}

	s.started = true
	return nil
}

// Stop gracefully shuts down the weather service
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info("Stopping weather service")
	s.cancel()
	s.wg.Wait()

	s.started = false
	s.logger.Info("Weather service stopped")
	return nil
}

// SetUpdateCallback registers fn to receive every background refresh of a watched station
func (s *Service) SetUpdateCallback(fn func(*Briefing)) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.onUpdate = fn
}

// Briefing returns the cached briefing for a station, fetching it when missing or expired
func (s *Service) Briefing(ctx context.Context, station string) (*Briefing, error) {
	ident := NormalizeIdent(station)
	if ident == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrStationNotFound)
	}

	if b, ok := s.cache.Get(ident); ok {
		return b, nil
	}
	return s.Refresh(ctx, ident)
}

// Refresh fetches a fresh briefing for a station and caches it
func (s *Service) Refresh(ctx context.Context, station string) (*Briefing, error) {
	ident := NormalizeIdent(station)
	startTime := time.Now()

	b, err := s.fetch(ctx, ident)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ident, b)

	s.logger.Info("Weather data fetch completed",
		logger.String("station", ident),
		logger.Duration("duration", time.Since(startTime)),
		logger.Int("error_count", len(b.FetchErrors)))
	return b, nil
}

// Locate resolves a station's position. Cached and built-in data are used
// before the airport endpoint is queried.
func (s *Service) Locate(ctx context.Context, ident string) (lat, lon float64, ok bool) {
	ident = NormalizeIdent(ident)

	if b, cached := s.cache.Get(ident); cached && b.Station != nil {
		return b.Station.Lat, b.Station.Lon, true
	}
	if st, known := LookupStation(ident); known {
		return st.Lat, st.Lon, true
	}

	a, err := s.client.FetchAirport(ctx, ident)
	if err != nil {
		s.logger.Debug("Failed to locate station",
			logger.String("station", ident),
			logger.Error(err))
		return 0, 0, false
	}
	st := StationFromAirport(a)
	// (0, 0) means the endpoint had no position for it
	if st.Lat == 0 && st.Lon == 0 {
		return 0, 0, false
	}
	return st.Lat, st.Lon, true
}

// fetch queries airport, METAR and TAF concurrently. Individual failures are
// recorded in FetchErrors; only a station nobody knows is an error.
func (s *Service) fetch(ctx context.Context, ident string) (*Briefing, error) {
	var (
		airport *AirportResponse
		metar   *METARResponse
		taf     *TAFResponse
		errs    []string
		mu      sync.Mutex
	)
	record := func(kind string, err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, fmt.Sprintf("%s: %s", kind, err.Error()))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.client.FetchAirport(gctx, ident)
		if err != nil {
			record("Station", err)
			return nil
		}
		airport = a
		return nil
	})
	if s.config.FetchMETAR {
		g.Go(func() error {
			m, err := s.client.FetchMETAR(gctx, ident)
			if err != nil {
				record("METAR", err)
				return nil
			}
			metar = m
			return nil
		})
	}
	if s.config.FetchTAF {
		g.Go(func() error {
			t, err := s.client.FetchTAF(gctx, ident)
			if err != nil {
				record("TAF", err)
				return nil
			}
			taf = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	b := &Briefing{
		LastUpdated: now,
		FetchErrors: errs,
		METAR:       NormalizeMETAR(metar),
		Forecast:    SelectForecast(taf, now),
		taf:         taf,
	}

	if airport != nil {
		st := StationFromAirport(airport)
		b.Station = &st
	} else if st, ok := LookupStation(ident); ok {
		b.Station = &st
	}

	if b.Station == nil && b.METAR == nil && b.Forecast == nil {
		return nil, fmt.Errorf("%w: %s", ErrStationNotFound, ident)
	}

	if b.Station != nil && b.METAR != nil {
		if rwy, ok := BestRunway(b.METAR.WindDir, b.Station.Runways); ok {
			b.BestRunway = &rwy
		}
	}

	return b, nil
}

// backgroundRefresh keeps the watched stations warm in the cache
func (s *Service) backgroundRefresh() {
	refreshInterval := time.Duration(s.config.RefreshIntervalMinutes) * time.Minute
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	s.logger.Info("Background weather refresh started",
		logger.Duration("interval", refreshInterval))

	s.refreshWatched()
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Background weather refresh stopped")
			return
		case <-ticker.C:
			s.logger.Debug("Periodic weather refresh triggered")
			s.refreshWatched()
		}
	}
}

func (s *Service) refreshWatched() {
	for _, station := range s.config.WatchStations {
		if s.ctx.Err() != nil {
			return
		}
		b, err := s.Refresh(s.ctx, station)
		if err != nil {
			s.logger.Warn("Failed to refresh watched station",
				logger.String("station", station),
				logger.Error(err))
			continue
		}

		s.hookMu.Lock()
		onUpdate := s.onUpdate
		s.hookMu.Unlock()
		if onUpdate != nil {
			onUpdate(b)
		}
	}
}

// ValidateConfig validates the weather service configuration
func ValidateConfig(config Config) error {
	if config.APIBaseURL == "" {
		return fmt.Errorf("api_base_url cannot be empty")
	}

	if config.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be greater than 0")
	}

	if config.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be 0 or greater")
	}

	if config.CacheExpiryMinutes <= 0 {
		return fmt.Errorf("cache_expiry_minutes must be greater than 0")
	}

	if config.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be greater than 0")
	}

	if len(config.WatchStations) > 0 && config.RefreshIntervalMinutes <= 0 {
		return fmt.Errorf("refresh_interval_minutes must be greater than 0 when watch_stations is set")
	}

	return nil
}
