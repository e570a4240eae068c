package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/yegors/preflight/pkg/logger"
)

// ErrNoData is returned when the API answers successfully but has no record for the station
var ErrNoData = errors.New("no data")

// Client handles HTTP requests to the aviationweather.gov data API
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new weather API client
func NewClient(config Config, logger *logger.Logger) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
		},
		logger: logger.Named("weather-client"),
	}
}

// FetchMETAR fetches the latest METAR for the specified airport
func (c *Client) FetchMETAR(ctx context.Context, airportCode string) (*METARResponse, error) {
	var result []METARResponse // API returns an array
	if err := c.fetchWithRetry(ctx, c.endpoint("metar", airportCode), WeatherTypeMETAR, airportCode, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no METAR for %s", ErrNoData, airportCode)
	}
	return &result[0], nil
}

// FetchTAF fetches the current TAF for the specified airport
func (c *Client) FetchTAF(ctx context.Context, airportCode string) (*TAFResponse, error) {
	var result []TAFResponse
	if err := c.fetchWithRetry(ctx, c.endpoint("taf", airportCode), WeatherTypeTAF, airportCode, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no TAF for %s", ErrNoData, airportCode)
	}
	return &result[0], nil
}

// FetchAirport fetches static airport data (elevation, position, runways)
func (c *Client) FetchAirport(ctx context.Context, airportCode string) (*AirportResponse, error) {
	var result []AirportResponse
	if err := c.fetchWithRetry(ctx, c.endpoint("airport", airportCode), WeatherTypeStation, airportCode, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no airport record for %s", ErrNoData, airportCode)
	}
	return &result[0], nil
}

func (c *Client) endpoint(path, airportCode string) string {
	q := url.Values{}
	q.Set("ids", airportCode)
	q.Set("format", "json")
	return fmt.Sprintf("%s/%s?%s", c.config.APIBaseURL, path, q.Encode())
}

// fetchWithRetry performs HTTP request with retry logic and exponential backoff
func (c *Client) fetchWithRetry(ctx context.Context, reqURL string, weatherType WeatherType, airportCode string, target any) error {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoffDuration := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			c.logger.Info("Retrying weather data fetch",
				logger.String("type", string(weatherType)),
				logger.String("airport", airportCode),
				logger.Int("attempt", attempt),
				logger.Duration("backoff", backoffDuration))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffDuration):
			}
		}

		retry, err := c.fetchOnce(ctx, reqURL, target)
		if err == nil {
			if attempt > 0 {
				c.logger.Info("Successfully fetched weather data after retries",
					logger.String("type", string(weatherType)),
					logger.String("airport", airportCode),
					logger.Int("attempts_needed", attempt+1))
			}
			return nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("Weather API request failed",
			logger.String("type", string(weatherType)),
			logger.String("airport", airportCode),
			logger.Error(err),
			logger.Int("attempt", attempt+1),
			logger.Int("max_attempts", c.config.MaxRetries+1),
			logger.Bool("retryable", retry))
		if !retry {
			break
		}
	}

	c.logger.Error("All attempts to fetch weather data failed",
		logger.String("type", string(weatherType)),
		logger.String("airport", airportCode),
		logger.Error(lastErr))
	return lastErr
}

// fetchOnce makes a single request. It reports whether a failure is worth retrying.
func (c *Client) fetchOnce(ctx context.Context, reqURL string, target any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("error building weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("error making request to weather API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		// The API answers 204 for unknown stations
		return false, fmt.Errorf("%w: empty response", ErrNoData)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return true, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return true, fmt.Errorf("error decoding weather data: %w", err)
	}
	return false, nil
}
