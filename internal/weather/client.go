package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jordandelaney/METAR-Vibe/internal/config"
	"github.com/jordandelaney/METAR-Vibe/internal/observability"
	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
)

const userAgent = "METAR-Vibe/1.0 (github.com/jordandelaney/METAR-Vibe)"

// Client fetches raw METAR and TAF text from the aviation weather API
type Client struct {
	cfg        config.WeatherConfig
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *logger.Logger
}

// NewClient creates a new weather API client
func NewClient(cfg config.WeatherConfig, metrics *observability.Metrics, log *logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		metrics: metrics,
		logger:  log.Named("weather-client"),
	}
}

// FetchMETAR fetches the latest raw METAR for the station. An empty string
// with a nil error means the station has no current METAR.
func (c *Client) FetchMETAR(ctx context.Context, station string) (string, error) {
	url := fmt.Sprintf("%s/metar?ids=%s&format=raw", c.cfg.APIBaseURL, station)

	body, err := c.fetchWithRetry(ctx, url, "metar", station)
	if err != nil {
		return "", err
	}

	// The API may return several observations, newest first
	return firstLine(body), nil
}

// FetchTAF fetches the raw TAF for the station. The API wraps a TAF across
// lines, so the whole body is collapsed back into one report. An empty
// string with a nil error means no TAF has been issued.
func (c *Client) FetchTAF(ctx context.Context, station string) (string, error) {
	url := fmt.Sprintf("%s/taf?ids=%s&format=raw", c.cfg.APIBaseURL, station)

	body, err := c.fetchWithRetry(ctx, url, "taf", station)
	if err != nil {
		return "", err
	}

	return collapseLines(body), nil
}

// fetchWithRetry performs an HTTP request with retry logic and exponential backoff
func (c *Client) fetchWithRetry(ctx context.Context, url, kind, station string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff between retries
			backoff := time.Duration(c.cfg.RetryDelayMs*(1<<uint(attempt-1))) * time.Millisecond
			c.logger.Info("Retrying weather fetch",
				logger.String("kind", kind),
				logger.String("station", station),
				logger.Int("attempt", attempt),
				logger.String("backoff", backoff.String()))

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", fmt.Errorf("failed to build weather API request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		c.metrics.UpstreamDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		if err != nil {
			lastErr = fmt.Errorf("error making request to weather API: %w", err)
			c.logger.Warn("Weather API request failed, may retry",
				logger.String("kind", kind),
				logger.String("station", station),
				logger.Error(err),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.cfg.MaxRetries+1))
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			c.logger.Warn("Weather API returned non-OK status, may retry",
				logger.String("kind", kind),
				logger.String("station", station),
				logger.Int("status_code", resp.StatusCode),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.cfg.MaxRetries+1))
			continue
		}
		if readErr != nil {
			lastErr = fmt.Errorf("error reading weather API response: %w", readErr)
			c.logger.Warn("Failed to read weather API response, may retry",
				logger.String("kind", kind),
				logger.String("station", station),
				logger.Error(readErr),
				logger.Int("attempt", attempt+1))
			continue
		}

		text := strings.TrimSpace(string(body))
		if text == "" {
			c.metrics.UpstreamRequests.WithLabelValues(kind, "empty").Inc()
		} else {
			c.metrics.UpstreamRequests.WithLabelValues(kind, "success").Inc()
		}
		if attempt > 0 {
			c.logger.Info("Successfully fetched weather data after retries",
				logger.String("kind", kind),
				logger.String("station", station),
				logger.Int("attempts_needed", attempt+1))
		}
		return text, nil
	}

	c.metrics.UpstreamRequests.WithLabelValues(kind, "error").Inc()
	c.logger.Error("All attempts to fetch weather data failed",
		logger.String("kind", kind),
		logger.String("station", station),
		logger.Error(lastErr),
		logger.Int("max_attempts", c.cfg.MaxRetries+1))
	return "", lastErr
}

// firstLine returns the first non-empty line of body.
func firstLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// collapseLines flattens a report wrapped across lines into a single
// space-separated string.
func collapseLines(body string) string {
	return strings.Join(strings.Fields(body), " ")
}
