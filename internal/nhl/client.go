// Package nhl is the HTTP client for the league's schedule and game-detail
// API. It is the pipeline's Schedule Source and Game Detail Source.
package nhl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goalfeed/scraper/internal/config"
	"github.com/goalfeed/scraper/internal/logger"
)

var (
	// ErrSourceUnavailable is returned when the API cannot be reached or
	// keeps failing after retries.
	ErrSourceUnavailable = errors.New("nhl api unavailable")
	// ErrUnexpectedStatus is returned on a non-retryable HTTP status.
	ErrUnexpectedStatus = errors.New("nhl api unexpected status")
)

const (
	maxResponseBytes = 16 << 20
	initialBackoff   = 250 * time.Millisecond
)

// Client calls the NHL api-web endpoints with bounded retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	logger     logger.Logger
	requests   *prometheus.CounterVec
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.NHLConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		logger:     log,
	}
}

// SetRequestCounter attaches a counter with endpoint and outcome labels,
// incremented once per logical request after retries resolve.
func (c *Client) SetRequestCounter(counter *prometheus.CounterVec) {
	c.requests = counter
}

// GetSchedule fetches the schedule around the given date (YYYY-MM-DD).
func (c *Client) GetSchedule(ctx context.Context, date string) (*ScheduleResponse, error) {
	var out ScheduleResponse
	if err := c.getJSON(ctx, "schedule", fmt.Sprintf("%s/schedule/%s", c.baseURL, date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPlayByPlay fetches a game's event list and roster.
func (c *Client) GetPlayByPlay(ctx context.Context, gameID int) (*PlayByPlayResponse, error) {
	var out PlayByPlayResponse
	if err := c.getJSON(ctx, "play-by-play", fmt.Sprintf("%s/gamecenter/%d/play-by-play", c.baseURL, gameID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGameLanding fetches a game's landing summary, used as the fallback
// source for video clip identifiers.
func (c *Client) GetGameLanding(ctx context.Context, gameID int) (*LandingResponse, error) {
	var out LandingResponse
	if err := c.getJSON(ctx, "landing", fmt.Sprintf("%s/gamecenter/%d/landing", c.baseURL, gameID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// getJSON performs a GET with exponential backoff on transient failures.
// 4xx responses are terminal; network errors and 5xx are retried.
func (c *Client) getJSON(ctx context.Context, endpoint, url string, out any) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Debug("request failed, will retry",
				logger.String("url", url),
				logger.Error(err),
			)
			return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			if readErr != nil {
				return fmt.Errorf("%w: %w", ErrSourceUnavailable, readErr)
			}
			if unmarshalErr := json.Unmarshal(body, out); unmarshalErr != nil {
				return backoff.Permanent(fmt.Errorf("decode response: %w", unmarshalErr))
			}
			return nil
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialBackoff
	policy := backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(c.maxRetries)),
		ctx,
	)

	err := backoff.Retry(operation, policy)
	c.countRequest(endpoint, err)
	return err
}

func (c *Client) countRequest(endpoint string, err error) {
	if c.requests == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.requests.WithLabelValues(endpoint, outcome).Inc()
}
