// Package feedstore is the HTTP client for the activity feed service: an
// upsertable object collection plus append-only, dedup-aware feeds.
package feedstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goalfeed/scraper/internal/config"
	"github.com/goalfeed/scraper/internal/logger"
)

var (
	// ErrUpsertFailed is returned when a collection upsert fails.
	ErrUpsertFailed = errors.New("collection upsert failed")
	// ErrActivityFailed is returned when a feed append fails.
	ErrActivityFailed = errors.New("feed activity failed")
	// ErrFeedRead is returned when reading a feed fails.
	ErrFeedRead = errors.New("feed read failed")
)

const maxErrorBodyBytes = 4 << 10

// Client talks to the feed store. Both write operations are idempotent on
// the payload's foreign id: repeating a call leaves visible state unchanged.
type Client struct {
	baseURL   string
	apiKey    string
	apiSecret string
	feedGroup string
	client    *http.Client
	logger    logger.Logger
}

// NewClient creates a feed store client from configuration.
func NewClient(cfg config.FeedConfig, log logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("feed store URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("feed store API key is required")
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		feedGroup: cfg.FeedGroup,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    log,
	}, nil
}

// UpsertObject writes the full record for id into the named collection,
// overwriting any existing record. The write is atomic per object: the store
// never exposes a truncated record.
func (c *Client) UpsertObject(ctx context.Context, collection, id string, payload any) error {
	url := fmt.Sprintf("%s/collections/%s/%s", c.baseURL, collection, id)

	status, body, err := c.do(ctx, http.MethodPut, url, map[string]any{
		"id":   id,
		"data": payload,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpsertFailed, err)
	}
	if status != http.StatusOK && status != http.StatusCreated && status != http.StatusNoContent {
		return fmt.Errorf("%w: status %d: %s", ErrUpsertFailed, status, body)
	}
	return nil
}

// AddActivity appends an activity to the feed named by feedID within the
// configured feed group. The store deduplicates on the activity's foreign_id:
// a repeated append is reported as a duplicate, which is success here but is
// surfaced so callers can keep their own counts honest.
func (c *Client) AddActivity(ctx context.Context, feedID string, payload any) (duplicate bool, err error) {
	url := fmt.Sprintf("%s/feeds/%s/%s/activities", c.baseURL, c.feedGroup, feedID)

	status, body, err := c.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrActivityFailed, err)
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		return false, nil
	case status == http.StatusConflict || strings.Contains(strings.ToLower(body), "duplicate"):
		// Already present under this foreign id.
		c.logger.Debug("duplicate activity skipped",
			logger.String("feed", c.feedGroup+":"+feedID),
		)
		return true, nil
	default:
		return false, fmt.Errorf("%w: status %d: %s", ErrActivityFailed, status, body)
	}
}

// ActivityPage is one page of feed activities.
type ActivityPage struct {
	Results []map[string]any `json:"results"`
	Next    string           `json:"next,omitempty"`
}

// GetActivities reads a page of activities from a feed. Used by the read-only
// facade, not by the scrape pipeline.
func (c *Client) GetActivities(ctx context.Context, feedID string, limit, offset int) (*ActivityPage, error) {
	url := fmt.Sprintf("%s/feeds/%s/%s/activities?limit=%d&offset=%d", c.baseURL, c.feedGroup, feedID, limit, offset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedRead, err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedRead, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFeedRead, resp.StatusCode)
	}

	var page ActivityPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrFeedRead, err)
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload any) (int, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return resp.StatusCode, string(respBody), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	if c.apiSecret != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiSecret)
	}
}
