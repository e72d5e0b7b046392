package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goalfeed/scraper/internal/logger"
)

// HTTPStore is a BlobStore backed by an object-storage HTTP endpoint:
// GET /{key} reads a blob, PUT /{key} replaces it.
type HTTPStore struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

// NewHTTPStore creates an HTTPStore rooted at baseURL.
func NewHTTPStore(baseURL string, timeout time.Duration, log logger.Logger) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// Get implements BlobStore.
func (s *HTTPStore) Get(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+key, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("get %s: read body: %w", key, err)
		}
		return data, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("get %s: %w", key, ErrNotFound)
	default:
		return nil, fmt.Errorf("get %s: status %d", key, resp.StatusCode)
	}
}

// Put implements BlobStore.
func (s *HTTPStore) Put(ctx context.Context, key string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.baseURL+"/"+key, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("put %s: status %d", key, resp.StatusCode)
	}
	return nil
}
