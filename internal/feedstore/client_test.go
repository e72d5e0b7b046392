package feedstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalfeed/scraper/internal/config"
	"github.com/goalfeed/scraper/internal/logger"
)

func newClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(config.FeedConfig{
		BaseURL:   baseURL,
		APIKey:    "key",
		APISecret: "secret",
		FeedGroup: "goals",
		Timeout:   5 * time.Second,
	}, logger.NewNopLogger())
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresURLAndKey(t *testing.T) {
	_, err := NewClient(config.FeedConfig{APIKey: "key"}, logger.NewNopLogger())
	assert.Error(t, err)

	_, err = NewClient(config.FeedConfig{BaseURL: "http://x"}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestUpsertObject(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	err := client.UpsertObject(context.Background(), "goals", "goal:1_42", map[string]any{"x": 1})
	require.NoError(t, err)

	assert.Equal(t, "PUT /collections/goals/goal:1_42", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "goal:1_42", gotBody["id"])
}

func TestAddActivityDuplicateIsSuccess(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"duplicate activity"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	ctx := context.Background()

	dup, err := client.AddActivity(ctx, "TOR", map[string]any{"foreign_id": "goal:1_42"})
	require.NoError(t, err)
	assert.False(t, dup)

	// Second append of the same activity is reported as a duplicate.
	dup, err = client.AddActivity(ctx, "TOR", map[string]any{"foreign_id": "goal:1_42"})
	require.NoError(t, err)
	assert.True(t, dup)
	assert.Equal(t, 2, calls)
}

func TestAddActivityFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.AddActivity(context.Background(), "TOR", map[string]any{})
	assert.ErrorIs(t, err, ErrActivityFailed)
}

func TestGetActivities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feeds/goals/nhl/activities", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(ActivityPage{
			Results: []map[string]any{{"foreign_id": "goal:1_42"}},
		})
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	page, err := client.GetActivities(context.Background(), "nhl", 25, 0)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "goal:1_42", page.Results[0]["foreign_id"])
}
