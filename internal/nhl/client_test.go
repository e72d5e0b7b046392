package nhl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalfeed/scraper/internal/config"
	"github.com/goalfeed/scraper/internal/logger"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.NHLConfig{
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		MaxRetries: 3,
	}, logger.NewNopLogger())
}

const scheduleBody = `{
	"gameWeek": [
		{
			"date": "2026-03-01",
			"games": [
				{
					"id": 2026020001,
					"gameState": "FINAL",
					"homeTeam": {"id": 10, "abbrev": "TOR"},
					"awayTeam": {"id": 8, "abbrev": "MTL"}
				}
			]
		},
		{"date": "2026-03-02", "games": []}
	]
}`

func TestGetSchedule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedule/2026-03-01", r.URL.Path)
		_, _ = w.Write([]byte(scheduleBody))
	}))
	defer server.Close()

	schedule, err := newTestClient(server.URL).GetSchedule(context.Background(), "2026-03-01")
	require.NoError(t, err)

	games := schedule.GamesOn("2026-03-01")
	require.Len(t, games, 1)
	assert.Equal(t, 2026020001, games[0].ID)
	assert.Equal(t, "TOR", games[0].HomeTeam.Abbrev)

	assert.Empty(t, schedule.GamesOn("2026-03-03"))
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(scheduleBody))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetSchedule(context.Background(), "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetPlayByPlay(context.Background(), 2026020001)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, 1, attempts)
}

func TestGetJSONExhaustedRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetSchedule(context.Background(), "2026-03-01")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestClipIDAcceptsBothShapes(t *testing.T) {
	var play Play
	require.NoError(t, play.HighlightClip.UnmarshalJSON([]byte(`123`)))
	assert.Equal(t, int64(123), play.HighlightClip.Default)

	require.NoError(t, play.DiscreteClip.UnmarshalJSON([]byte(`{"default": 456, "fr": 789}`)))
	assert.Equal(t, int64(456), play.DiscreteClip.Default)
	assert.Equal(t, int64(789), play.DiscreteClip.FR)
}

func TestLandingClipLookup(t *testing.T) {
	var landing LandingResponse
	landing.Summary.Scoring = []LandingPeriod{
		{Goals: []LandingGoal{{EventID: 10, HighlightClip: ClipID{Default: 1}}}},
		{Goals: []LandingGoal{{EventID: 20, HighlightClip: ClipID{Default: 2}}}},
	}

	lookup := landing.ClipLookup()
	require.Len(t, lookup, 2)
	assert.Equal(t, int64(2), lookup[20].HighlightClip.Default)
}
