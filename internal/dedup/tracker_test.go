package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalfeed/scraper/internal/logger"
)

func newTestTracker(t *testing.T) (*Tracker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewTracker(client, time.Hour, logger.NewNopLogger()), mr
}

func TestSeenAfterMark(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	seen, err := tracker.Seen(ctx, "goal:2026020001_42")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, tracker.Mark(ctx, "goal:2026020001_42"))

	seen, err = tracker.Seen(ctx, "goal:2026020001_42")
	require.NoError(t, err)
	assert.True(t, seen)

	// A different goal stays unseen.
	seen, err = tracker.Seen(ctx, "goal:2026020001_43")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMarkSetsTTL(t *testing.T) {
	tracker, mr := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Mark(ctx, "goal:2026020001_42"))

	mr.FastForward(2 * time.Hour)

	seen, err := tracker.Seen(ctx, "goal:2026020001_42")
	require.NoError(t, err)
	assert.False(t, seen, "entry should expire after TTL")
}

func TestSeenFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tracker := NewTracker(client, time.Hour, logger.NewNopLogger())
	mr.Close()

	seen, err := tracker.Seen(context.Background(), "goal:2026020001_42")
	require.NoError(t, err)
	assert.False(t, seen, "redis outage must report unseen, not block publishing")
}
