// Package dedup tracks which goals have already been published so repeat
// scrapes of the same date skip uploads they have done before.
package dedup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goalfeed/scraper/internal/logger"
)

const keyPrefix = "published:"

// Tracker remembers published goal external IDs in Redis with a TTL.
// It is an optimization in front of the feed store's own foreign-id
// deduplication, so lookups fail open: a Redis error reports the goal
// as unseen and the store remains the final arbiter.
type Tracker struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewTracker creates a Tracker. ttl bounds how long published IDs are
// remembered; entries past the publish window can expire safely.
func NewTracker(client *redis.Client, ttl time.Duration, log logger.Logger) *Tracker {
	return &Tracker{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

// Seen reports whether the goal with this external ID has been published.
func (t *Tracker) Seen(ctx context.Context, externalID string) (bool, error) {
	n, err := t.client.Exists(ctx, keyPrefix+externalID).Result()
	if err != nil {
		t.logger.Warn("dedup lookup failed, assuming unseen",
			logger.String("external_id", externalID),
			logger.Error(err),
		)
		return false, nil
	}
	return n > 0, nil
}

// Mark records the goal as published.
func (t *Tracker) Mark(ctx context.Context, externalID string) error {
	return t.client.Set(ctx, keyPrefix+externalID, time.Now().UTC().Format(time.RFC3339), t.ttl).Err()
}
