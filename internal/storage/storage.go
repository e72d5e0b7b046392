// Package storage persists small JSON blobs: scrape progress, run
// summaries, and startup status documents.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the requested blob does not exist.
var ErrNotFound = errors.New("blob not found")

// BlobStore reads and writes JSON blobs by key. Writes are atomic per key:
// a reader sees either the previous document or the new one, never a
// truncated mix.
type BlobStore interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores the blob under key, replacing any existing value.
	Put(ctx context.Context, key string, data []byte) error
}
