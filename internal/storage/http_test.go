package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalfeed/scraper/internal/logger"
)

func newBlobServer() (*httptest.Server, *sync.Map) {
	var blobs sync.Map
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path[1:]
		switch r.Method {
		case http.MethodGet:
			data, ok := blobs.Load(key)
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write(data.([]byte))
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			blobs.Store(key, body)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	return server, &blobs
}

func TestHTTPStoreRoundTrip(t *testing.T) {
	server, _ := newBlobServer()
	defer server.Close()

	store := NewHTTPStore(server.URL, 5*time.Second, logger.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "progress.json", []byte(`{"a":1}`)))

	data, err := store.Get(ctx, "progress.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}

func TestHTTPStoreNotFound(t *testing.T) {
	server, _ := newBlobServer()
	defer server.Close()

	store := NewHTTPStore(server.URL, 5*time.Second, logger.NewNopLogger())
	_, err := store.Get(context.Background(), "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPStoreServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, 5*time.Second, logger.NewNopLogger())

	_, err := store.Get(context.Background(), "progress.json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.Error(t, store.Put(context.Background(), "progress.json", []byte("{}")))
}
