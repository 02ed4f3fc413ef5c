package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, InitSchema(db))
	return db
}

func TestPriceCachePutGet(t *testing.T) {
	cache := NewPriceCache(openTestDB(t))

	_, ok := cache.Get("missing", time.Minute)
	assert.False(t, ok)

	require.NoError(t, cache.Put("k", []byte(`{"dates":[]}`)))
	payload, ok := cache.Get("k", time.Minute)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"dates":[]}`), payload)

	// Overwrite via upsert.
	require.NoError(t, cache.Put("k", []byte("v2")))
	payload, ok = cache.Get("k", time.Minute)
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), payload)
}

func TestPriceCacheExpiry(t *testing.T) {
	cache := NewPriceCache(openTestDB(t))
	require.NoError(t, cache.Put("k", []byte("v")))

	// A zero max age makes any stored entry stale.
	_, ok := cache.Get("k", 0)
	assert.False(t, ok)
}

func TestPriceCachePrune(t *testing.T) {
	cache := NewPriceCache(openTestDB(t))
	require.NoError(t, cache.Put("k", []byte("v")))

	require.NoError(t, cache.Prune(-time.Second))
	_, ok := cache.Get("k", time.Hour)
	assert.False(t, ok)
}
