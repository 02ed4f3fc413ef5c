package market

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	entries map[string][]byte
}

func (c *memCache) Get(key string, _ time.Duration) ([]byte, bool) {
	payload, ok := c.entries[key]
	return payload, ok
}

func (c *memCache) Put(key string, payload []byte) error {
	c.entries[key] = payload
	return nil
}

type countingProvider struct {
	series PriceSeries
	err    error
	calls  int
}

func (p *countingProvider) Fetch(context.Context, string, time.Time, time.Time) (PriceSeries, error) {
	p.calls++
	return p.series, p.err
}

func sampleSeries(t *testing.T) PriceSeries {
	t.Helper()
	var s PriceSeries
	require.NoError(t, s.Append(time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC), 100))
	require.NoError(t, s.Append(time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC), 101))
	return s
}

func TestCachedProviderRoundTrip(t *testing.T) {
	inner := &countingProvider{series: sampleSeries(t)}
	cache := &memCache{entries: map[string][]byte{}}
	p := NewCachedProvider(inner, cache, time.Minute, zerolog.Nop())

	start := time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	first, err := p.Fetch(context.Background(), "TST", start, end)
	require.NoError(t, err)
	second, err := p.Fetch(context.Background(), "TST", start, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls, "second fetch must be served from cache")
}

func TestCachedProviderDoesNotCacheEmpty(t *testing.T) {
	inner := &countingProvider{}
	cache := &memCache{entries: map[string][]byte{}}
	p := NewCachedProvider(inner, cache, time.Minute, zerolog.Nop())

	start := time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := p.Fetch(context.Background(), "TST", start, end)
	require.NoError(t, err)
	_, err = p.Fetch(context.Background(), "TST", start, end)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.Empty(t, cache.entries)
}

func TestCachedProviderIgnoresCorruptEntry(t *testing.T) {
	inner := &countingProvider{series: sampleSeries(t)}
	start := time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	cache := &memCache{entries: map[string][]byte{
		cacheKey("TST", start, end): []byte("not json"),
	}}
	p := NewCachedProvider(inner, cache, time.Minute, zerolog.Nop())

	s, err := p.Fetch(context.Background(), "TST", start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, inner.calls)
}
