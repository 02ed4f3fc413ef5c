package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SeriesCache is the storage boundary for cached price series.
type SeriesCache interface {
	Get(key string, maxAge time.Duration) ([]byte, bool)
	Put(key string, payload []byte) error
}

// CachedProvider wraps a Provider with a TTL cache so repeated dashboard
// requests within the staleness window do not refetch from the market.
// Cache failures fall through to the inner provider.
type CachedProvider struct {
	inner Provider
	cache SeriesCache
	ttl   time.Duration
	log   zerolog.Logger
}

func NewCachedProvider(inner Provider, cache SeriesCache, ttl time.Duration, log zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "price_cache").Logger(),
	}
}

func cacheKey(ticker string, start, end time.Time) string {
	return fmt.Sprintf("%s|%s|%s", ticker, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func (p *CachedProvider) Fetch(ctx context.Context, ticker string, start, end time.Time) (PriceSeries, error) {
	key := cacheKey(ticker, start, end)
	if payload, ok := p.cache.Get(key, p.ttl); ok {
		var s PriceSeries
		if err := json.Unmarshal(payload, &s); err == nil {
			p.log.Debug().Str("ticker", ticker).Msg("cache hit")
			return s, nil
		}
		p.log.Warn().Str("ticker", ticker).Msg("discarding corrupt cache entry")
	}

	s, err := p.inner.Fetch(ctx, ticker, start, end)
	if err != nil {
		return s, err
	}
	if s.Empty() {
		// Do not cache misses: an upstream hiccup should not mask the
		// ticker for a whole TTL window.
		return s, nil
	}
	if payload, err := json.Marshal(s); err == nil {
		if err := p.cache.Put(key, payload); err != nil {
			p.log.Warn().Err(err).Str("ticker", ticker).Msg("cache write failed")
		}
	}
	return s, nil
}
