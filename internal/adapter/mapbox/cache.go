package mapbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/couchcryptid/fbp-etl/internal/domain"
	"github.com/couchcryptid/fbp-etl/internal/observability"
)

// CachedLocator wraps a Locator with an in-memory ristretto cache. Station
// names repeat every day, so most lookups after warm-up are hits.
type CachedLocator struct {
	inner   domain.Locator
	cache   *ristretto.Cache[string, domain.GeocodingResult]
	metrics *observability.Metrics
}

// NewCachedLocator creates a cache decorator holding up to maxEntries results.
func NewCachedLocator(inner domain.Locator, maxEntries int, metrics *observability.Metrics) (*CachedLocator, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("geocode cache size must be positive, got %d", maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, domain.GeocodingResult]{
		NumCounters:        int64(maxEntries) * 10,
		MaxCost:            int64(maxEntries),
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create geocode cache: %w", err)
	}
	return &CachedLocator{inner: inner, cache: cache, metrics: metrics}, nil
}

func (c *CachedLocator) ForwardGeocode(ctx context.Context, name, province string) (domain.GeocodingResult, error) {
	key := cacheKey(name, province)
	if result, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ForwardGeocode(ctx, name, province)
	if err != nil {
		return result, err
	}
	// Empty results are not cached so a station added to Mapbox later is found.
	if result.PlaceName != "" {
		c.cache.Set(key, result, 1)
		// Sets are buffered; wait so the next lookup sees the entry.
		c.cache.Wait()
	}
	return result, nil
}

// Close stops the cache's background goroutines.
func (c *CachedLocator) Close() {
	c.cache.Close()
}

func cacheKey(name, province string) string {
	return strings.ToUpper(strings.TrimSpace(name)) + "|" + strings.ToUpper(strings.TrimSpace(province))
}
