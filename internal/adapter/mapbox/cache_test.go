package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fbp-etl/internal/domain"
	"github.com/couchcryptid/fbp-etl/internal/observability"
)

type countingLocator struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingLocator) ForwardGeocode(_ context.Context, _, _ string) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func newCached(t *testing.T, inner domain.Locator, metrics *observability.Metrics) *CachedLocator {
	t.Helper()
	c, err := NewCachedLocator(inner, 10, metrics)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestCachedLocator_CacheHit(t *testing.T) {
	inner := &countingLocator{
		result: domain.GeocodingResult{Lat: 50.67, Lon: -120.33, PlaceName: "Kamloops, British Columbia, Canada"},
	}
	metrics := observability.NewMetricsForTesting()
	cached := newCached(t, inner, metrics)

	r1, err := cached.ForwardGeocode(context.Background(), "Kamloops", "BC")
	require.NoError(t, err)
	r2, err := cached.ForwardGeocode(context.Background(), " kamloops ", "bc")
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("hit")))
}

func TestCachedLocator_DifferentKeysMiss(t *testing.T) {
	inner := &countingLocator{result: domain.GeocodingResult{PlaceName: "Place"}}
	cached := newCached(t, inner, observability.NewMetricsForTesting())

	_, _ = cached.ForwardGeocode(context.Background(), "Kamloops", "BC")
	_, _ = cached.ForwardGeocode(context.Background(), "Kamloops", "AB")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedLocator_EmptyResultNotCached(t *testing.T) {
	inner := &countingLocator{}
	cached := newCached(t, inner, observability.NewMetricsForTesting())

	_, _ = cached.ForwardGeocode(context.Background(), "Nowhere", "")
	_, _ = cached.ForwardGeocode(context.Background(), "Nowhere", "")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedLocator_ErrorNotCached(t *testing.T) {
	inner := &countingLocator{err: errors.New("timeout")}
	cached := newCached(t, inner, observability.NewMetricsForTesting())

	_, err := cached.ForwardGeocode(context.Background(), "Kamloops", "BC")
	require.Error(t, err)
	_, err = cached.ForwardGeocode(context.Background(), "Kamloops", "BC")
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestNewCachedLocator_RejectsNonPositiveSize(t *testing.T) {
	_, err := NewCachedLocator(&countingLocator{}, 0, observability.NewMetricsForTesting())
	assert.Error(t, err)
}
