package provider

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"

	"github.com/stretchr/testify/assert"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

type countingProvider struct {
	inner MatrixProvider
	calls atomic.Int64
}

func (p *countingProvider) FetchTravelTimes(ctx context.Context, origins, destinations []geo.Coordinate,
	mode pkg.TravelMode) (datastructure.TravelTimeMatrix, error) {
	p.calls.Add(1)
	return p.inner.FetchTravelTimes(ctx, origins, destinations, mode)
}

func newTestCache(t *testing.T) (*CachedProvider, *countingProvider) {
	t.Helper()

	db, err := bolt.Open(filepath.Join(t.TempDir(), "matrix_cache.db"), 0600, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	counting := &countingProvider{inner: NewHaversineEstimator()}
	cached, err := NewCachedProvider(counting, db, zap.NewNop())
	assert.NoError(t, err)
	return cached, counting
}

func TestCachedProviderFetchTravelTimes(t *testing.T) {
	origins := []geo.Coordinate{
		geo.NewCoordinate(-6.1754, 106.8272),
		geo.NewCoordinate(-6.2088, 106.8456),
	}
	destinations := []geo.Coordinate{
		geo.NewCoordinate(-6.3000, 106.9000),
		geo.NewCoordinate(-6.9147, 107.6098),
	}

	t.Run("second fetch is served from cache", func(t *testing.T) {
		cached, counting := newTestCache(t)

		first, err := cached.FetchTravelTimes(context.Background(), origins, destinations, pkg.DRIVING_CAR)
		assert.NoError(t, err)
		second, err := cached.FetchTravelTimes(context.Background(), origins, destinations, pkg.DRIVING_CAR)
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, int64(1), counting.calls.Load())

		hits, misses := cached.Stats()
		assert.Equal(t, int64(1), hits)
		assert.Equal(t, int64(1), misses)
	})

	t.Run("different mode is a different cache entry", func(t *testing.T) {
		cached, counting := newTestCache(t)

		_, err := cached.FetchTravelTimes(context.Background(), origins, destinations, pkg.DRIVING_CAR)
		assert.NoError(t, err)
		_, err = cached.FetchTravelTimes(context.Background(), origins, destinations, pkg.FOOT_WALKING)
		assert.NoError(t, err)

		assert.Equal(t, int64(2), counting.calls.Load())
	})

	t.Run("different destinations are a different cache entry", func(t *testing.T) {
		cached, counting := newTestCache(t)

		_, err := cached.FetchTravelTimes(context.Background(), origins, destinations, pkg.DRIVING_CAR)
		assert.NoError(t, err)
		_, err = cached.FetchTravelTimes(context.Background(), origins, destinations[:1], pkg.DRIVING_CAR)
		assert.NoError(t, err)

		assert.Equal(t, int64(2), counting.calls.Load())
	})

	t.Run("inner failure is not cached", func(t *testing.T) {
		cached, counting := newTestCache(t)

		_, err := cached.FetchTravelTimes(context.Background(), origins, destinations, pkg.TravelMode(99))
		assert.ErrorIs(t, err, ErrUnsupportedTravelMode)
		assert.Equal(t, int64(1), counting.calls.Load())

		hits, misses := cached.Stats()
		assert.Equal(t, int64(0), hits)
		assert.Equal(t, int64(1), misses)
	})
}

func TestCacheKey(t *testing.T) {
	a := []geo.Coordinate{geo.NewCoordinate(1, 2)}
	b := []geo.Coordinate{geo.NewCoordinate(3, 4)}

	assert.Equal(t, cacheKey(a, b, pkg.DRIVING_CAR), cacheKey(a, b, pkg.DRIVING_CAR))
	assert.NotEqual(t, cacheKey(a, b, pkg.DRIVING_CAR), cacheKey(b, a, pkg.DRIVING_CAR))
	assert.NotEqual(t, cacheKey(a, b, pkg.DRIVING_CAR), cacheKey(a, b, pkg.CYCLING_REGULAR))
}
