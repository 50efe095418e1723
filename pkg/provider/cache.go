package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"meetpoint/pkg"
	"meetpoint/pkg/datastructure"
	"meetpoint/pkg/geo"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	BBOLTDB_MATRIX_BUCKET = "travelTimeMatrix"
)

// CachedProvider wraps a MatrixProvider with a bbolt-backed response cache
// keyed by (origins, destinations, mode). Matrix calls against paid providers
// are rate limited and billed per element, so repeated runs over the same
// participant set should not refetch.
type CachedProvider struct {
	inner MatrixProvider
	db    *bbolt.DB
	log   *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

func NewCachedProvider(inner MatrixProvider, db *bbolt.DB, log *zap.Logger) (*CachedProvider, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BBOLTDB_MATRIX_BUCKET))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating matrix cache bucket: %w", err)
	}
	return &CachedProvider{
		inner: inner,
		db:    db,
		log:   log,
	}, nil
}

func (c *CachedProvider) FetchTravelTimes(ctx context.Context, origins, destinations []geo.Coordinate,
	mode pkg.TravelMode) (datastructure.TravelTimeMatrix, error) {
	key := cacheKey(origins, destinations, mode)

	var cached datastructure.TravelTimeMatrix
	err := c.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(BBOLTDB_MATRIX_BUCKET)).Get(key)
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &cached)
	})
	if err == nil && cached != nil {
		c.hits.Add(1)
		return cached, nil
	}

	c.misses.Add(1)
	matrix, err := c.inner.FetchTravelTimes(ctx, origins, destinations, mode)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(matrix)
	if err == nil {
		if putErr := c.db.Update(func(tx *bbolt.Tx) error {
			return tx.Bucket([]byte(BBOLTDB_MATRIX_BUCKET)).Put(key, raw)
		}); putErr != nil {
			c.log.Warn("failed to cache travel time matrix", zap.Error(putErr))
		}
	}

	return matrix, nil
}

// Stats returns cache hit and miss counts since construction.
func (c *CachedProvider) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func cacheKey(origins, destinations []geo.Coordinate, mode pkg.TravelMode) []byte {
	var sb strings.Builder
	sb.WriteString(mode.String())
	sb.WriteByte('|')
	for _, o := range origins {
		sb.WriteString(geo.FormatCoordinate(o))
		sb.WriteByte(';')
	}
	sb.WriteByte('|')
	for _, d := range destinations {
		sb.WriteString(geo.FormatCoordinate(d))
		sb.WriteByte(';')
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return []byte(hex.EncodeToString(sum[:]))
}
