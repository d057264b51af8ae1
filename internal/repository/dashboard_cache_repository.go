package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	dashboardGenerationKey = "dashboard:generation"
	dashboardSnapshotKey   = "dashboard:snapshot:"
)

// ErrCacheMiss is returned when no cached snapshot exists (or caching is off).
var ErrCacheMiss = errors.New("cache miss")

// DashboardCacheRepository stores the rendered dashboard snapshot in Redis.
// Snapshots are keyed by a generation counter that every invalidation bumps,
// so a snapshot built before a write can only land under a generation nobody
// reads any more. A nil client disables caching: Get always misses and
// Set/Invalidate are no-ops.
type DashboardCacheRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDashboardCacheRepository(rdb *redis.Client, ttl time.Duration) *DashboardCacheRepository {
	return &DashboardCacheRepository{rdb: rdb, ttl: ttl}
}

func (r *DashboardCacheRepository) Enabled() bool {
	return r.rdb != nil && r.ttl > 0
}

// Generation returns the current cache generation, 0 before the first write.
func (r *DashboardCacheRepository) Generation(ctx context.Context) (int64, error) {
	if !r.Enabled() {
		return 0, nil
	}
	gen, err := r.rdb.Get(ctx, dashboardGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func snapshotKey(gen int64) string {
	return dashboardSnapshotKey + strconv.FormatInt(gen, 10)
}

// Get reads the snapshot stored for generation gen into dst.
func (r *DashboardCacheRepository) Get(ctx context.Context, gen int64, dst interface{}) error {
	if !r.Enabled() {
		return ErrCacheMiss
	}
	data, err := r.rdb.Get(ctx, snapshotKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// Set stores v for generation gen, which must be the generation read before v
// was built.
func (r *DashboardCacheRepository) Set(ctx context.Context, gen int64, v interface{}) error {
	if !r.Enabled() {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, snapshotKey(gen), data, r.ttl).Err()
}

// Invalidate moves to a new generation. Older snapshots are left to expire.
func (r *DashboardCacheRepository) Invalidate(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}
	return r.rdb.Incr(ctx, dashboardGenerationKey).Err()
}

func (r *DashboardCacheRepository) Ping(ctx context.Context) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Ping(ctx).Err()
}
