package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mosca-iot/hub/internal/models"
	"github.com/mosca-iot/hub/internal/repository"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// ThresholdCache is a read-through cache for threshold configs. Writes go to
// the inner repository first, then bump the incubator's version key and drop
// the cached entry. A reader only fills the cache when the version it saw
// before loading is still current, so a load that raced a write cannot put
// the old config back.
type ThresholdCache struct {
	inner repository.ThresholdRepository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewThresholdCache(inner repository.ThresholdRepository, rdb *redis.Client, ttl time.Duration) *ThresholdCache {
	return &ThresholdCache{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *ThresholdCache) GetThreshold(ctx context.Context, incubatorID int) (*models.ThresholdConfig, error) {
	key := thresholdKey(incubatorID)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cfg models.ThresholdConfig
		if jsonErr := json.Unmarshal(data, &cfg); jsonErr == nil {
			return &cfg, nil
		}
		nuts.L.Warnf("[Cache] Dropping undecodable entry %s", key)
		c.rdb.Del(ctx, key)
	case err != redis.Nil:
		nuts.L.Warnf("[Cache] Threshold lookup for incubator %d failed: %v", incubatorID, err)
	}

	version, verErr := c.version(ctx, c.rdb, incubatorID)
	cfg, err := c.inner.GetThreshold(ctx, incubatorID)
	if err != nil {
		return nil, err
	}
	if verErr == nil {
		if err := c.fill(ctx, incubatorID, version, cfg); err != nil && err != redis.TxFailedErr {
			nuts.L.Warnf("[Cache] Failed to cache threshold for incubator %d: %v", incubatorID, err)
		}
	}
	return cfg, nil
}

// fill stores cfg only while the version key still reads version.
func (c *ThresholdCache) fill(ctx context.Context, incubatorID int, version string, cfg *models.ThresholdConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	verKey := thresholdVersionKey(incubatorID)
	return c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.version(ctx, tx, incubatorID)
		if err != nil {
			return err
		}
		if current != version {
			return redis.TxFailedErr
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, thresholdKey(incubatorID), data, c.ttl)
			return nil
		})
		return err
	}, verKey)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *ThresholdCache) version(ctx context.Context, cmd stringGetter, incubatorID int) (string, error) {
	v, err := cmd.Get(ctx, thresholdVersionKey(incubatorID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (c *ThresholdCache) UpsertThreshold(ctx context.Context, cfg *models.ThresholdConfig) error {
	if err := c.inner.UpsertThreshold(ctx, cfg); err != nil {
		return err
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, thresholdVersionKey(cfg.IncubatorID))
		pipe.Del(ctx, thresholdKey(cfg.IncubatorID))
		return nil
	})
	if err != nil {
		nuts.L.Warnf("[Cache] Failed to invalidate threshold for incubator %d: %v", cfg.IncubatorID, err)
	}
	return nil
}
