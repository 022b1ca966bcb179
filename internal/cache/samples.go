package cache

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/mosca-iot/hub/internal/models"
	"github.com/mosca-iot/hub/internal/repository"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// SampleCache keeps the newest sample per sensor in a redis hash so the status
// view does not scan the hypertable. Range queries always hit the inner store.
type SampleCache struct {
	inner repository.SampleRepository
	rdb   *redis.Client
}

func NewSampleCache(inner repository.SampleRepository, rdb *redis.Client) *SampleCache {
	return &SampleCache{inner: inner, rdb: rdb}
}

func (c *SampleCache) InsertSample(ctx context.Context, sample *models.Sample) error {
	if err := c.inner.InsertSample(ctx, sample); err != nil {
		return err
	}
	if err := c.record(ctx, sample); err != nil {
		nuts.L.Warnf("[Cache] Failed to cache sample %s: %v", sample.ID, err)
		// A hash missing this sensor must not be served; the next read rebuilds it.
		c.rdb.Del(ctx, latestKey(sample.IncubatorID, string(sample.Kind)))
	}
	return nil
}

// record adds sample to the latest hash. A missing hash (cold start, flush,
// eviction) is rebuilt from the store first so it always covers every sensor.
func (c *SampleCache) record(ctx context.Context, sample *models.Sample) error {
	n, err := c.rdb.Exists(ctx, latestKey(sample.IncubatorID, string(sample.Kind))).Result()
	if err != nil {
		return err
	}
	if n > 0 {
		return c.remember(ctx, sample.IncubatorID, sample.Kind, []models.Sample{*sample})
	}
	latest, err := c.inner.LatestSamples(ctx, sample.IncubatorID, sample.Kind)
	if err != nil {
		return err
	}
	return c.remember(ctx, sample.IncubatorID, sample.Kind, latest)
}

func (c *SampleCache) FindSamples(ctx context.Context, q models.SampleQuery) ([]models.Sample, error) {
	return c.inner.FindSamples(ctx, q)
}

func (c *SampleCache) LatestSamples(ctx context.Context, incubatorID int, kind models.ReadingKind) ([]models.Sample, error) {
	fields, err := c.rdb.HGetAll(ctx, latestKey(incubatorID, string(kind))).Result()
	if err != nil {
		nuts.L.Warnf("[Cache] Latest sample lookup for incubator %d failed: %v", incubatorID, err)
	}
	if err == nil && len(fields) > 0 {
		out := make([]models.Sample, 0, len(fields))
		for _, raw := range fields {
			var s models.Sample
			if err := json.Unmarshal([]byte(raw), &s); err != nil {
				out = nil
				break
			}
			out = append(out, s)
		}
		if out != nil {
			sort.Slice(out, func(i, j int) bool { return out[i].ComponentID < out[j].ComponentID })
			return out, nil
		}
	}

	latest, err := c.inner.LatestSamples(ctx, incubatorID, kind)
	if err != nil {
		return nil, err
	}
	if err := c.remember(ctx, incubatorID, kind, latest); err != nil {
		nuts.L.Warnf("[Cache] Failed to warm latest samples for incubator %d: %v", incubatorID, err)
	}
	return latest, nil
}

// remember stores samples unless the cached entry for the sensor is newer, so
// back-dated readings never replace a fresher value.
func (c *SampleCache) remember(ctx context.Context, incubatorID int, kind models.ReadingKind, samples []models.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	key := latestKey(incubatorID, string(kind))

	fields := make([]string, 0, len(samples))
	for _, s := range samples {
		fields = append(fields, strconv.Itoa(s.ComponentID))
	}
	current, err := c.rdb.HMGet(ctx, key, fields...).Result()
	if err != nil {
		return err
	}

	values := map[string]interface{}{}
	for i, s := range samples {
		if raw, ok := current[i].(string); ok {
			var cached models.Sample
			if json.Unmarshal([]byte(raw), &cached) == nil && cached.Timestamp.After(s.Timestamp) {
				continue
			}
		}
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		values[fields[i]] = string(data)
	}
	if len(values) == 0 {
		return nil
	}
	return c.rdb.HSet(ctx, key, values).Err()
}
