// Package cache puts redis in front of the threshold and sample repositories.
// Redis is an accelerator only: every redis failure falls back to the
// underlying repository, which stays the source of truth.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/mosca-iot/hub/internal/config"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

const keyPrefix = "mosca:"

// NewClient connects to redis and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	nuts.L.Infof("[Cache] Connected to redis at %s", cfg.Addr())
	return client, nil
}

func thresholdKey(incubatorID int) string {
	return fmt.Sprintf("%sthreshold:%d", keyPrefix, incubatorID)
}

func thresholdVersionKey(incubatorID int) string {
	return fmt.Sprintf("%sthreshold:%d:version", keyPrefix, incubatorID)
}

func latestKey(incubatorID int, kind string) string {
	return fmt.Sprintf("%slatest:%d:%s", keyPrefix, incubatorID, kind)
}
