/*
Package cache keeps commercial verdicts for trend labels in Redis so the
search probe is not repeated for the same label within the TTL.
*/
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shanehull/vyapar/internal/config"
)

const pingTimeout = 5 * time.Second

// NewRedisConnection dials Redis and verifies it answers a PING.
func NewRedisConnection(ctx context.Context, cfg config.RedisConfig, log logrus.FieldLogger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	log.WithField("addr", cfg.Addr).Info("Connected to Redis")
	return rdb, nil
}
