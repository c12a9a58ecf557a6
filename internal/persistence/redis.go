package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/civicgrid/grievance-service/internal/config"
)

// Redis wraps the go-redis client. It backs the readiness probe and the
// short-lived statistics cache; the service degrades gracefully without it.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// GetString fetches a cached value; a miss returns ("", false, nil).
func (r *Redis) GetString(ctx context.Context, key string) (string, bool, error) {
	if r == nil || r.Client == nil {
		return "", false, nil
	}
	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// SetString caches a value with a TTL.
func (r *Redis) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a cached key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Del(ctx, key).Err()
}
