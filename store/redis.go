package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/rasticrookie/portfolio"
)

// DefaultRedisPrefix is prepended to every slot name.
const DefaultRedisPrefix = "tradedash:"

// RedisConfig holds the connection parameters of a Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis stores each slot as a plain string key, without expiration.
type Redis struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

// NewRedis connects to Redis and checks the connection.
func NewRedis(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisFromClient(client, cfg.Prefix, logger), nil
}

// NewRedisFromClient wraps an existing client. An empty prefix selects
// DefaultRedisPrefix.
func NewRedisFromClient(client redis.UniversalClient, prefix string, logger *zap.Logger) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, prefix: prefix, logger: logger}
}

func (r *Redis) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, portfolio.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read slot %q: %w", name, err)
	}
	return data, nil
}

func (r *Redis) Put(ctx context.Context, name string, data []byte) error {
	if err := r.client.Set(ctx, r.prefix+name, data, 0).Err(); err != nil {
		return fmt.Errorf("cannot write slot %q: %w", name, err)
	}
	r.logger.Debug("slot written", zap.String("key", r.prefix+name), zap.Int("bytes", len(data)))
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error { return r.client.Close() }
