package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shop/storefront/internal/domain/cart"
	"github.com/shop/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Backend is the set of session stores the server runs on
type Backend struct {
	Carts cart.Store
	// Client is nil when running in memory
	Client *redis.Client

	closers []func() error
}

// Close releases the stores and the Redis connection
func (b *Backend) Close() error {
	var firstErr error
	for _, c := range b.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// Factory builds the session backend from configuration
type Factory struct {
	redisConfig           config.RedisConfig
	cartTTL               time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// NewFactory creates a new factory
func NewFactory(redisCfg config.RedisConfig, cartTTL time.Duration, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		cartTTL:               cartTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect opens and pings a Redis client
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Create returns a Redis backend when Redis is enabled and reachable,
// otherwise an in-memory one if fallback is allowed
func (f *Factory) Create(ctx context.Context) (*Backend, error) {
	if f.redisConfig.Enabled {
		client, err := Connect(ctx, f.redisConfig)
		if err == nil {
			f.logger.Info("using Redis session backend", zap.String("addr", f.redisConfig.Addr()))
			return &Backend{
				Carts:   NewRedisCartStore(client, DefaultCartKeyPrefix, f.cartTTL),
				Client:  client,
				closers: []func() error{client.Close},
			}, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for sessions but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory session backend. "+
			"Carts and token revocations will not be shared across instances.",
			zap.Error(err),
		)
	}

	store := NewInMemoryCartStore(f.cartTTL)
	return &Backend{
		Carts:   store,
		closers: []func() error{store.Close},
	}, nil
}
