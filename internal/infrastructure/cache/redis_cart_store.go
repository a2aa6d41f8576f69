package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shop/storefront/internal/domain/cart"
)

// DefaultCartKeyPrefix namespaces cart keys in a shared Redis
const DefaultCartKeyPrefix = "storefront:cart:"

// RedisCartStore implements cart.Store on Redis.
// Carts are shared across instances and expire after ttl of inactivity.
type RedisCartStore struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartStore creates a cart store with an existing Redis client.
// An empty keyPrefix uses DefaultCartKeyPrefix.
func NewRedisCartStore(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisCartStore {
	if keyPrefix == "" {
		keyPrefix = DefaultCartKeyPrefix
	}
	return &RedisCartStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Load returns the session cart, or an empty cart when none is stored.
// Reading a cart slides its expiry.
func (s *RedisCartStore) Load(ctx context.Context, sessionID string) (cart.Cart, error) {
	key := s.keyPrefix + sessionID

	var data []byte
	var err error
	if s.ttl > 0 {
		data, err = s.client.GetEx(ctx, key, s.ttl).Bytes()
	} else {
		data, err = s.client.Get(ctx, key).Bytes()
	}
	if errors.Is(err, redis.Nil) {
		return cart.Cart{}, nil
	}
	if err != nil {
		return cart.Cart{}, fmt.Errorf("failed to load cart: %w", err)
	}

	return cart.Decode(data)
}

// Save stores the cart. An empty cart removes the key.
func (s *RedisCartStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	if c.IsEmpty() {
		return s.Delete(ctx, sessionID)
	}

	data, err := cart.Encode(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes the session cart
func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

var _ cart.Store = (*RedisCartStore)(nil)
