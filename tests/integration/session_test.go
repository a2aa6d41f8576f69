package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/cart"
	"github.com/shop/storefront/internal/infrastructure/auth"
	"github.com/shop/storefront/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCartStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client := NewTestRedis(t)
	store := cache.NewRedisCartStore(client, "", time.Hour)
	ctx := context.Background()

	item := cart.Item{
		ProductID:   uuid.New(),
		ProductName: "Sencha",
		Price:       decimal.RequireFromString("12.50"),
		Quantity:    2,
	}

	t.Run("round trip with expiry", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "sess-a", cart.New(item)))

		loaded, err := store.Load(ctx, "sess-a")
		require.NoError(t, err)
		require.Len(t, loaded.Items(), 1)
		assert.Equal(t, item.ProductID, loaded.Items()[0].ProductID)
		assert.True(t, loaded.Total().Equal(decimal.RequireFromString("25")))

		ttl, err := client.TTL(ctx, cache.DefaultCartKeyPrefix+"sess-a").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 59*time.Minute)
	})

	t.Run("unknown session is an empty cart", func(t *testing.T) {
		loaded, err := store.Load(ctx, "nobody")
		require.NoError(t, err)
		assert.True(t, loaded.IsEmpty())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "sess-a"))
		loaded, err := store.Load(ctx, "sess-a")
		require.NoError(t, err)
		assert.True(t, loaded.IsEmpty())
	})
}

func TestRedisTokenBlacklist_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	blacklist := auth.NewRedisTokenBlacklist(NewTestRedis(t))
	ctx := context.Background()

	t.Run("revoked jti", func(t *testing.T) {
		require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Minute))

		revoked, err := blacklist.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = blacklist.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("user cut-off spares later tokens", func(t *testing.T) {
		issuedBefore := time.Now().Add(-time.Minute)
		require.NoError(t, blacklist.RevokeUser(ctx, "user-1", time.Hour))

		revoked, err := blacklist.IsUserRevoked(ctx, "user-1", issuedBefore)
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = blacklist.IsUserRevoked(ctx, "user-1", time.Now().Add(2*time.Second))
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
