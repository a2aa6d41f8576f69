package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shop/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func baseS3Config() *config.StorageConfig {
	return &config.StorageConfig{
		Backend:      config.StorageS3,
		Bucket:       "shop-images",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Region:       "us-east-1",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}
}

func TestNewS3ImageStore_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ImageStore(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := baseS3Config()
		cfg.Bucket = ""
		_, err := NewS3ImageStore(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := baseS3Config()
		cfg.AccessKey = ""
		_, err := NewS3ImageStore(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := baseS3Config()
		cfg.SecretKey = ""
		_, err := NewS3ImageStore(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates store", func(t *testing.T) {
		store, err := NewS3ImageStore(baseS3Config())
		require.NoError(t, err)
		assert.Equal(t, "shop-images", store.Bucket())
		assert.Equal(t, 15*time.Minute, store.presignExpiration)
	})

	t.Run("endpoint without scheme is accepted", func(t *testing.T) {
		cfg := baseS3Config()
		cfg.Endpoint = "localhost:9000"
		cfg.UseSSL = true
		_, err := NewS3ImageStore(cfg)
		require.NoError(t, err)
	})
}

func TestS3ImageStore_Options(t *testing.T) {
	store, err := NewS3ImageStore(baseS3Config(),
		WithLogger(zaptest.NewLogger(t)),
		WithPresignExpiration(time.Hour),
	)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, store.presignExpiration)
	assert.NotNil(t, store.logger)
}

func TestS3ImageStore_Locate(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns when no public base URL", func(t *testing.T) {
		store, err := NewS3ImageStore(baseS3Config())
		require.NoError(t, err)

		loc, err := store.Locate(ctx, "/images/products/abc_lamp.jpg")
		require.NoError(t, err)
		assert.Empty(t, loc.FilePath)
		assert.True(t, strings.Contains(loc.URL, "localhost:9000"))
		assert.True(t, strings.Contains(loc.URL, "shop-images"))
		assert.True(t, strings.Contains(loc.URL, "X-Amz-Signature"))
	})

	t.Run("uses public base URL when configured", func(t *testing.T) {
		cfg := baseS3Config()
		cfg.PublicBaseURL = "https://cdn.example.com/"
		store, err := NewS3ImageStore(cfg)
		require.NoError(t, err)

		loc, err := store.Locate(ctx, "/images/news/abc_story.png")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/images/news/abc_story.png", loc.URL)
	})

	t.Run("rejects paths outside images", func(t *testing.T) {
		store, err := NewS3ImageStore(baseS3Config())
		require.NoError(t, err)

		_, err = store.Locate(ctx, "/secrets/key.pem")
		assert.ErrorIs(t, err, ErrInvalidImagePath)
	})
}

func TestS3ImageStore_Delete_ValidationOnly(t *testing.T) {
	store, err := NewS3ImageStore(baseS3Config())
	require.NoError(t, err)

	err = store.Delete(context.Background(), "images/no-leading-slash.png")
	assert.ErrorIs(t, err, ErrInvalidImagePath)
}

func TestS3ImageStore_Save_ValidationOnly(t *testing.T) {
	store, err := NewS3ImageStore(baseS3Config())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../etc", "x.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid image folder")
}
