package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "storefront", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, StorageLocal, cfg.Storage.Backend)
		assert.Equal(t, "cart_session", cfg.Cookie.CartSessionName)
	})

	t.Run("catalog defaults match listing sizes", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 10, cfg.Catalog.AdminPageSize)
		assert.Equal(t, 12, cfg.Catalog.StorefrontPageSize)
		assert.Equal(t, 5, cfg.Catalog.NewsPageSize)
		assert.Equal(t, 8, cfg.Catalog.HomeSectionSize)
		assert.Equal(t, 4, cfg.Catalog.RelatedProducts)
		assert.Equal(t, 3, cfg.Catalog.RelatedNews)
		assert.Equal(t, 10, cfg.Catalog.LowStockThreshold)
		assert.Equal(t, 30*24*time.Hour, cfg.Cart.TTL)
	})

	t.Run("loads values from environment variables with STORE prefix", func(t *testing.T) {
		t.Setenv("STORE_APP_NAME", "test-shop")
		t.Setenv("STORE_APP_PORT", "9000")
		t.Setenv("STORE_DATABASE_HOST", "testdb.local")
		t.Setenv("STORE_DATABASE_PORT", "5433")
		t.Setenv("STORE_DATABASE_PASSWORD", "testpass")
		t.Setenv("STORE_CATALOG_ADMIN_PAGE_SIZE", "25")
		t.Setenv("STORE_MAIL_PORT", "2525")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-shop", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 25, cfg.Catalog.AdminPageSize)
		assert.Equal(t, 2525, cfg.Mail.Port)
	})

	t.Run("mysql driver defaults port", func(t *testing.T) {
		t.Setenv("STORE_DATABASE_DRIVER", "mysql")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 3306, cfg.Database.Port)
	})

	t.Run("sqlite driver defaults file name", func(t *testing.T) {
		t.Setenv("STORE_DATABASE_DRIVER", "sqlite")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "storefront.db", cfg.Database.DBName)
		assert.Equal(t, "storefront.db", cfg.Database.DSN())
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DATABASE_DRIVER", "oracle")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("STORE_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("s3 backend requires bucket", func(t *testing.T) {
		t.Setenv("STORE_STORAGE_BACKEND", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("enabled mail requires recipients", func(t *testing.T) {
		t.Setenv("STORE_MAIL_ENABLED", "true")
		t.Setenv("STORE_MAIL_HOST", "smtp.example.com")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.from")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("STORE_APP_ENV", "production")
		t.Setenv("STORE_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("STORE_DATABASE_PASSWORD", "secure-password")
		t.Setenv("STORE_DATABASE_SSLMODE", "require")
		t.Setenv("STORE_COOKIE_SECURE", "true")
		t.Setenv("STORE_SWAGGER_ENABLED", "false")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORE_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORE_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires secure cookies in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORE_COOKIE_SECURE", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cookie.secure")
	})

	t.Run("rejects wildcard CORS in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORE_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("fails if swagger enabled without protection in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORE_SWAGGER_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger endpoint must be disabled")
	})

	t.Run("passes with swagger enabled and require_auth in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STORE_SWAGGER_ENABLED", "true")
		t.Setenv("STORE_SWAGGER_REQUIRE_AUTH", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.RequireAuth)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("postgres escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "postgres://")
		assert.Contains(t, dsn, "pass%40word%23123")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("mysql uses tcp form", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverMySQL,
			Host:     "db",
			Port:     3306,
			User:     "shop",
			Password: "secret",
			DBName:   "storefront",
		}

		assert.Equal(t, "shop:secret@tcp(db:3306)/storefront?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())
	})
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "store.env")
	require.NoError(t, os.WriteFile(envFile, []byte("STORE_APP_NAME=from-dotenv\nSTORE_APP_PORT=7070\n"), 0o600))

	t.Run("values come from the file", func(t *testing.T) {
		t.Setenv("STORE_ENV_FILE", envFile)
		unsetForTest(t, "STORE_APP_NAME", "STORE_APP_PORT")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "from-dotenv", cfg.App.Name)
		assert.Equal(t, "7070", cfg.App.Port)
	})

	t.Run("real environment wins", func(t *testing.T) {
		t.Setenv("STORE_ENV_FILE", envFile)
		unsetForTest(t, "STORE_APP_PORT")
		t.Setenv("STORE_APP_NAME", "from-env")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.App.Name)
	})

	t.Run("explicit missing file fails", func(t *testing.T) {
		t.Setenv("STORE_ENV_FILE", filepath.Join(dir, "absent.env"))

		_, err := Load()
		assert.Error(t, err)
	})
}

// unsetForTest clears keys and restores their previous values after the test
func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}
