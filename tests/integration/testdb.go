// Package integration runs the storefront against real PostgreSQL and Redis
// containers started with testcontainers.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/identity"
	"github.com/shop/storefront/internal/infrastructure/config"
	applog "github.com/shop/storefront/internal/infrastructure/logger"
	"github.com/shop/storefront/internal/infrastructure/migration"
	"github.com/shop/storefront/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	postgresImage = "postgres:16-alpine"
	redisImage    = "redis:7-alpine"
)

// shared is the container reused by NewSharedTestDB, migrated once
var shared struct {
	mu        sync.Mutex
	container testcontainers.Container
	cfg       config.DatabaseConfig
}

// TestDB is a migrated storefront schema opened through the same factory
// and GORM logger the server uses
type TestDB struct {
	DB  *gorm.DB
	Cfg config.DatabaseConfig
	t   *testing.T
}

// NewTestDB starts a private PostgreSQL container, so concurrent checkouts
// in one test see no rows from another
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	container, cfg := startPostgres(t, "storefront_test")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate PostgreSQL container: %v", err)
		}
	})
	migrateSchema(t, cfg)
	return openTestDB(t, cfg)
}

// NewSharedTestDB connects to the package-wide container, starting and
// migrating it on first use. Callers clean up with CleanTables.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.container == nil {
		container, cfg := startPostgres(t, "storefront_shared_test")
		migrateSchema(t, cfg)
		shared.container, shared.cfg = container, cfg
	}
	return openTestDB(t, shared.cfg)
}

// CleanupSharedContainer terminates the shared container. TestMain calls it.
func CleanupSharedContainer() {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = shared.container.Terminate(ctx)
	shared.container = nil
}

func startPostgres(t *testing.T, dbName string) (testcontainers.Container, config.DatabaseConfig) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("storefront"),
		tcpostgres.WithPassword("storefront"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return container, config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		User:            "storefront",
		Password:        "storefront",
		DBName:          dbName,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
	}
}

// migrateSchema applies migrations/ over a throwaway connection; the
// migrator closes it when done
func migrateSchema(t *testing.T, cfg config.DatabaseConfig) {
	t.Helper()

	db, err := persistence.NewDatabase(&cfg)
	require.NoError(t, err, "Failed to connect for migrations")
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	m, err := migration.New(sqlDB, migrationsDir(t), zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)))
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
	_ = m.Close()
}

// openTestDB connects with the storefront GORM logger writing to t. Set
// TEST_DB_DEBUG to see every statement.
func openTestDB(t *testing.T, cfg config.DatabaseConfig) *TestDB {
	t.Helper()

	level := gormlogger.Warn
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg, applog.NewGormLogger(zaptest.NewLogger(t), level))
	require.NoError(t, err, "Failed to connect to database")
	t.Cleanup(func() { _ = db.Close() })

	return &TestDB{DB: db.DB, Cfg: cfg, t: t}
}

// migrationsDir finds migrations/ by walking up from this file
func migrationsDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	for dir := filepath.Dir(file); dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	t.Fatal("migrations directory not found")
	return ""
}

// CleanTables empties every storefront table, keeping the schema version
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	require.NoError(tdb.t, tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public' AND tablename <> 'schema_migrations'
	`).Scan(&tables).Error)
	for _, table := range tables {
		require.NoError(tdb.t, tdb.DB.Exec(`TRUNCATE TABLE "`+table+`" CASCADE`).Error)
	}
}

// NewTestRedis starts a throwaway Redis and returns a connected client
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate Redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err, "Failed to get Redis endpoint")

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err(), "Failed to ping Redis")
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// SeedCategory stores an active category
func (tdb *TestDB) SeedCategory(name string) *catalog.Category {
	tdb.t.Helper()

	c, err := catalog.NewCategory(name, "", 1)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormCategoryRepository(tdb.DB).Save(context.Background(), c))
	return c
}

// SeedSupplier stores an active supplier
func (tdb *TestDB) SeedSupplier(name string) *catalog.Supplier {
	tdb.t.Helper()

	s, err := catalog.NewSupplier(name, catalog.SupplierContact{})
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormSupplierRepository(tdb.DB).Save(context.Background(), s))
	return s
}

// SeedProduct stores an active product priced at price with stock units
func (tdb *TestDB) SeedProduct(name, price string, stock int, categoryID uuid.UUID) *catalog.Product {
	tdb.t.Helper()

	p, err := catalog.NewProduct(name, "", decimal.RequireFromString(price), nil, stock, categoryID, nil)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormProductRepository(tdb.DB).Save(context.Background(), p))
	return p
}

// SeedCustomer stores a customer account
func (tdb *TestDB) SeedCustomer(email string) *identity.User {
	tdb.t.Helper()

	u, err := identity.NewCustomer(email, "secret123", identity.Profile{FirstName: "Test", LastName: "Customer"})
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormUserRepository(tdb.DB).Save(context.Background(), u))
	return u
}

// Stock reads a product's stock straight from the table
func (tdb *TestDB) Stock(productID uuid.UUID) int {
	tdb.t.Helper()

	var stock int
	require.NoError(tdb.t, tdb.DB.Raw("SELECT stock FROM products WHERE id = ?", productID).Scan(&stock).Error)
	return stock
}
