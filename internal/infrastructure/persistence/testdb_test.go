package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with every table migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string, displayOrder int) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name, "", displayOrder)
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Save(context.Background(), c))
	return c
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) *catalog.Supplier {
	t.Helper()
	s, err := catalog.NewSupplier(name, catalog.SupplierContact{})
	require.NoError(t, err)
	require.NoError(t, NewGormSupplierRepository(db).Save(context.Background(), s))
	return s
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int, categoryID uuid.UUID, supplierID *uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, name+" description", decimal.RequireFromString(price), nil, stock, categoryID, supplierID)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}
