// Package shared holds application-layer contracts used by several services.
package shared

import (
	"context"

	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/inventory"
	"github.com/shop/storefront/internal/domain/order"
)

// TransactionScope defines the interface for executing operations within a transaction.
// Stock changes and the records that justify them (orders, receipts) commit together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	// Products returns the product repository, including its stock mutator
	Products() catalog.ProductRepository
	// Receipts returns the inventory receipt repository
	Receipts() inventory.ReceiptRepository
	// Orders returns the order repository
	Orders() order.Repository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	products catalog.ProductRepository
	receipts inventory.ReceiptRepository
	orders   order.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	products catalog.ProductRepository,
	receipts inventory.ReceiptRepository,
	orders order.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		products: products,
		receipts: receipts,
		orders:   orders,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.products
}

// Receipts returns the receipt repository.
func (s *NoOpTransactionScope) Receipts() inventory.ReceiptRepository {
	return s.receipts
}

// Orders returns the order repository.
func (s *NoOpTransactionScope) Orders() order.Repository {
	return s.orders
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
