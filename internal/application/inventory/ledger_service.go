package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/inventory"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerService records stock receipts. Every receipt write and the stock
// change it implies commit in one transaction.
type LedgerService struct {
	txScope      appshared.TransactionScope
	receiptRepo  inventory.ReceiptRepository
	supplierRepo catalog.SupplierRepository
	events       shared.EventPublisher
	limits       appshared.Limits
	logger       *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	txScope appshared.TransactionScope,
	receiptRepo inventory.ReceiptRepository,
	supplierRepo catalog.SupplierRepository,
	events shared.EventPublisher,
	limits appshared.Limits,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		txScope:      txScope,
		receiptRepo:  receiptRepo,
		supplierRepo: supplierRepo,
		events:       events,
		limits:       limits,
		logger:       logger,
	}
}

// List returns a page of receipts, most recently received first
func (s *LedgerService) List(ctx context.Context, query ReceiptListQuery) (shared.Paginated[ReceiptResponse], error) {
	filter := shared.Filter{
		Page:     query.Page,
		PageSize: s.limits.AdminPageSize,
		Search:   query.Search,
		Filters:  map[string]interface{}{},
	}
	if query.ProductID != nil {
		filter.Filters[inventory.FilterProductID] = *query.ProductID
	}
	if query.SupplierID != nil {
		filter.Filters[inventory.FilterSupplierID] = *query.SupplierID
	}

	page, err := appshared.FetchPage(ctx, filter, s.receiptRepo.Count, s.receiptRepo.FindAll)
	if err != nil {
		return shared.Paginated[ReceiptResponse]{}, err
	}
	return appshared.MapPage(page, ToReceiptResponse), nil
}

// Get returns a receipt by ID
func (s *LedgerService) Get(ctx context.Context, id uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Receive records a delivery and adds its quantity to the product's stock
func (s *LedgerService) Receive(ctx context.Context, req ReceiveRequest) (*LedgerResult, error) {
	supplier, err := s.requireSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	receipt, err := inventory.NewReceipt(req.ProductID, req.SupplierID, req.Quantity, dateOrZero(req.ReceivedDate), req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		product, err := repos.Products().FindByID(ctx, receipt.ProductID)
		if err != nil {
			return err
		}
		receipt.ProductName = product.Name
		receipt.SupplierName = supplier.Name

		if err := repos.Receipts().Save(ctx, receipt); err != nil {
			return err
		}
		return repos.Products().IncreaseStock(ctx, receipt.ProductID, receipt.Quantity)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, receipt.GetDomainEvents()...)
	receipt.ClearDomainEvents()

	s.logger.Info("stock received",
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("product_id", receipt.ProductID.String()),
		zap.Int("quantity", receipt.Quantity),
	)
	response := ToReceiptResponse(receipt)
	return &LedgerResult{
		Result:  shared.Ok(fmt.Sprintf("Received %d units of '%s'", receipt.Quantity, receipt.ProductName)),
		Receipt: &response,
	}, nil
}

// Amend changes a receipt and moves the product's stock by the quantity
// difference. A reduction larger than the remaining stock floors it at zero.
func (s *LedgerService) Amend(ctx context.Context, id uuid.UUID, req AmendRequest) (*LedgerResult, error) {
	supplier, err := s.requireSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	var (
		receipt   *inventory.Receipt
		shortfall int
	)
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		receipt, err = repos.Receipts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := repos.Products().FindByID(ctx, receipt.ProductID); err != nil {
			return err
		}

		delta, err := receipt.Amend(req.SupplierID, req.Quantity, dateOrZero(req.ReceivedDate), req.Notes)
		if err != nil {
			return err
		}
		receipt.SupplierName = supplier.Name
		if err := repos.Receipts().Save(ctx, receipt); err != nil {
			return err
		}

		switch {
		case delta > 0:
			return repos.Products().IncreaseStock(ctx, receipt.ProductID, delta)
		case delta < 0:
			shortfall, err = repos.Products().DecreaseStockClamped(ctx, receipt.ProductID, -delta)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, receipt.GetDomainEvents()...)
	receipt.ClearDomainEvents()

	message := "Receipt updated"
	if shortfall > 0 {
		s.logger.Warn("receipt amendment clamped stock at zero",
			zap.String("receipt_id", id.String()),
			zap.String("product_id", receipt.ProductID.String()),
			zap.Int("shortfall", shortfall),
		)
		message = fmt.Sprintf("Receipt updated. Stock was floored at zero; %d units could not be removed", shortfall)
	}
	s.logger.Info("receipt amended", zap.String("receipt_id", id.String()))

	response := ToReceiptResponse(receipt)
	return &LedgerResult{Result: shared.Ok(message), Receipt: &response, Shortfall: shortfall}, nil
}

// Retract deletes a receipt and removes its quantity from stock, flooring
// at zero. A receipt whose product no longer exists is removed without
// touching stock.
func (s *LedgerService) Retract(ctx context.Context, id uuid.UUID) (*LedgerResult, error) {
	var (
		receipt        *inventory.Receipt
		shortfall      int
		productMissing bool
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		receipt, err = repos.Receipts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.Receipts().Delete(ctx, id); err != nil {
			return err
		}

		shortfall, err = repos.Products().DecreaseStockClamped(ctx, receipt.ProductID, receipt.Quantity)
		if errors.Is(err, shared.ErrNotFound) {
			productMissing = true
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	message := "Receipt deleted"
	switch {
	case productMissing:
		s.logger.Warn("retracted receipt references a missing product; stock not adjusted",
			zap.String("receipt_id", id.String()),
			zap.String("product_id", receipt.ProductID.String()),
		)
		message = "Receipt deleted. Its product no longer exists, so no stock was adjusted"
	case shortfall > 0:
		s.logger.Warn("receipt retraction clamped stock at zero",
			zap.String("receipt_id", id.String()),
			zap.String("product_id", receipt.ProductID.String()),
			zap.Int("shortfall", shortfall),
		)
		message = fmt.Sprintf("Receipt deleted. Stock was floored at zero; %d units could not be removed", shortfall)
	}
	if !productMissing {
		s.publish(ctx, inventory.NewStockReceivedEvent(receipt, -(receipt.Quantity - shortfall)))
	}

	s.logger.Info("receipt retracted",
		zap.String("receipt_id", id.String()),
		zap.Int("quantity", receipt.Quantity),
	)
	return &LedgerResult{Result: shared.Ok(message), Shortfall: shortfall}, nil
}

// requireSupplier loads the supplier a receipt refers to
func (s *LedgerService) requireSupplier(ctx context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("NOT_FOUND", "Supplier not found", err)
		}
		return nil, err
	}
	return supplier, nil
}

func (s *LedgerService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish inventory events", zap.Error(err))
	}
}
