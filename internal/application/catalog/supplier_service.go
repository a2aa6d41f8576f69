package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService handles supplier administration
type SupplierService struct {
	supplierRepo catalog.SupplierRepository
	productRepo  catalog.ProductRepository
	limits       appshared.Limits
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(
	supplierRepo catalog.SupplierRepository,
	productRepo catalog.ProductRepository,
	limits appshared.Limits,
	logger *zap.Logger,
) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		limits:       limits,
		logger:       logger,
	}
}

// List returns a page of suppliers ordered by name
func (s *SupplierService) List(ctx context.Context, search string, page int) (shared.Paginated[SupplierResponse], error) {
	filter := shared.Filter{Page: page, PageSize: s.limits.AdminPageSize, Search: search}
	result, err := appshared.FetchPage(ctx, filter, s.supplierRepo.Count, s.supplierRepo.FindAll)
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}
	return appshared.MapPage(result, ToSupplierResponse), nil
}

// Options returns every supplier as a select-list entry
func (s *SupplierService) Options(ctx context.Context) ([]Option, error) {
	suppliers, err := s.supplierRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	out := make([]Option, len(suppliers))
	for i, sup := range suppliers {
		out[i] = Option{ID: sup.ID, Name: sup.Name}
	}
	return out, nil
}

// Get returns a supplier by ID
func (s *SupplierService) Get(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Create creates a supplier
func (s *SupplierService) Create(ctx context.Context, req SupplierRequest) (*SupplierResponse, error) {
	supplier, err := catalog.NewSupplier(req.Name, req.contact())
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("supplier created", zap.String("supplier_id", supplier.ID.String()))
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Update replaces a supplier's details
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req SupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	isActive := supplier.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	if err := supplier.Update(req.Name, req.contact(), isActive); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete removes a supplier that no product or inventory receipt references
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) (shared.Result, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return shared.Result{}, err
	}

	products, err := s.productRepo.CountBySupplier(ctx, id)
	if err != nil {
		return shared.Result{}, err
	}
	if products > 0 {
		return shared.Fail(fmt.Sprintf("Supplier '%s' has %d products and cannot be deleted", supplier.Name, products)), nil
	}

	receipts, err := s.supplierRepo.CountReceipts(ctx, id)
	if err != nil {
		return shared.Result{}, err
	}
	if receipts > 0 {
		return shared.Fail(fmt.Sprintf("Supplier '%s' has %d inventory receipts and cannot be deleted", supplier.Name, receipts)), nil
	}

	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return shared.Result{}, err
	}
	s.logger.Info("supplier deleted", zap.String("supplier_id", id.String()))
	return shared.Ok(fmt.Sprintf("Supplier '%s' was deleted", supplier.Name)), nil
}
