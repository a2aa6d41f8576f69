package models

import (
	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	Name          string           `gorm:"type:varchar(200);not null;index"`
	Description   string           `gorm:"type:text"`
	Price         decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Stock         int              `gorm:"not null;default:0"`
	ImageURL      string           `gorm:"type:varchar(500)"`
	IsActive      bool             `gorm:"not null"`
	IsFeatured    bool             `gorm:"not null;default:false"`
	IsNewArrival  bool             `gorm:"not null;default:false"`
	IsOnSale      bool             `gorm:"not null;default:false"`
	IsBestSeller  bool             `gorm:"not null;default:false"`
	CategoryID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	SupplierID    *uuid.UUID       `gorm:"type:uuid;index"`

	CategoryName string `gorm:"->;-:migration"`
	SupplierName string `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Price:             m.Price,
		DiscountPrice:     m.DiscountPrice,
		Stock:             m.Stock,
		ImageURL:          m.ImageURL,
		IsActive:          m.IsActive,
		IsFeatured:        m.IsFeatured,
		IsNewArrival:      m.IsNewArrival,
		IsOnSale:          m.IsOnSale,
		IsBestSeller:      m.IsBestSeller,
		CategoryID:        m.CategoryID,
		SupplierID:        m.SupplierID,
		CategoryName:      m.CategoryName,
		SupplierName:      m.SupplierName,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.DiscountPrice = p.DiscountPrice
	m.Stock = p.Stock
	m.ImageURL = p.ImageURL
	m.IsActive = p.IsActive
	m.IsFeatured = p.IsFeatured
	m.IsNewArrival = p.IsNewArrival
	m.IsOnSale = p.IsOnSale
	m.IsBestSeller = p.IsBestSeller
	m.CategoryID = p.CategoryID
	m.SupplierID = p.SupplierID
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null"`
	Description  string `gorm:"type:text"`
	ImageURL     string `gorm:"type:varchar(500)"`
	IsActive     bool   `gorm:"not null"`
	DisplayOrder int    `gorm:"not null;default:0;index"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Description:  m.Description,
		ImageURL:     m.ImageURL,
		IsActive:     m.IsActive,
		DisplayOrder: m.DisplayOrder,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Description = c.Description
	m.ImageURL = c.ImageURL
	m.IsActive = c.IsActive
	m.DisplayOrder = c.DisplayOrder
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// SupplierModel is the persistence model for the Supplier domain entity.
type SupplierModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;index"`
	ContactName string `gorm:"type:varchar(100)"`
	Email       string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
	Address     string `gorm:"type:varchar(500)"`
	IsActive    bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *catalog.Supplier {
	return &catalog.Supplier{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		ContactName: m.ContactName,
		Email:       m.Email,
		Phone:       m.Phone,
		Address:     m.Address,
		IsActive:    m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *catalog.Supplier) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Name = s.Name
	m.ContactName = s.ContactName
	m.Email = s.Email
	m.Phone = s.Phone
	m.Address = s.Address
	m.IsActive = s.IsActive
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier entity.
func SupplierModelFromDomain(s *catalog.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}
