package catalog

import (
	"time"

	"github.com/shop/storefront/internal/domain/shared"
)

// Supplier provides products and stock receipts
type Supplier struct {
	shared.BaseEntity
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
	IsActive    bool
}

// SupplierContact holds the optional contact fields of a supplier
type SupplierContact struct {
	ContactName string
	Email       string
	Phone       string
	Address     string
}

// NewSupplier creates a new active supplier
func NewSupplier(name string, contact SupplierContact) (*Supplier, error) {
	if err := validateName("Supplier", name, 100); err != nil {
		return nil, err
	}
	s := &Supplier{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		IsActive:   true,
	}
	if err := s.SetContact(contact); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces name, contact details and active flag
func (s *Supplier) Update(name string, contact SupplierContact, isActive bool) error {
	if err := validateName("Supplier", name, 100); err != nil {
		return err
	}
	if err := s.SetContact(contact); err != nil {
		return err
	}
	s.Name = name
	s.IsActive = isActive
	s.UpdatedAt = time.Now()
	return nil
}

// SetContact validates and applies contact details
func (s *Supplier) SetContact(contact SupplierContact) error {
	if contact.Email != "" {
		if err := ValidateEmail(contact.Email); err != nil {
			return err
		}
	}
	if contact.Phone != "" {
		if err := ValidatePhone(contact.Phone); err != nil {
			return err
		}
	}
	s.ContactName = contact.ContactName
	s.Email = contact.Email
	s.Phone = contact.Phone
	s.Address = contact.Address
	return nil
}
