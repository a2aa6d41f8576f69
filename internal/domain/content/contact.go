package content

import (
	"strings"

	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/shared"
)

// Contact is an inbound message from the storefront contact form
type Contact struct {
	shared.BaseEntity
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
	IsRead  bool
}

// NewContact validates and creates an unread message
func NewContact(name, email, phone, subject, message string) (*Contact, error) {
	if err := requireText("Name", name, 100); err != nil {
		return nil, err
	}
	if err := catalog.ValidateEmail(email); err != nil {
		return nil, err
	}
	if phone != "" {
		if err := catalog.ValidatePhone(phone); err != nil {
			return nil, err
		}
	}
	if err := requireText("Subject", subject, 200); err != nil {
		return nil, err
	}
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message is required")
	}
	return &Contact{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Subject:    subject,
		Message:    message,
	}, nil
}

// MarkRead sets the read flag
func (c *Contact) MarkRead() { c.IsRead = true }

// MarkUnread clears the read flag
func (c *Contact) MarkUnread() { c.IsRead = false }
