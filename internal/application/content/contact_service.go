package content

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/content"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// ContactNotifier tells the shop about a new contact message
type ContactNotifier interface {
	ContactReceived(ctx context.Context, contact *content.Contact) error
}

// ContactService handles the contact form and the admin inbox
type ContactService struct {
	contactRepo content.ContactRepository
	notifier    ContactNotifier
	limits      appshared.Limits
	logger      *zap.Logger
}

// NewContactService creates a new ContactService. notifier may be nil.
func NewContactService(contactRepo content.ContactRepository, notifier ContactNotifier, limits appshared.Limits, logger *zap.Logger) *ContactService {
	return &ContactService{contactRepo: contactRepo, notifier: notifier, limits: limits, logger: logger}
}

// Submit stores a message from the public form. A failed notification
// does not fail the submission.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (*shared.Result, error) {
	c, err := content.NewContact(req.Name, req.Email, req.Phone, req.Subject, req.Message)
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("contact message received", zap.String("contact_id", c.ID.String()))

	if s.notifier != nil {
		if err := s.notifier.ContactReceived(ctx, c); err != nil {
			s.logger.Warn("failed to send contact notification",
				zap.String("contact_id", c.ID.String()),
				zap.Error(err),
			)
		}
	}
	result := shared.Ok("Thank you for your message. We will get back to you soon.")
	return &result, nil
}

// List returns a page of messages, newest first
func (s *ContactService) List(ctx context.Context, query ContactListQuery) (*ContactListView, error) {
	filter := shared.Filter{Page: query.Page, PageSize: s.limits.AdminPageSize}
	if query.Unread {
		filter.Filters = map[string]interface{}{content.FilterUnread: true}
	}
	page, err := appshared.FetchPage(ctx, filter, s.contactRepo.Count, s.contactRepo.FindAll)
	if err != nil {
		return nil, err
	}
	unread, err := s.UnreadCount(ctx)
	if err != nil {
		return nil, err
	}
	return &ContactListView{
		Contacts:    appshared.MapPage(page, ToContactResponse),
		UnreadCount: unread,
		Query:       query,
	}, nil
}

// UnreadCount counts unread messages
func (s *ContactService) UnreadCount(ctx context.Context) (int64, error) {
	return s.contactRepo.Count(ctx, shared.Filter{Filters: map[string]interface{}{content.FilterUnread: true}})
}

// Get returns a message by ID
func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToContactResponse(c)
	return &response, nil
}

// MarkRead flags a message as read
func (s *ContactService) MarkRead(ctx context.Context, id uuid.UUID) (*shared.Result, error) {
	return s.setRead(ctx, id, true)
}

// MarkUnread flags a message as unread
func (s *ContactService) MarkUnread(ctx context.Context, id uuid.UUID) (*shared.Result, error) {
	return s.setRead(ctx, id, false)
}

func (s *ContactService) setRead(ctx context.Context, id uuid.UUID, read bool) (*shared.Result, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	message := "Message marked as unread"
	if read {
		c.MarkRead()
		message = "Message marked as read"
	} else {
		c.MarkUnread()
	}
	if err := s.contactRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	result := shared.Ok(message)
	return &result, nil
}

// Delete removes a message
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) (*shared.Result, error) {
	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("contact message deleted", zap.String("contact_id", id.String()))
	result := shared.Ok("Message deleted")
	return &result, nil
}
