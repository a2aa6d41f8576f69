package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/content"
	"github.com/shop/storefront/internal/domain/shared"
)

// NewsRequest represents a request to create or update a news post
type NewsRequest struct {
	Title       string     `json:"title" form:"title" binding:"required,max=200"`
	Content     string     `json:"content" form:"content" binding:"required"`
	Author      string     `json:"author" form:"author" binding:"max=100"`
	PublishDate *time.Time `json:"publish_date" form:"publish_date" time_format:"2006-01-02"`
	IsPublished bool       `json:"is_published" form:"is_published"`
}

func (r NewsRequest) input() content.NewsInput {
	in := content.NewsInput{
		Title:       r.Title,
		Content:     r.Content,
		Author:      r.Author,
		IsPublished: r.IsPublished,
	}
	if r.PublishDate != nil {
		in.PublishDate = *r.PublishDate
	}
	return in
}

// NewsResponse represents a news post in API responses
type NewsResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url,omitempty"`
	Author      string    `json:"author,omitempty"`
	PublishDate time.Time `json:"publish_date"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToNewsResponse converts a domain News to NewsResponse
func ToNewsResponse(n *content.News) NewsResponse {
	return NewsResponse{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		ImageURL:    n.ImageURL,
		Author:      n.Author,
		PublishDate: n.PublishDate,
		IsPublished: n.IsPublished,
		CreatedAt:   n.CreatedAt,
	}
}

// NewsDetailsView is a news page with other recent posts
type NewsDetailsView struct {
	News   NewsResponse   `json:"news"`
	Recent []NewsResponse `json:"recent"`
}

// SliderRequest represents a request to create or update a slider
type SliderRequest struct {
	Title        string `json:"title" form:"title" binding:"required,max=100"`
	Subtitle     string `json:"subtitle" form:"subtitle" binding:"max=200"`
	LinkURL      string `json:"link_url" form:"link_url" binding:"omitempty,max=500"`
	DisplayOrder int    `json:"display_order" form:"display_order"`
	IsActive     *bool  `json:"is_active" form:"is_active"`
}

func (r SliderRequest) input() content.SliderInput {
	return content.SliderInput{
		Title:        r.Title,
		Subtitle:     r.Subtitle,
		LinkURL:      r.LinkURL,
		DisplayOrder: r.DisplayOrder,
		IsActive:     r.IsActive == nil || *r.IsActive,
	}
}

// SliderResponse represents a slider in API responses
type SliderResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	ImageURL     string    `json:"image_url"`
	LinkURL      string    `json:"link_url,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
}

// ToSliderResponse converts a domain Slider to SliderResponse
func ToSliderResponse(s *content.Slider) SliderResponse {
	return SliderResponse{
		ID:           s.ID,
		Title:        s.Title,
		Subtitle:     s.Subtitle,
		ImageURL:     s.ImageURL,
		LinkURL:      s.LinkURL,
		DisplayOrder: s.DisplayOrder,
		IsActive:     s.IsActive,
	}
}

// ContactRequest is the public contact form
type ContactRequest struct {
	Name    string `json:"name" form:"name" binding:"required,max=100"`
	Email   string `json:"email" form:"email" binding:"required,email,max=200"`
	Phone   string `json:"phone" form:"phone" binding:"max=50"`
	Subject string `json:"subject" form:"subject" binding:"required,max=200"`
	Message string `json:"message" form:"message" binding:"required,max=4000"`
}

// ContactResponse represents a contact message in API responses
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToContactResponse converts a domain Contact to ContactResponse
func ToContactResponse(c *content.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Subject:   c.Subject,
		Message:   c.Message,
		IsRead:    c.IsRead,
		CreatedAt: c.CreatedAt,
	}
}

// ContactListQuery holds the admin contact list parameters
type ContactListQuery struct {
	Unread bool `form:"unread"`
	Page   int  `form:"page"`
}

// ContactListView is the admin inbox with its unread count
type ContactListView struct {
	Contacts    shared.Paginated[ContactResponse] `json:"contacts"`
	UnreadCount int64                             `json:"unread_count"`
	Query       ContactListQuery                  `json:"query"`
}
