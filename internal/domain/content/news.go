// Package content holds the storefront CMS entities: news posts, home page
// sliders and inbound contact messages.
package content

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shop/storefront/internal/domain/shared"
)

// News is a published article
type News struct {
	shared.BaseEntity
	Title       string
	Content     string
	ImageURL    string
	Author      string
	PublishDate time.Time
	IsPublished bool
}

// NewsInput carries the editable fields of a news post
type NewsInput struct {
	Title       string
	Content     string
	Author      string
	PublishDate time.Time
	IsPublished bool
}

// NewNews creates a news post. A zero publish date defaults to now.
func NewNews(in NewsInput) (*News, error) {
	n := &News{BaseEntity: shared.NewBaseEntity()}
	if err := n.Update(in); err != nil {
		return nil, err
	}
	return n, nil
}

// Update replaces the editable fields
func (n *News) Update(in NewsInput) error {
	if err := requireText("Title", in.Title, 200); err != nil {
		return err
	}
	if strings.TrimSpace(in.Content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Content is required")
	}
	if in.PublishDate.IsZero() {
		in.PublishDate = time.Now()
	}
	n.Title = in.Title
	n.Content = in.Content
	n.Author = in.Author
	n.PublishDate = in.PublishDate
	n.IsPublished = in.IsPublished
	n.UpdatedAt = time.Now()
	return nil
}

// SetImage sets the public image path and returns the previous one
func (n *News) SetImage(url string) (previous string) {
	previous = n.ImageURL
	n.ImageURL = url
	return previous
}

func requireText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return shared.NewDomainError("INVALID_"+strings.ToUpper(field), field+" is required")
	}
	if utf8.RuneCountInString(value) > max {
		return shared.NewDomainError("INVALID_"+strings.ToUpper(field), field+" is too long")
	}
	return nil
}
