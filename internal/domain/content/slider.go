package content

import (
	"time"

	"github.com/shop/storefront/internal/domain/shared"
)

// Slider is a home page banner
type Slider struct {
	shared.BaseEntity
	Title        string
	Subtitle     string
	ImageURL     string
	LinkURL      string
	DisplayOrder int
	IsActive     bool
}

// SliderInput carries the editable fields of a slider
type SliderInput struct {
	Title        string
	Subtitle     string
	LinkURL      string
	DisplayOrder int
	IsActive     bool
}

// NewSlider creates a slider. The banner image is mandatory.
func NewSlider(in SliderInput, imageURL string) (*Slider, error) {
	if imageURL == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Slider image is required")
	}
	s := &Slider{BaseEntity: shared.NewBaseEntity(), ImageURL: imageURL}
	if err := s.Update(in); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the editable fields
func (s *Slider) Update(in SliderInput) error {
	if err := requireText("Title", in.Title, 100); err != nil {
		return err
	}
	s.Title = in.Title
	s.Subtitle = in.Subtitle
	s.LinkURL = in.LinkURL
	s.DisplayOrder = in.DisplayOrder
	s.IsActive = in.IsActive
	s.UpdatedAt = time.Now()
	return nil
}

// SetImage sets the public image path and returns the previous one
func (s *Slider) SetImage(url string) (previous string) {
	previous = s.ImageURL
	s.ImageURL = url
	return previous
}

// ToggleActive flips the active flag
func (s *Slider) ToggleActive() bool {
	s.IsActive = !s.IsActive
	s.UpdatedAt = time.Now()
	return s.IsActive
}
