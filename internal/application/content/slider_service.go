package content

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/content"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// SliderService manages home page sliders
type SliderService struct {
	sliderRepo content.SliderRepository
	images     appshared.ImageStore
	logger     *zap.Logger
}

// NewSliderService creates a new SliderService
func NewSliderService(sliderRepo content.SliderRepository, images appshared.ImageStore, logger *zap.Logger) *SliderService {
	return &SliderService{sliderRepo: sliderRepo, images: images, logger: logger}
}

// List returns every slider by display order
func (s *SliderService) List(ctx context.Context) ([]SliderResponse, error) {
	sliders, err := s.sliderRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	out := make([]SliderResponse, len(sliders))
	for i := range sliders {
		out[i] = ToSliderResponse(&sliders[i])
	}
	return out, nil
}

// Get returns a slider by ID
func (s *SliderService) Get(ctx context.Context, id uuid.UUID) (*SliderResponse, error) {
	slider, err := s.sliderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSliderResponse(slider)
	return &response, nil
}

// Create creates a slider. The image is required.
func (s *SliderService) Create(ctx context.Context, req SliderRequest, image *appshared.ImageUpload) (*SliderResponse, error) {
	if image == nil {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Slider image is required")
	}
	path, err := s.images.Save(ctx, appshared.FolderSliders, image.Filename, image.Content)
	if err != nil {
		return nil, err
	}

	slider, err := content.NewSlider(req.input(), path)
	if err != nil {
		appshared.DiscardImage(ctx, s.images, s.logger, path)
		return nil, err
	}
	if err := s.sliderRepo.Save(ctx, slider); err != nil {
		appshared.DiscardImage(ctx, s.images, s.logger, path)
		return nil, err
	}

	s.logger.Info("slider created", zap.String("slider_id", slider.ID.String()))
	response := ToSliderResponse(slider)
	return &response, nil
}

// Update edits a slider, replacing the image when a new one is sent
func (s *SliderService) Update(ctx context.Context, id uuid.UUID, req SliderRequest, image *appshared.ImageUpload) (*SliderResponse, error) {
	slider, err := s.sliderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := slider.Update(req.input()); err != nil {
		return nil, err
	}

	var previous string
	if image != nil {
		path, err := s.images.Save(ctx, appshared.FolderSliders, image.Filename, image.Content)
		if err != nil {
			return nil, err
		}
		previous = slider.SetImage(path)
	}

	if err := s.sliderRepo.Save(ctx, slider); err != nil {
		if image != nil {
			appshared.DiscardImage(ctx, s.images, s.logger, slider.ImageURL)
		}
		return nil, err
	}
	appshared.DiscardImage(ctx, s.images, s.logger, previous)

	response := ToSliderResponse(slider)
	return &response, nil
}

// ToggleActive flips a slider's visibility on the home page
func (s *SliderService) ToggleActive(ctx context.Context, id uuid.UUID) (*shared.Result, error) {
	slider, err := s.sliderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	active := slider.ToggleActive()
	if err := s.sliderRepo.Save(ctx, slider); err != nil {
		return nil, err
	}

	message := "Slider '" + slider.Title + "' hidden"
	if active {
		message = "Slider '" + slider.Title + "' shown"
	}
	result := shared.Ok(message)
	return &result, nil
}

// Delete removes a slider and its image
func (s *SliderService) Delete(ctx context.Context, id uuid.UUID) (*shared.Result, error) {
	slider, err := s.sliderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.sliderRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	appshared.DiscardImage(ctx, s.images, s.logger, slider.ImageURL)

	s.logger.Info("slider deleted", zap.String("slider_id", id.String()))
	result := shared.Ok("Slider deleted")
	return &result, nil
}
