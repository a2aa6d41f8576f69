// Package content serves news posts, home page sliders and contact messages.
package content

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/content"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// NewsService manages news posts
type NewsService struct {
	newsRepo content.NewsRepository
	images   appshared.ImageStore
	limits   appshared.Limits
	logger   *zap.Logger
}

// NewNewsService creates a new NewsService
func NewNewsService(newsRepo content.NewsRepository, images appshared.ImageStore, limits appshared.Limits, logger *zap.Logger) *NewsService {
	return &NewsService{newsRepo: newsRepo, images: images, limits: limits, logger: logger}
}

// Published returns a page of published posts, newest first
func (s *NewsService) Published(ctx context.Context, page int) (shared.Paginated[NewsResponse], error) {
	filter := shared.Filter{
		Page:     page,
		PageSize: s.limits.NewsPageSize,
		Filters:  map[string]interface{}{content.FilterPublished: true},
	}
	result, err := appshared.FetchPage(ctx, filter, s.newsRepo.Count, s.newsRepo.FindAll)
	if err != nil {
		return shared.Paginated[NewsResponse]{}, err
	}
	return appshared.MapPage(result, ToNewsResponse), nil
}

// Details returns a published post with the most recent other posts.
// Unpublished posts are not found.
func (s *NewsService) Details(ctx context.Context, id uuid.UUID) (*NewsDetailsView, error) {
	n, err := s.newsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.IsPublished {
		return nil, shared.ErrNotFound
	}

	recent, err := s.newsRepo.FindAll(ctx, shared.Filter{
		Page:     1,
		PageSize: s.limits.RelatedNews,
		Filters: map[string]interface{}{
			content.FilterPublished: true,
			content.FilterExcludeID: n.ID,
		},
	})
	if err != nil {
		return nil, err
	}

	view := &NewsDetailsView{News: ToNewsResponse(n), Recent: make([]NewsResponse, len(recent))}
	for i := range recent {
		view.Recent[i] = ToNewsResponse(&recent[i])
	}
	return view, nil
}

// List returns a page of all posts for the back-office, newest first
func (s *NewsService) List(ctx context.Context, search string, page int) (shared.Paginated[NewsResponse], error) {
	filter := shared.Filter{Page: page, PageSize: s.limits.AdminPageSize, Search: search}
	result, err := appshared.FetchPage(ctx, filter, s.newsRepo.Count, s.newsRepo.FindAll)
	if err != nil {
		return shared.Paginated[NewsResponse]{}, err
	}
	return appshared.MapPage(result, ToNewsResponse), nil
}

// Get returns any post by ID
func (s *NewsService) Get(ctx context.Context, id uuid.UUID) (*NewsResponse, error) {
	n, err := s.newsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToNewsResponse(n)
	return &response, nil
}

// Create creates a post with an optional image
func (s *NewsService) Create(ctx context.Context, req NewsRequest, image *appshared.ImageUpload) (*NewsResponse, error) {
	n, err := content.NewNews(req.input())
	if err != nil {
		return nil, err
	}
	if image != nil {
		path, err := s.images.Save(ctx, appshared.FolderNews, image.Filename, image.Content)
		if err != nil {
			return nil, err
		}
		n.SetImage(path)
	}

	if err := s.newsRepo.Save(ctx, n); err != nil {
		appshared.DiscardImage(ctx, s.images, s.logger, n.ImageURL)
		return nil, err
	}

	s.logger.Info("news created", zap.String("news_id", n.ID.String()))
	response := ToNewsResponse(n)
	return &response, nil
}

// Update edits a post. A new image replaces the stored one.
func (s *NewsService) Update(ctx context.Context, id uuid.UUID, req NewsRequest, image *appshared.ImageUpload) (*NewsResponse, error) {
	n, err := s.newsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := n.Update(req.input()); err != nil {
		return nil, err
	}

	var previous string
	if image != nil {
		path, err := s.images.Save(ctx, appshared.FolderNews, image.Filename, image.Content)
		if err != nil {
			return nil, err
		}
		previous = n.SetImage(path)
	}

	if err := s.newsRepo.Save(ctx, n); err != nil {
		if image != nil {
			appshared.DiscardImage(ctx, s.images, s.logger, n.ImageURL)
		}
		return nil, err
	}
	appshared.DiscardImage(ctx, s.images, s.logger, previous)

	s.logger.Info("news updated", zap.String("news_id", n.ID.String()))
	response := ToNewsResponse(n)
	return &response, nil
}

// Delete removes a post and its image
func (s *NewsService) Delete(ctx context.Context, id uuid.UUID) (*shared.Result, error) {
	n, err := s.newsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.newsRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	appshared.DiscardImage(ctx, s.images, s.logger, n.ImageURL)

	s.logger.Info("news deleted", zap.String("news_id", id.String()))
	result := shared.Ok("News deleted")
	return &result, nil
}
