package content

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/content"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type notifierFunc func(ctx context.Context, c *content.Contact) error

func (f notifierFunc) ContactReceived(ctx context.Context, c *content.Contact) error { return f(ctx, c) }

func TestNewsService_Published(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockNewsRepository)
	svc := NewNewsService(repo, new(testutil.MockImageStore), appshared.DefaultLimits(), zap.NewNop())

	published := mock.MatchedBy(func(f shared.Filter) bool { return f.Filters[content.FilterPublished] == true })
	repo.On("Count", ctx, published).Return(int64(11), nil)
	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 3 && f.PageSize == 5
	})).Return([]content.News{}, nil)

	page, err := svc.Published(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 3, page.TotalPages)
}

func TestNewsService_Details(t *testing.T) {
	ctx := context.Background()

	t.Run("includes three other posts", func(t *testing.T) {
		repo := new(testutil.MockNewsRepository)
		svc := NewNewsService(repo, new(testutil.MockImageStore), appshared.DefaultLimits(), zap.NewNop())
		n, err := content.NewNews(content.NewsInput{Title: "Sale", Content: "Everything", IsPublished: true})
		require.NoError(t, err)

		repo.On("FindByID", ctx, n.ID).Return(n, nil)
		repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.PageSize == 3 && f.Filters[content.FilterExcludeID] == n.ID
		})).Return([]content.News{{Title: "Older"}}, nil)

		view, err := svc.Details(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sale", view.News.Title)
		assert.Len(t, view.Recent, 1)
	})

	t.Run("draft is not found", func(t *testing.T) {
		repo := new(testutil.MockNewsRepository)
		svc := NewNewsService(repo, new(testutil.MockImageStore), appshared.DefaultLimits(), zap.NewNop())
		n, err := content.NewNews(content.NewsInput{Title: "Draft", Content: "Soon"})
		require.NoError(t, err)
		repo.On("FindByID", ctx, n.ID).Return(n, nil)

		_, err = svc.Details(ctx, n.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestNewsService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockNewsRepository)
	images := new(testutil.MockImageStore)
	svc := NewNewsService(repo, images, appshared.DefaultLimits(), zap.NewNop())

	n, err := content.NewNews(content.NewsInput{Title: "Sale", Content: "Everything"})
	require.NoError(t, err)
	n.SetImage("/images/news/old_a.png")

	repo.On("FindByID", ctx, n.ID).Return(n, nil)
	images.On("Save", ctx, appshared.FolderNews, "b.png", mock.Anything).Return("/images/news/new_b.png", nil)
	repo.On("Save", ctx, n).Return(nil)
	images.On("Delete", ctx, "/images/news/old_a.png").Return(nil)

	resp, err := svc.Update(ctx, n.ID, NewsRequest{Title: "Sale!", Content: "Everything"},
		&appshared.ImageUpload{Filename: "b.png", Content: bytes.NewReader([]byte("png"))})
	require.NoError(t, err)
	assert.Equal(t, "/images/news/new_b.png", resp.ImageURL)
	images.AssertExpectations(t)
}

func TestSliderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("image is required", func(t *testing.T) {
		svc := NewSliderService(new(testutil.MockSliderRepository), new(testutil.MockImageStore), zap.NewNop())
		_, err := svc.Create(ctx, SliderRequest{Title: "Summer"}, nil)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_IMAGE", domainErr.Code)
	})

	t.Run("failed save discards the upload", func(t *testing.T) {
		repo := new(testutil.MockSliderRepository)
		images := new(testutil.MockImageStore)
		svc := NewSliderService(repo, images, zap.NewNop())

		images.On("Save", ctx, appshared.FolderSliders, "s.jpg", mock.Anything).Return("/images/sliders/x_s.jpg", nil)
		repo.On("Save", ctx, mock.Anything).Return(errors.New("db down"))
		images.On("Delete", ctx, "/images/sliders/x_s.jpg").Return(nil)

		_, err := svc.Create(ctx, SliderRequest{Title: "Summer"},
			&appshared.ImageUpload{Filename: "s.jpg", Content: bytes.NewReader(nil)})
		assert.Error(t, err)
		images.AssertExpectations(t)
	})
}

func TestSliderService_ToggleActive(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockSliderRepository)
	svc := NewSliderService(repo, new(testutil.MockImageStore), zap.NewNop())

	s, err := content.NewSlider(content.SliderInput{Title: "Summer", IsActive: true}, "/images/sliders/a.jpg")
	require.NoError(t, err)
	repo.On("FindByID", ctx, s.ID).Return(s, nil)
	repo.On("Save", ctx, s).Return(nil)

	result, err := svc.ToggleActive(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Slider 'Summer' hidden", result.Message)
	assert.False(t, s.IsActive)
}

func TestContactService_Submit(t *testing.T) {
	ctx := context.Background()
	req := ContactRequest{Name: "Lan", Email: "lan@example.com", Subject: "Order", Message: "Where is it?"}

	t.Run("notifies the shop", func(t *testing.T) {
		repo := new(testutil.MockContactRepository)
		var notified *content.Contact
		svc := NewContactService(repo, notifierFunc(func(_ context.Context, c *content.Contact) error {
			notified = c
			return nil
		}), appshared.DefaultLimits(), zap.NewNop())
		repo.On("Save", ctx, mock.AnythingOfType("*content.Contact")).Return(nil)

		result, err := svc.Submit(ctx, req)
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, notified)
		assert.False(t, notified.IsRead)
	})

	t.Run("notification failure is only logged", func(t *testing.T) {
		repo := new(testutil.MockContactRepository)
		core, logs := observer.New(zapcore.WarnLevel)
		svc := NewContactService(repo, notifierFunc(func(context.Context, *content.Contact) error {
			return errors.New("smtp refused")
		}), appshared.DefaultLimits(), zap.New(core))
		repo.On("Save", ctx, mock.Anything).Return(nil)

		result, err := svc.Submit(ctx, req)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 1, logs.FilterMessage("failed to send contact notification").Len())
	})

	t.Run("invalid email", func(t *testing.T) {
		repo := new(testutil.MockContactRepository)
		svc := NewContactService(repo, nil, appshared.DefaultLimits(), zap.NewNop())
		bad := req
		bad.Email = "nope"

		_, err := svc.Submit(ctx, bad)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestContactService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockContactRepository)
	svc := NewContactService(repo, nil, appshared.DefaultLimits(), zap.NewNop())

	unread := mock.MatchedBy(func(f shared.Filter) bool { return f.Filters[content.FilterUnread] == true })
	repo.On("Count", ctx, unread).Return(int64(4), nil)
	repo.On("FindAll", ctx, unread).Return([]content.Contact{}, nil)

	view, err := svc.List(ctx, ContactListQuery{Unread: true})
	require.NoError(t, err)
	assert.Equal(t, int64(4), view.UnreadCount)
	assert.Equal(t, 1, view.Contacts.Page)
}

func TestContactService_MarkRead(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockContactRepository)
	svc := NewContactService(repo, nil, appshared.DefaultLimits(), zap.NewNop())

	c, err := content.NewContact("Lan", "lan@example.com", "", "Hi", "Hello")
	require.NoError(t, err)
	repo.On("FindByID", ctx, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)

	_, err = svc.MarkRead(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, c.IsRead)

	_, err = svc.MarkUnread(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, c.IsRead)

	missing := uuid.New()
	repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	_, err = svc.MarkRead(ctx, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
