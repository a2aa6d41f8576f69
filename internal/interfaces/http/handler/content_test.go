package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcontent "github.com/shop/storefront/internal/application/content"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNewsService struct {
	mock.Mock
}

func (m *MockNewsService) List(ctx context.Context, search string, page int) (shared.Paginated[appcontent.NewsResponse], error) {
	args := m.Called(ctx, search, page)
	return args.Get(0).(shared.Paginated[appcontent.NewsResponse]), args.Error(1)
}

func (m *MockNewsService) Get(ctx context.Context, id uuid.UUID) (*appcontent.NewsResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcontent.NewsResponse), args.Error(1)
}

func (m *MockNewsService) Create(ctx context.Context, req appcontent.NewsRequest, image *appshared.ImageUpload) (*appcontent.NewsResponse, error) {
	args := m.Called(ctx, req, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcontent.NewsResponse), args.Error(1)
}

func (m *MockNewsService) Update(ctx context.Context, id uuid.UUID, req appcontent.NewsRequest, image *appshared.ImageUpload) (*appcontent.NewsResponse, error) {
	args := m.Called(ctx, id, req, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcontent.NewsResponse), args.Error(1)
}

func (m *MockNewsService) Delete(ctx context.Context, id uuid.UUID) (*shared.Result, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Result), args.Error(1)
}

type MockContactInbox struct {
	mock.Mock
}

func (m *MockContactInbox) List(ctx context.Context, query appcontent.ContactListQuery) (*appcontent.ContactListView, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcontent.ContactListView), args.Error(1)
}

func (m *MockContactInbox) UnreadCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactInbox) Get(ctx context.Context, id uuid.UUID) (*appcontent.ContactResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcontent.ContactResponse), args.Error(1)
}

func (m *MockContactInbox) MarkRead(ctx context.Context, id uuid.UUID) (*shared.Result, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Result), args.Error(1)
}

func (m *MockContactInbox) MarkUnread(ctx context.Context, id uuid.UUID) (*shared.Result, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Result), args.Error(1)
}

func (m *MockContactInbox) Delete(ctx context.Context, id uuid.UUID) (*shared.Result, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Result), args.Error(1)
}

func setupContentRouter(news NewsService, contacts ContactInbox) *gin.Engine {
	h := NewContentHandler(news, nil, contacts)
	r := gin.New()
	r.GET("/admin/news", h.ListNews)
	r.POST("/upload", h.CreateNews)
	r.DELETE("/admin/news/:id", h.DeleteNews)
	r.GET("/admin/contacts", h.ListContacts)
	r.GET("/admin/contacts/unread-count", h.UnreadContacts)
	r.POST("/admin/contacts/:id/read", h.MarkContactRead)
	return r
}

func TestContentHandler_CreateNews(t *testing.T) {
	t.Run("multipart with image", func(t *testing.T) {
		news := new(MockNewsService)
		var uploaded string
		news.On("Create", mock.Anything,
			mock.MatchedBy(func(req appcontent.NewsRequest) bool { return req.Title == "Spring sale" && req.IsPublished }),
			mock.MatchedBy(func(img *appshared.ImageUpload) bool { return img != nil && img.Filename == "photo.png" }),
		).Run(func(args mock.Arguments) {
			raw, _ := io.ReadAll(args.Get(2).(*appshared.ImageUpload).Content)
			uploaded = string(raw)
		}).Return(&appcontent.NewsResponse{Title: "Spring sale"}, nil)

		w := httptest.NewRecorder()
		setupContentRouter(news, nil).ServeHTTP(w,
			multipartRequest(t, `{"title":"Spring sale","content":"Everything half off","is_published":true}`, []byte("img")))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "img", uploaded)
		news.AssertExpectations(t)
	})

	t.Run("plain JSON without image", func(t *testing.T) {
		news := new(MockNewsService)
		news.On("Create", mock.Anything, mock.Anything, (*appshared.ImageUpload)(nil)).
			Return(&appcontent.NewsResponse{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/upload", jsonBody(t, gin.H{"title": "Hello", "content": "World"}))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		setupContentRouter(news, nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		news.AssertExpectations(t)
	})

	t.Run("title is required", func(t *testing.T) {
		news := new(MockNewsService)

		w := httptest.NewRecorder()
		setupContentRouter(news, nil).ServeHTTP(w, multipartRequest(t, `{"content":"no title"}`, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		news.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestContentHandler_ListNews(t *testing.T) {
	news := new(MockNewsService)
	page := shared.NewPaginated([]appcontent.NewsResponse{{Title: "a"}}, 11, 2, 10)
	news.On("List", mock.Anything, "sale", 2).Return(page, nil)

	w := httptest.NewRecorder()
	setupContentRouter(news, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/news?search=sale&page=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}

func TestContentHandler_DeleteNews(t *testing.T) {
	id := uuid.New()
	news := new(MockNewsService)
	news.On("Delete", mock.Anything, id).Return(nil, shared.NewDomainError("NEWS_NOT_FOUND", "News not found"))

	w := httptest.NewRecorder()
	setupContentRouter(news, nil).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/news/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContentHandler_Contacts(t *testing.T) {
	t.Run("unread filter", func(t *testing.T) {
		contacts := new(MockContactInbox)
		contacts.On("List", mock.Anything, appcontent.ContactListQuery{Unread: true, Page: 1}).
			Return(&appcontent.ContactListView{}, nil)

		w := httptest.NewRecorder()
		setupContentRouter(nil, contacts).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/contacts?unread=true", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		contacts.AssertExpectations(t)
	})

	t.Run("unread count", func(t *testing.T) {
		contacts := new(MockContactInbox)
		contacts.On("UnreadCount", mock.Anything).Return(int64(4), nil)

		w := httptest.NewRecorder()
		setupContentRouter(nil, contacts).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/contacts/unread-count", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"count": float64(4)}, decode(t, w).Data)
	})

	t.Run("mark read", func(t *testing.T) {
		id := uuid.New()
		contacts := new(MockContactInbox)
		ok := shared.Ok("Marked as read")
		contacts.On("MarkRead", mock.Anything, id).Return(&ok, nil)

		w := httptest.NewRecorder()
		setupContentRouter(nil, contacts).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/contacts/"+id.String()+"/read", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Marked as read", decode(t, w).Message)
	})
}
