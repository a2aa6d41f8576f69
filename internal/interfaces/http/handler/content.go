package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcontent "github.com/shop/storefront/internal/application/content"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/shared"
)

// NewsService is the back-office news management
type NewsService interface {
	List(ctx context.Context, search string, page int) (shared.Paginated[appcontent.NewsResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*appcontent.NewsResponse, error)
	Create(ctx context.Context, req appcontent.NewsRequest, image *appshared.ImageUpload) (*appcontent.NewsResponse, error)
	Update(ctx context.Context, id uuid.UUID, req appcontent.NewsRequest, image *appshared.ImageUpload) (*appcontent.NewsResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*shared.Result, error)
}

// SliderService is the back-office slider management
type SliderService interface {
	List(ctx context.Context) ([]appcontent.SliderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*appcontent.SliderResponse, error)
	Create(ctx context.Context, req appcontent.SliderRequest, image *appshared.ImageUpload) (*appcontent.SliderResponse, error)
	Update(ctx context.Context, id uuid.UUID, req appcontent.SliderRequest, image *appshared.ImageUpload) (*appcontent.SliderResponse, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*shared.Result, error)
	Delete(ctx context.Context, id uuid.UUID) (*shared.Result, error)
}

// ContactInbox is the back-office view of contact messages
type ContactInbox interface {
	List(ctx context.Context, query appcontent.ContactListQuery) (*appcontent.ContactListView, error)
	UnreadCount(ctx context.Context) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (*appcontent.ContactResponse, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*shared.Result, error)
	MarkUnread(ctx context.Context, id uuid.UUID) (*shared.Result, error)
	Delete(ctx context.Context, id uuid.UUID) (*shared.Result, error)
}

// ContentHandler handles news, slider and contact administration
type ContentHandler struct {
	BaseHandler
	news     NewsService
	sliders  SliderService
	contacts ContactInbox
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(news NewsService, sliders SliderService, contacts ContactInbox) *ContentHandler {
	return &ContentHandler{news: news, sliders: sliders, contacts: contacts}
}

// ListNews godoc
// @ID           adminListNews
// @Summary      List news, newest first
// @Tags         admin-content
// @Produce      json
// @Param        search query string false "Search in title and content"
// @Param        page   query int    false "Page number"
// @Success      200 {object} APIResponse[[]appcontent.NewsResponse]
// @Security     BearerAuth
// @Router       /admin/news [get]
func (h *ContentHandler) ListNews(c *gin.Context) {
	page, err := h.news.List(c.Request.Context(), c.Query("search"), pageQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetNews godoc
// @ID           adminGetNews
// @Summary      News details
// @Tags         admin-content
// @Produce      json
// @Param        id path string true "News ID"
// @Success      200 {object} APIResponse[appcontent.NewsResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/news/{id} [get]
func (h *ContentHandler) GetNews(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	news, err := h.news.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, news)
}

// CreateNews godoc
// @ID           adminCreateNews
// @Summary      Publish or draft a news article
// @Description  JSON body, or multipart with the JSON in "data" and an optional "image" file
// @Tags         admin-content
// @Accept       json,mpfd
// @Produce      json
// @Param        request body appcontent.NewsRequest true "News"
// @Success      201 {object} APIResponse[appcontent.NewsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/news [post]
func (h *ContentHandler) CreateNews(c *gin.Context) {
	var req appcontent.NewsRequest
	image, release, ok := h.bindWithImage(c, &req)
	defer release()
	if !ok {
		return
	}
	news, err := h.news.Create(c.Request.Context(), req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, news)
}

// UpdateNews godoc
// @ID           adminUpdateNews
// @Summary      Edit a news article
// @Tags         admin-content
// @Accept       json,mpfd
// @Produce      json
// @Param        id      path string                 true "News ID"
// @Param        request body appcontent.NewsRequest true "News"
// @Success      200 {object} APIResponse[appcontent.NewsResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/news/{id} [put]
func (h *ContentHandler) UpdateNews(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req appcontent.NewsRequest
	image, release, ok := h.bindWithImage(c, &req)
	defer release()
	if !ok {
		return
	}
	news, err := h.news.Update(c.Request.Context(), id, req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, news)
}

// DeleteNews godoc
// @ID           adminDeleteNews
// @Summary      Delete a news article
// @Tags         admin-content
// @Produce      json
// @Param        id path string true "News ID"
// @Success      200 {object} ResultResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/news/{id} [delete]
func (h *ContentHandler) DeleteNews(c *gin.Context) {
	h.command(c, h.news.Delete)
}

// ListSliders godoc
// @ID           adminListSliders
// @Summary      List sliders in display order
// @Tags         admin-content
// @Produce      json
// @Success      200 {object} APIResponse[[]appcontent.SliderResponse]
// @Security     BearerAuth
// @Router       /admin/sliders [get]
func (h *ContentHandler) ListSliders(c *gin.Context) {
	sliders, err := h.sliders.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sliders)
}

// GetSlider godoc
// @ID           adminGetSlider
// @Summary      Slider details
// @Tags         admin-content
// @Produce      json
// @Param        id path string true "Slider ID"
// @Success      200 {object} APIResponse[appcontent.SliderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sliders/{id} [get]
func (h *ContentHandler) GetSlider(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	slider, err := h.sliders.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slider)
}

// CreateSlider godoc
// @ID           adminCreateSlider
// @Summary      Create a slider
// @Description  Multipart with the JSON in "data"; the "image" file is required
// @Tags         admin-content
// @Accept       mpfd
// @Produce      json
// @Param        data  formData string true "SliderRequest as JSON"
// @Param        image formData file   true "Slider image"
// @Success      201 {object} APIResponse[appcontent.SliderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sliders [post]
func (h *ContentHandler) CreateSlider(c *gin.Context) {
	var req appcontent.SliderRequest
	image, release, ok := h.bindWithImage(c, &req)
	defer release()
	if !ok {
		return
	}
	slider, err := h.sliders.Create(c.Request.Context(), req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, slider)
}

// UpdateSlider godoc
// @ID           adminUpdateSlider
// @Summary      Edit a slider
// @Tags         admin-content
// @Accept       json,mpfd
// @Produce      json
// @Param        id      path string                   true "Slider ID"
// @Param        request body appcontent.SliderRequest true "Slider"
// @Success      200 {object} APIResponse[appcontent.SliderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sliders/{id} [put]
func (h *ContentHandler) UpdateSlider(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req appcontent.SliderRequest
	image, release, ok := h.bindWithImage(c, &req)
	defer release()
	if !ok {
		return
	}
	slider, err := h.sliders.Update(c.Request.Context(), id, req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slider)
}

// ToggleSlider godoc
// @ID           adminToggleSlider
// @Summary      Show or hide a slider
// @Tags         admin-content
// @Produce      json
// @Param        id path string true "Slider ID"
// @Success      200 {object} ResultResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sliders/{id}/toggle-active [post]
func (h *ContentHandler) ToggleSlider(c *gin.Context) {
	h.command(c, h.sliders.ToggleActive)
}

// DeleteSlider godoc
// @ID           adminDeleteSlider
// @Summary      Delete a slider
// @Tags         admin-content
// @Produce      json
// @Param        id path string true "Slider ID"
// @Success      200 {object} ResultResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sliders/{id} [delete]
func (h *ContentHandler) DeleteSlider(c *gin.Context) {
	h.command(c, h.sliders.Delete)
}

// ListContacts godoc
// @ID           adminListContacts
// @Summary      List contact messages, newest first
// @Tags         admin-content
// @Produce      json
// @Param        unread query bool false "Only unread messages"
// @Param        page   query int  false "Page number"
// @Success      200 {object} APIResponse[appcontent.ContactListView]
// @Security     BearerAuth
// @Router       /admin/contacts [get]
func (h *ContentHandler) ListContacts(c *gin.Context) {
	view, err := h.contacts.List(c.Request.Context(), appcontent.ContactListQuery{
		Unread: boolQuery(c, "unread"),
		Page:   pageQuery(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// UnreadContacts godoc
// @ID           adminUnreadContacts
// @Summary      Number of unread contact messages
// @Tags         admin-content
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Security     BearerAuth
// @Router       /admin/contacts/unread-count [get]
func (h *ContentHandler) UnreadContacts(c *gin.Context) {
	count, err := h.contacts.UnreadCount(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: count})
}

// GetContact godoc
// @ID           adminGetContact
// @Summary      Contact message details
// @Tags         admin-content
// @Produce      json
// @Param        id path string true "Contact ID"
// @Success      200 {object} APIResponse[appcontent.ContactResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/contacts/{id} [get]
func (h *ContentHandler) GetContact(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	contact, err := h.contacts.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// MarkContactRead godoc
// @ID           adminMarkContactRead
// @Summary      Mark a message read
// @Tags         admin-content
// @Produce      json
// @Param        id path string true "Contact ID"
// @Success      200 {object} ResultResponse
// @Security     BearerAuth
// @Router       /admin/contacts/{id}/read [post]
func (h *ContentHandler) MarkContactRead(c *gin.Context) {
	h.command(c, h.contacts.MarkRead)
}

// MarkContactUnread godoc
// @ID           adminMarkContactUnread
// @Summary      Mark a message unread
// @Tags         admin-content
// @Produce      json
// @Param        id path string true "Contact ID"
// @Success      200 {object} ResultResponse
// @Security     BearerAuth
// @Router       /admin/contacts/{id}/unread [post]
func (h *ContentHandler) MarkContactUnread(c *gin.Context) {
	h.command(c, h.contacts.MarkUnread)
}

// DeleteContact godoc
// @ID           adminDeleteContact
// @Summary      Delete a contact message
// @Tags         admin-content
// @Produce      json
// @Param        id path string true "Contact ID"
// @Success      200 {object} ResultResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/contacts/{id} [delete]
func (h *ContentHandler) DeleteContact(c *gin.Context) {
	h.command(c, h.contacts.Delete)
}

// command runs an id-addressed operation that answers with a Result
func (h *ContentHandler) command(c *gin.Context, run func(context.Context, uuid.UUID) (*shared.Result, error)) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	result, err := run(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, *result, nil)
}
