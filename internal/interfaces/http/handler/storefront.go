package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/shop/storefront/internal/application/catalog"
	appcontent "github.com/shop/storefront/internal/application/content"
	"github.com/shop/storefront/internal/domain/shared"
)

// StorefrontQueries is the read side of the public shop
type StorefrontQueries interface {
	Home(ctx context.Context) (*appcatalog.HomeView, error)
	Catalog(ctx context.Context, query appcatalog.CatalogQuery) (*appcatalog.CatalogView, error)
	ProductDetails(ctx context.Context, id uuid.UUID) (*appcatalog.ProductDetailsView, error)
}

// PublishedNews serves news to shoppers
type PublishedNews interface {
	Published(ctx context.Context, page int) (shared.Paginated[appcontent.NewsResponse], error)
	Details(ctx context.Context, id uuid.UUID) (*appcontent.NewsDetailsView, error)
}

// ContactSubmitter accepts messages from the contact form
type ContactSubmitter interface {
	Submit(ctx context.Context, req appcontent.ContactRequest) (*shared.Result, error)
}

// StorefrontHandler serves the anonymous storefront pages
type StorefrontHandler struct {
	BaseHandler
	shop    StorefrontQueries
	news    PublishedNews
	contact ContactSubmitter
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(shop StorefrontQueries, news PublishedNews, contact ContactSubmitter) *StorefrontHandler {
	return &StorefrontHandler{shop: shop, news: news, contact: contact}
}

// Home godoc
// @ID           getHome
// @Summary      Home page
// @Description  Active sliders and categories plus featured, new, best selling and discounted products
// @Tags         storefront
// @Produce      json
// @Success      200 {object} APIResponse[appcatalog.HomeView]
// @Failure      500 {object} ErrorResponse
// @Router       /home [get]
func (h *StorefrontHandler) Home(c *gin.Context) {
	view, err := h.shop.Home(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Catalog godoc
// @ID           listCatalog
// @Summary      Browse products
// @Description  Active products, 12 per page
// @Tags         storefront
// @Produce      json
// @Param        category_id query string false "Category ID"
// @Param        search      query string false "Search in name and description"
// @Param        sort        query string false "newest, price-asc, price-desc, name-asc, name-desc"
// @Param        page        query int    false "Page number"
// @Success      200 {object} APIResponse[appcatalog.CatalogView]
// @Failure      400 {object} ErrorResponse
// @Router       /products [get]
func (h *StorefrontHandler) Catalog(c *gin.Context) {
	categoryID, ok := h.optionalUUIDQuery(c, "category_id")
	if !ok {
		return
	}
	query := appcatalog.CatalogQuery{
		CategoryID: categoryID,
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
		Page:       pageQuery(c),
	}
	if !h.validateQuery(c, &query) {
		return
	}

	view, err := h.shop.Catalog(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ProductDetails godoc
// @ID           getProductDetails
// @Summary      Product details
// @Description  One product with up to four related products from its category
// @Tags         storefront
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[appcatalog.ProductDetailsView]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *StorefrontHandler) ProductDetails(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	view, err := h.shop.ProductDetails(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// NewsList godoc
// @ID           listNews
// @Summary      Published news
// @Tags         storefront
// @Produce      json
// @Param        page query int false "Page number"
// @Success      200 {object} APIResponse[[]appcontent.NewsResponse]
// @Router       /news [get]
func (h *StorefrontHandler) NewsList(c *gin.Context) {
	page, err := h.news.Published(c.Request.Context(), pageQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// NewsDetails godoc
// @ID           getNews
// @Summary      News article
// @Tags         storefront
// @Produce      json
// @Param        id path string true "News ID"
// @Success      200 {object} APIResponse[appcontent.NewsDetailsView]
// @Failure      404 {object} ErrorResponse
// @Router       /news/{id} [get]
func (h *StorefrontHandler) NewsDetails(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	view, err := h.news.Details(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// SubmitContact godoc
// @ID           submitContact
// @Summary      Send a message to the shop
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        request body appcontent.ContactRequest true "Message"
// @Success      200 {object} ResultResponse
// @Failure      400 {object} ErrorResponse
// @Router       /contact [post]
func (h *StorefrontHandler) SubmitContact(c *gin.Context) {
	var req appcontent.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.contact.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, *result, nil)
}
