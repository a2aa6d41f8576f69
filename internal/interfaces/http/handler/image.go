package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shop/storefront/internal/infrastructure/storage"
)

// ImageLocator resolves a public image path to a file or a remote URL
type ImageLocator interface {
	Locate(ctx context.Context, publicPath string) (storage.Location, error)
}

// ImageHandler serves uploaded images
type ImageHandler struct {
	BaseHandler
	images ImageLocator
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(images ImageLocator) *ImageHandler {
	return &ImageHandler{images: images}
}

// Serve godoc
// @ID           getImage
// @Summary      Uploaded image
// @Description  Served from disk, or redirected to object storage
// @Tags         storefront
// @Param        path path string true "Path below /images"
// @Success      200 {file} file
// @Success      302
// @Failure      404 {object} ErrorResponse
// @Router       /images/{path} [get]
func (h *ImageHandler) Serve(c *gin.Context) {
	loc, err := h.images.Locate(c.Request.Context(), c.Request.URL.Path)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImagePath) {
			h.Error(c, http.StatusNotFound, "NOT_FOUND", "Image not found")
			return
		}
		h.HandleError(c, err)
		return
	}
	if loc.URL != "" {
		c.Redirect(http.StatusFound, loc.URL)
		return
	}
	c.File(loc.FilePath)
}
