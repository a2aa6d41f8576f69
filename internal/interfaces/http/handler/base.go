package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/internal/infrastructure/logger"
	"github.com/shop/storefront/internal/interfaces/http/dto"
	"github.com/shop/storefront/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const (
	// multipartDataField carries the JSON payload of a multipart request
	multipartDataField = "data"
	// imageFormField carries the optional uploaded image
	imageFormField = "image"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Page sends one page of a listing with pagination meta
func Page[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// Result sends the outcome of a business command. Refusals are still 200.
func (h *BaseHandler) Result(c *gin.Context, result shared.Result, data any) {
	c.JSON(http.StatusOK, dto.NewResultResponse(result, data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// ValidationError sends a 400 response listing the failed fields
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError converts an error to an HTTP response. Domain errors keep
// their code; anything else is logged and answered with a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	logger.FromGin(c).Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// parseID reads the :id path parameter
func (h *BaseHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	return h.parseUUIDParam(c, "id")
}

func (h *BaseHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery reads an optional UUID query parameter. An empty value
// is nil; a malformed one is answered with 400.
func (h *BaseHandler) optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// validateQuery runs struct validation on a query object built by hand
func (h *BaseHandler) validateQuery(c *gin.Context, query any) bool {
	if err := binding.Validator.ValidateStruct(query); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}

// requireUser returns the authenticated caller
func (h *BaseHandler) requireUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserUUID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds and validates a JSON body
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}

// bindWithImage binds a create or edit request that may carry an image.
// Multipart requests send the JSON payload in the "data" field and the file
// in "image"; other requests are plain JSON without an image. The returned
// release func closes the uploaded file and is never nil.
func (h *BaseHandler) bindWithImage(c *gin.Context, req any) (*appshared.ImageUpload, func(), bool) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		return nil, noop, h.bindJSON(c, req)
	}

	if err := json.Unmarshal([]byte(c.PostForm(multipartDataField)), req); err != nil {
		h.BadRequest(c, "Field \"data\" must hold the JSON request body")
		return nil, noop, false
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		h.ValidationError(c, err)
		return nil, noop, false
	}

	header, err := c.FormFile(imageFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, true
	}
	if err != nil {
		h.BadRequest(c, "Invalid image upload")
		return nil, noop, false
	}
	upload, file, err := openUpload(header)
	if err != nil {
		h.BadRequest(c, "Invalid image upload")
		return nil, noop, false
	}
	return upload, func() { _ = file.Close() }, true
}

func openUpload(header *multipart.FileHeader) (*appshared.ImageUpload, io.Closer, error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &appshared.ImageUpload{Filename: header.Filename, Content: file}, file, nil
}

// pageQuery reads ?page=, defaulting to the first page
func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func boolQuery(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.Query(name))
	return v
}
