package handler

import "github.com/shop/storefront/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success   bool           `json:"success"`
	Data      T              `json:"data,omitempty"`
	Message   string         `json:"message,omitempty"`
	Error     *dto.ErrorInfo `json:"error,omitempty"`
	Meta      *dto.Meta      `json:"meta,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success   bool           `json:"success" example:"false"`
	Error     *dto.ErrorInfo `json:"error,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// ResultResponse documents a business command outcome. A refused command
// answers 200 with success=false and a user-facing message.
// @Description Business command outcome
type ResultResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Product added to cart"`
}

// CountData represents count data in response
// @Description Count data
type CountData struct {
	Count int64 `json:"count"`
}
