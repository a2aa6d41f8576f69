package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain codes (NOT_FOUND, INVALID_PRICE, ...)
// are passed through unchanged and mapped by GetHTTPStatus.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidID       = "INVALID_ID"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeTimeout         = "REQUEST_TIMEOUT"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// errorCodeHTTPStatus holds the codes whose status does not follow a prefix rule
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,

	"INVALID_CREDENTIALS":      http.StatusUnauthorized,
	"ALREADY_EXISTS":           http.StatusConflict,
	"HAS_DEPENDENTS":           http.StatusConflict,
	"CONCURRENCY_CONFLICT":     http.StatusConflict,
	"INVALID_STATE":            http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":       http.StatusUnprocessableEntity,
	"EMPTY_ORDER":              http.StatusUnprocessableEntity,
	"UNSUPPORTED_CART_VERSION": http.StatusUnprocessableEntity,
	"PASSWORD_HASH_ERROR":      http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code.
// Exact matches win, then TOKEN_*, INVALID_* and *_NOT_FOUND.
// Anything unrecognised is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
