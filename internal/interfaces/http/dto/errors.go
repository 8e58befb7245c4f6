package dto

import "net/http"

// HTTP-layer error codes. Domain codes come from shared.DomainError and are
// passed through unchanged so clients see a single flat code space.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	// Input errors
	"BAD_REQUEST":      http.StatusBadRequest,
	"VALIDATION_ERROR": http.StatusBadRequest,
	"INVALID_PASSWORD": http.StatusBadRequest,

	// Authentication
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,

	// Authorization and account state
	"FORBIDDEN":           http.StatusForbidden,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,

	// Resources
	"NOT_FOUND":            http.StatusNotFound,
	"USER_NOT_FOUND":       http.StatusNotFound,
	"CONFLICT":             http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rules
	"INVALID_STATE": http.StatusUnprocessableEntity,

	// Infrastructure
	"RATE_LIMIT_EXCEEDED": http.StatusTooManyRequests,
	"REQUEST_TOO_LARGE":   http.StatusRequestEntityTooLarge,
	"INTERNAL_ERROR":      http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
