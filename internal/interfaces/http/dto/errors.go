package dto

import (
	"net/http"

	"github.com/taskflow/backend/internal/domain/shared"
)

// Transport-level error codes that have no domain counterpart
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// 400
	shared.CodeValidation: http.StatusBadRequest,
	shared.CodeExpired:    http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,

	// 401
	shared.CodeInvalidCredentials: http.StatusUnauthorized,
	shared.CodeIncorrectPassword:  http.StatusUnauthorized,
	shared.CodeUnauthorized:       http.StatusUnauthorized,

	// 403, 404, 409
	shared.CodeForbidden:     http.StatusForbidden,
	shared.CodeNotFound:      http.StatusNotFound,
	shared.CodeAlreadyExists: http.StatusConflict,

	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	shared.CodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
