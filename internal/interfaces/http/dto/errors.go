package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeInvalidID  = "INVALID_ID"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeValidation = "VALIDATION_FAILED"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Field-level validation failures are 400; business rules that reject an
// otherwise well-formed request are 422.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeInvalidID:  http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// Malformed entry payloads
	"INVALID_KIND":      http.StatusBadRequest,
	"INVALID_FACT_DATE": http.StatusBadRequest,
	"INVALID_AMOUNT":    http.StatusBadRequest,
	"INVALID_CATEGORY":  http.StatusBadRequest,
	"INVALID_COMPANY":   http.StatusBadRequest,
	"INVALID_ACCOUNT":   http.StatusBadRequest,
	"INVALID_DEADLINE":  http.StatusBadRequest,
	"INVALID_INPUT":     http.StatusBadRequest,
	"INVALID_PERIOD":    http.StatusBadRequest,
	"INVALID_VIEW":      http.StatusBadRequest,
	"INVALID_WINDOW":    http.StatusBadRequest,

	// Resources
	ErrCodeNotFound:  http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	// Business rules
	"DATE_LOCKED":          http.StatusUnprocessableEntity,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INVALID_UNLOCK":       http.StatusUnprocessableEntity,
	"ACCOUNT_NOT_FOUND":    http.StatusUnprocessableEntity,
	"CONSTRAINT_VIOLATION": http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
