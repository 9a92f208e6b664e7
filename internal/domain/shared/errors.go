package shared

import "fmt"

// DomainError represents a domain-level error with a stable machine-readable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// ConstraintError reports a deletion blocked by rows that still reference the
// target. The caller may choose to soft-deactivate instead of deleting.
type ConstraintError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	BlockingCount int64  `json:"blocking_count"`
}

// Error implements the error interface
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s (%d blocking references)", e.Message, e.BlockingCount)
}

// NewConstraintError creates a new constraint error
func NewConstraintError(message string, blockingCount int64) *ConstraintError {
	return &ConstraintError{
		Code:          "CONSTRAINT_VIOLATION",
		Message:       message,
		BlockingCount: blockingCount,
	}
}
