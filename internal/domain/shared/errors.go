package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the wrapped sentinel, if any, to errors.Is
func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a domain error wrapping a sentinel error,
// so callers can branch with errors.Is while the HTTP layer keeps the code
func NewDomainErrorWithCause(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientCredit  = NewDomainError("INSUFFICIENT_CREDIT", "Insufficient credit balance")
	ErrQuotaExceeded       = NewDomainError("QUOTA_EXCEEDED", "Subscription quota exceeded")
	ErrDuplicateGrant      = NewDomainError("DUPLICATE_GRANT", "Credit grant with this reference was already applied")
	ErrIntegrity           = NewDomainError("INTEGRITY_ERROR", "Ledger or counter update failed atomically")
)
