package dto

import "net/http"

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeQuotaExceeded is used when a plan limit blocks the operation
	ErrCodeQuotaExceeded = "ERR_QUOTA_EXCEEDED"
	// ErrCodeInsufficientCredit is used when the credit balance is exhausted
	ErrCodeInsufficientCredit = "ERR_INSUFFICIENT_CREDIT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Domain error codes not listed here fall through DomainErrorHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:       http.StatusUnprocessableEntity,
	ErrCodeQuotaExceeded:      http.StatusPaymentRequired,
	ErrCodeInsufficientCredit: http.StatusPaymentRequired,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// DomainErrorHTTPStatus maps the domain layer's error codes straight to HTTP
// statuses. Codes keep their domain spelling in responses so clients can
// branch on them; only the status is decided here.
var DomainErrorHTTPStatus = map[string]int{
	// Lookups
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	// Entitlements: the client's remedy is buying credits or upgrading
	"DOCUMENT_LIMIT_REACHED": http.StatusPaymentRequired,
	"ACTIVE_LIMIT_REACHED":   http.StatusPaymentRequired,
	"QUOTA_EXCEEDED":         http.StatusPaymentRequired,
	"INSUFFICIENT_CREDIT":    http.StatusPaymentRequired,

	// Ledger
	"DUPLICATE_GRANT": http.StatusConflict,
	"INTEGRITY_ERROR": http.StatusInternalServerError,

	// Lifecycle state machines
	"DOCUMENT_NOT_DRAFT":        http.StatusUnprocessableEntity,
	"DOCUMENT_PUBLISHED":        http.StatusUnprocessableEntity,
	"DOCUMENT_NOT_SIGNABLE":     http.StatusUnprocessableEntity,
	"PUBLICATION_CLOSED":        http.StatusUnprocessableEntity,
	"PUBLICATION_COMPLETED":     http.StatusUnprocessableEntity,
	"SIGNATURES_PRESENT":        http.StatusUnprocessableEntity,
	"AREA_ALREADY_SIGNED":       http.StatusConflict,
	"INVALID_STATUS_TRANSITION": http.StatusUnprocessableEntity,
	"INVALID_STATE":             http.StatusUnprocessableEntity,
	"CONCURRENCY_CONFLICT":      http.StatusConflict,

	// Input validation raised by the domain constructors
	"INVALID_EXPIRY":           http.StatusBadRequest,
	"INVALID_FILE":             http.StatusBadRequest,
	"INVALID_FILENAME":         http.StatusBadRequest,
	"UNSUPPORTED_CONTENT_TYPE": http.StatusBadRequest,
	"INVALID_NAME":             http.StatusBadRequest,
	"INVALID_OWNER":            http.StatusBadRequest,
	"INVALID_USER":             http.StatusBadRequest,
	"INVALID_PUBLICATION":      http.StatusBadRequest,
	"INVALID_DOCUMENT":         http.StatusBadRequest,
	"INVALID_SIGNATURE":        http.StatusBadRequest,
	"INVALID_AREA_INDEX":       http.StatusBadRequest,
	"INVALID_AREA_POSITION":    http.StatusBadRequest,
	"INVALID_AREA_SIZE":        http.StatusBadRequest,
	"INVALID_CREDIT_KIND":      http.StatusBadRequest,
	"INVALID_QUANTITY":         http.StatusBadRequest,
	"INVALID_REFERENCE":        http.StatusBadRequest,
	"INVALID_AMOUNT":           http.StatusBadRequest,
	"INVALID_INPUT":            http.StatusBadRequest,
	"INVALID_LIMIT":            http.StatusBadRequest,
	"INVALID_PERIOD":           http.StatusBadRequest,
	"INVALID_PLAN":             http.StatusBadRequest,
	"INVALID_PLAN_CODE":        http.StatusBadRequest,
	"INVALID_PLAN_NAME":        http.StatusBadRequest,
	"INVALID_STATUS":           http.StatusBadRequest,

	// Auth
	"UNAUTHORIZED": http.StatusUnauthorized,
	"FORBIDDEN":    http.StatusForbidden,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if status, ok := DomainErrorHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
