package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeUnauthenticated          ErrorType = "unauthenticated"
	ErrorTypeInvalidCredentials       ErrorType = "invalid_credentials"
	ErrorTypeForbidden                ErrorType = "forbidden"
	ErrorTypeNotFound                 ErrorType = "not_found"
	ErrorTypeValidation               ErrorType = "validation"
	ErrorTypeConflict                 ErrorType = "conflict"
	ErrorTypeRateLimit                ErrorType = "rate_limit"
	ErrorTypeEnrichmentUnavailable    ErrorType = "enrichment_unavailable"
	ErrorTypeMalformedBackendResponse ErrorType = "malformed_backend_response"
	ErrorTypeInternal                 ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same type
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Sentinels for errors.Is; never mutate them, build a fresh error with NewDomainError instead.
var (
	ErrUnauthenticated    = NewDomainError(ErrorTypeUnauthenticated, "authentication required", nil)
	ErrTokenExpired       = NewDomainError(ErrorTypeUnauthenticated, "token expired, please log in again", nil)
	ErrInvalidCredentials = NewDomainError(ErrorTypeInvalidCredentials, "invalid email or password", nil)

	ErrForbidden = NewDomainError(ErrorTypeForbidden, "access forbidden", nil)

	ErrUserNotFound           = NewDomainError(ErrorTypeNotFound, "profile not found", nil)
	ErrAbsenceRequestNotFound = NewDomainError(ErrorTypeNotFound, "absence request not found", nil)

	ErrInvalidInput     = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidDateRange = NewDomainError(ErrorTypeValidation, "end date cannot be before start date", nil)
	ErrEmptyText        = NewDomainError(ErrorTypeValidation, "text cannot be empty", nil)

	ErrAlreadyDecided = NewDomainError(ErrorTypeConflict, "absence request has already been decided", nil)
	ErrDuplicateEmail = NewDomainError(ErrorTypeConflict, "email already exists", nil)

	ErrRateLimitExceeded = NewDomainError(ErrorTypeRateLimit, "too many attempts, try again later", nil)

	ErrEnrichmentUnavailable    = NewDomainError(ErrorTypeEnrichmentUnavailable, "text enrichment is unavailable", nil)
	ErrMalformedBackendResponse = NewDomainError(ErrorTypeMalformedBackendResponse, "text enrichment returned an unexpected response", nil)

	ErrInternal = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

func hasType(err error, errType ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == errType
	}
	return false
}

// IsUnauthenticatedError checks if an error means no valid principal
func IsUnauthenticatedError(err error) bool {
	return hasType(err, ErrorTypeUnauthenticated)
}

// IsInvalidCredentialsError checks if an error is a failed login
func IsInvalidCredentialsError(err error) bool {
	return hasType(err, ErrorTypeInvalidCredentials)
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return hasType(err, ErrorTypeForbidden)
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return hasType(err, ErrorTypeConflict)
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	return hasType(err, ErrorTypeRateLimit)
}

// IsEnrichmentUnavailableError checks if the enrichment backend could not deliver
func IsEnrichmentUnavailableError(err error) bool {
	return hasType(err, ErrorTypeEnrichmentUnavailable)
}

// IsMalformedBackendResponseError checks if the enrichment backend replied with an unusable shape
func IsMalformedBackendResponseError(err error) bool {
	return hasType(err, ErrorTypeMalformedBackendResponse)
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return hasType(err, ErrorTypeInternal)
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}

// ValidationFailed builds a validation error carrying per-field messages
func ValidationFailed(message string, fields map[string]string) error {
	err := NewDomainError(ErrorTypeValidation, message, nil)
	for k, v := range fields {
		err.WithDetail(k, v)
	}
	return err
}
