package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = newInternal(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = newInternal(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = newInternal(ErrCodeValidation, "validation error")
	ErrInvalidOperation = newInternal(ErrCodeInvalidOperation, "invalid operation")
	ErrConfiguration    = newInternal(ErrCodeConfiguration, "configuration error")
	ErrIntegration      = newInternal(ErrCodeIntegration, "integration error")
	ErrHTTPClient       = newInternal(ErrCodeHTTPClient, "http client error")
	ErrDatabase         = newInternal(ErrCodeDatabase, "database error")
	ErrSystem           = newInternal(ErrCodeSystemError, "system error")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:       http.StatusInternalServerError,
		ErrDatabase:         http.StatusInternalServerError,
		ErrNotFound:         http.StatusNotFound,
		ErrAlreadyExists:    http.StatusConflict,
		ErrValidation:       http.StatusBadRequest,
		ErrInvalidOperation: http.StatusBadRequest,
		ErrConfiguration:    http.StatusInternalServerError,
		ErrIntegration:      http.StatusBadGateway,
		ErrSystem:           http.StatusInternalServerError,
	}
)

const (
	ErrCodeHTTPClient       = "http_client_error"
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodeConfiguration    = "configuration_error"
	ErrCodeIntegration      = "integration_error"
	ErrCodeDatabase         = "database_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func newInternal(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

// New creates a new InternalError with the given code and message
func New(code string, message string) *InternalError {
	return newInternal(code, message)
}

// Wrap wraps an error with a code and message
func Wrap(err error, code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsConfiguration checks if an error is a configuration error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsIntegration checks if an error is an integration (transport) error
func IsIntegration(err error) bool {
	return errors.Is(err, ErrIntegration)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
