package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeRateLimit    ErrorType = "rate_limit"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypePrivate      ErrorType = "private"
	ErrorTypeParsing      ErrorType = "parsing"
	ErrorTypeServerError  ErrorType = "server_error"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// Error represents a remote API error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("%s error: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates an Error of the given type
func New(t ErrorType, code int, format string, args ...interface{}) *Error {
	return &Error{Type: t, Code: code, Message: fmt.Sprintf(format, args...)}
}

// FromStatus maps a non-2xx HTTP status code to a typed error.
// It returns nil for 2xx codes.
func FromStatus(code int, url string) *Error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return New(ErrorTypeNotFound, code, "resource not found: %s", url)
	case code == http.StatusForbidden:
		return New(ErrorTypePrivate, code, "access forbidden: %s", url)
	case code == http.StatusTooManyRequests:
		return New(ErrorTypeRateLimit, code, "rate limit exceeded: %s", url)
	case code >= 500:
		return New(ErrorTypeServerError, code, "server error: %s", url)
	default:
		return New(ErrorTypeUnknown, code, "unexpected status code %d: %s", code, url)
	}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}
