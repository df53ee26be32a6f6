package errors

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	// Network errors
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeConnection ErrorType = "connection"

	// Authentication errors
	ErrorTypeAuth           ErrorType = "auth"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeSessionExpired ErrorType = "session_expired"
	ErrorTypeAgeGate        ErrorType = "age_gate"

	// Validation errors
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeFileNotFound  ErrorType = "file_not_found"
	ErrorTypeInvalidFormat ErrorType = "invalid_format"

	// Backend errors
	ErrorTypeBackend   ErrorType = "backend"
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeNotFound  ErrorType = "not_found"
	ErrorTypeConflict  ErrorType = "conflict"
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// Durable storage unavailable or corrupt
	ErrorTypeStorage ErrorType = "storage"

	ErrorTypeUnknown ErrorType = "unknown"
)

// StatusError is implemented by errors that carry an HTTP status and a
// backend-provided message, such as api.APIError.
type StatusError interface {
	error
	HTTPStatus() int
	BackendMessage() string
}

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
	RetryAfter int
	Field      string
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NetworkError creates a network error
func NetworkError(message string) *CLIError {
	err := NewCLIError(ErrorTypeNetwork, message, nil)
	err.Suggestion = "Check your internet connection and try again."
	return err
}

// TimeoutError creates a timeout error
func TimeoutError() *CLIError {
	err := NewCLIError(ErrorTypeTimeout, "Request timed out", nil)
	err.Suggestion = "The server is taking too long to respond. Try again in a moment."
	return err
}

// AuthError creates an authentication error
func AuthError(message string) *CLIError {
	err := NewCLIError(ErrorTypeAuth, message, nil)
	err.Suggestion = "Try logging in again with 'confession-cli auth login'"
	return err
}

// SessionExpiredError creates a session expired error
func SessionExpiredError() *CLIError {
	err := NewCLIError(ErrorTypeSessionExpired, "Your session has expired", nil)
	err.Suggestion = "Run 'confession-cli auth login' to start a new session."
	return err
}

// ForbiddenError creates a forbidden error
func ForbiddenError() *CLIError {
	err := NewCLIError(ErrorTypeForbidden, "Access denied", nil)
	err.Suggestion = "Contact an administrator if you believe this is an error."
	return err
}

// AgeGateError is returned when adult content is requested before age verification
func AgeGateError() *CLIError {
	err := NewCLIError(ErrorTypeAgeGate, "Age verification required", nil)
	err.Suggestion = "Run 'confession-cli age verify' to confirm you are 18 or older."
	return err
}

// ValidationError creates a validation error
func ValidationError(field, reason string) *CLIError {
	message := fmt.Sprintf("Validation error: %s - %s", field, reason)
	err := NewCLIError(ErrorTypeValidation, message, nil)
	err.Field = field
	return err
}

// FileNotFoundError creates a file not found error
func FileNotFoundError(path string) *CLIError {
	err := NewCLIError(ErrorTypeFileNotFound, fmt.Sprintf("File not found: %s", path), nil)
	err.Suggestion = "Check the file path and try again."
	return err
}

// ImageFormatError creates an image format error
func ImageFormatError(name, mime string) *CLIError {
	err := NewCLIError(ErrorTypeInvalidFormat,
		fmt.Sprintf("%s is not a valid image (%s)", name, mime),
		nil)
	err.Field = "images"
	err.Suggestion = "Supported formats: jpeg, png, gif, webp."
	return err
}

// ImageSizeError creates an image size error
func ImageSizeError(name string, sizeMB float64, maxMB int) *CLIError {
	err := NewCLIError(ErrorTypeValidation,
		fmt.Sprintf("%s is too large: %.1f MB (max %d MB)", name, sizeMB, maxMB),
		nil)
	err.Field = "images"
	return err
}

// BackendError wraps a structured error reported by the API
func BackendError(statusCode int, message string) *CLIError {
	if message == "" {
		message = fmt.Sprintf("Request failed with status %d", statusCode)
	}
	err := NewCLIError(ErrorTypeBackend, message, nil)
	err.StatusCode = statusCode
	return err
}

// StorageError creates a storage error
func StorageError(key string, cause error) *CLIError {
	return NewCLIError(ErrorTypeStorage, fmt.Sprintf("Storage unavailable for %s", key), cause)
}

// ServerError creates a server error
func ServerError() *CLIError {
	err := NewCLIError(ErrorTypeServer, "Server error", nil)
	err.Suggestion = "The server encountered an error. Try again in a few moments."
	return err
}

// NotFoundError creates a not found error
func NotFoundError(resourceType, identifier string) *CLIError {
	return NewCLIError(ErrorTypeNotFound,
		fmt.Sprintf("%s not found: %s", resourceType, identifier),
		nil)
}

// RateLimitError creates a rate limit error
func RateLimitError(retryAfter int) *CLIError {
	err := NewCLIError(ErrorTypeRateLimit,
		"Rate limit exceeded. Too many requests.",
		nil)
	err.RetryAfter = retryAfter
	err.Suggestion = fmt.Sprintf("Please wait %d seconds before trying again.", retryAfter)
	return err
}

// ConflictError creates a conflict error
func ConflictError(message string) *CLIError {
	err := NewCLIError(ErrorTypeConflict, message, nil)
	err.Suggestion = "This resource already exists. Try a different name or identifier."
	return err
}

// categorizeStatus maps an HTTP status reported by the API to a CLIError
func categorizeStatus(se StatusError) *CLIError {
	var cliErr *CLIError
	status := se.HTTPStatus()
	switch {
	case status == 401:
		cliErr = AuthError(nonEmpty(se.BackendMessage(), "Invalid credentials"))
	case status == 403:
		cliErr = ForbiddenError()
		if msg := se.BackendMessage(); msg != "" {
			cliErr.Message = msg
		}
	case status == 404:
		cliErr = NewCLIError(ErrorTypeNotFound, nonEmpty(se.BackendMessage(), "Not found"), nil)
	case status == 409:
		cliErr = ConflictError(nonEmpty(se.BackendMessage(), "Conflict"))
	case status == 429:
		cliErr = RateLimitError(60)
	case status >= 500:
		cliErr = ServerError()
	default:
		cliErr = BackendError(status, se.BackendMessage())
	}
	cliErr.StatusCode = status
	cliErr.Cause = se
	return cliErr
}

// CategorizeError converts a standard error into a CLIError
func CategorizeError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var se StatusError
	if errors.As(err, &se) {
		return categorizeStatus(se)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		out := TimeoutError()
		out.Cause = err
		return out
	}

	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "connection refused"):
		return NetworkError("Could not connect to server. Make sure it's running.")
	case strings.Contains(errMsg, "no such host"):
		return NetworkError("Could not resolve the server address.")
	case strings.Contains(errMsg, "timeout"):
		return TimeoutError()
	case strings.Contains(errMsg, "context deadline exceeded"):
		return TimeoutError()
	case strings.Contains(errMsg, "401") || strings.Contains(errMsg, "unauthorized"):
		return AuthError("Invalid credentials")
	case strings.Contains(errMsg, "403") || strings.Contains(errMsg, "forbidden"):
		return ForbiddenError()
	case strings.Contains(errMsg, "404") || strings.Contains(errMsg, "not found"):
		return NotFoundError("Resource", "unknown")
	case strings.Contains(errMsg, "429") || strings.Contains(errMsg, "rate limit"):
		return RateLimitError(60)
	case strings.Contains(errMsg, "500") || strings.Contains(errMsg, "server error"):
		return ServerError()
	default:
		return NewCLIError(ErrorTypeUnknown, errMsg, err)
	}
}

// UserMessage returns the short inline message shown next to a failed list or mutation
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	cliErr := CategorizeError(err)
	if cliErr.Type == ErrorTypeUnknown {
		return "Something went wrong. Please try again."
	}
	return cliErr.Message
}

// IsType reports whether err categorizes to the given type
func IsType(err error, t ErrorType) bool {
	if err == nil {
		return false
	}
	return CategorizeError(err).Type == t
}

// FormatError returns a user-friendly error message
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	cliErr := CategorizeError(err)
	var sb strings.Builder

	sb.WriteString("✗ Error")
	if cliErr.Type != ErrorTypeUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(cliErr.Type))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(cliErr.Message)
	sb.WriteString("\n")

	if cliErr.HasSuggestion() {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(cliErr.Suggestion)
		sb.WriteString("\n")
	}

	if cliErr.Type == ErrorTypeRateLimit && cliErr.RetryAfter > 0 {
		sb.WriteString("\nRetry in: ")
		sb.WriteString(fmt.Sprintf("%d seconds\n", cliErr.RetryAfter))
	}

	return sb.String()
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
