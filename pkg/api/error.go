package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// APIError represents an error reported by the backend
type APIError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

// HTTPStatus returns the response status code
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// BackendMessage returns the message the backend meant for the user
func (e *APIError) BackendMessage() string {
	return e.Message
}

// ParseError parses an error response from the API. The backend wraps errors
// as {"success":false,"error":{"message":...,"code":...}}; a flat
// {"message":...} body is accepted as well.
func ParseError(resp *resty.Response) error {
	statusCode := resp.StatusCode()

	var errResp ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil {
		if errResp.Error != nil && errResp.Error.Message != "" {
			return &APIError{
				Code:       errResp.Error.Code,
				Message:    errResp.Error.Message,
				StatusCode: statusCode,
			}
		}
		if errResp.Message != "" {
			return &APIError{
				Message:    errResp.Message,
				StatusCode: statusCode,
			}
		}
	}

	return &APIError{
		Message:    http.StatusText(statusCode),
		StatusCode: statusCode,
	}
}

// CheckResponse turns a transport error or a non-2xx response into an error
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return ParseError(resp)
	}
	return nil
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized checks if error is due to missing/invalid authentication
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsForbidden checks if error is due to insufficient permissions
func IsForbidden(err error) bool {
	return statusOf(err) == http.StatusForbidden
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsServerError checks if error is due to server error (5xx)
func IsServerError(err error) bool {
	return statusOf(err) >= 500
}
