package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned for unknown username and wrong
	// password alike, so callers cannot tell which check failed.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrInvalidRefreshToken is returned when a refresh token fails verification.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrDuplicateIdentity is returned when a unique identity constraint
	// (username, uid or email) is violated.
	ErrDuplicateIdentity = errors.New("identity already registered")
	// ErrProviderToken is returned when the authorization-code exchange fails.
	ErrProviderToken = errors.New("provider token exchange failed")
	// ErrProviderProfile is returned when the userinfo fetch fails.
	ErrProviderProfile = errors.New("provider profile fetch failed")
	// ErrProviderTimeout is returned when a provider call exceeds its deadline.
	ErrProviderTimeout = errors.New("provider request timed out")
	// ErrIdentifierSpaceExhausted is returned when uid generation gives up
	// after the retry bound. Should not occur in practice.
	ErrIdentifierSpaceExhausted = errors.New("identifier space exhausted")
	// ErrUserNotFound is returned when a token subject resolves to no user.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports a field whose length is outside its allowed bounds.
type ValidationError struct {
	Field  string
	Length int
	Min    int
	Max    int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s length %d is outside [%d, %d]", e.Field, e.Length, e.Min, e.Max)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Detail  string         `json:"detail"`
	Code    string         `json:"code"`
	Details map[string]any `json:"error_details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    map[string]any
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Detail:  e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Provider failures are
// collapsed into one fixed message so the response never reveals which leg
// of the exchange failed; internal failures never leak their cause.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		he := NewHTTPError(http.StatusUnprocessableEntity, ve.Error(), "VALIDATION_ERROR")
		he.Details = map[string]any{
			"field":      ve.Field,
			"length":     ve.Length,
			"min_length": ve.Min,
			"max_length": ve.Max,
		}
		return he
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Incorrect username or password", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrDuplicateIdentity):
		return NewHTTPError(http.StatusBadRequest, "Username already registered", "DUPLICATE_IDENTITY")
	case errors.Is(err, ErrProviderToken), errors.Is(err, ErrProviderProfile), errors.Is(err, ErrProviderTimeout):
		return NewHTTPError(http.StatusBadRequest, "Failed to get token from Google", "GOOGLE_EXCHANGE_FAILED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrIdentifierSpaceExhausted):
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "IDENTIFIER_SPACE_EXHAUSTED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
