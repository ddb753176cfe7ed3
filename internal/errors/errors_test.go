package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{name: "invalid credentials", err: ErrInvalidCredentials, expectedStatus: http.StatusUnauthorized, expectedCode: "INVALID_CREDENTIALS"},
		{name: "invalid refresh token", err: ErrInvalidRefreshToken, expectedStatus: http.StatusUnauthorized, expectedCode: "INVALID_REFRESH_TOKEN"},
		{name: "duplicate identity", err: ErrDuplicateIdentity, expectedStatus: http.StatusBadRequest, expectedCode: "DUPLICATE_IDENTITY"},
		{name: "provider token", err: ErrProviderToken, expectedStatus: http.StatusBadRequest, expectedCode: "GOOGLE_EXCHANGE_FAILED"},
		{name: "provider profile", err: ErrProviderProfile, expectedStatus: http.StatusBadRequest, expectedCode: "GOOGLE_EXCHANGE_FAILED"},
		{name: "provider timeout", err: ErrProviderTimeout, expectedStatus: http.StatusBadRequest, expectedCode: "GOOGLE_EXCHANGE_FAILED"},
		{name: "wrapped provider error", err: fmt.Errorf("%w: status 500", ErrProviderToken), expectedStatus: http.StatusBadRequest, expectedCode: "GOOGLE_EXCHANGE_FAILED"},
		{name: "user not found", err: ErrUserNotFound, expectedStatus: http.StatusNotFound, expectedCode: "USER_NOT_FOUND"},
		{name: "identifier space exhausted", err: ErrIdentifierSpaceExhausted, expectedStatus: http.StatusInternalServerError, expectedCode: "IDENTIFIER_SPACE_EXHAUSTED"},
		{name: "unknown error", err: errors.New("sql: something leaked"), expectedStatus: http.StatusInternalServerError, expectedCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedStatus, he.StatusCode)
			assert.Equal(t, tt.expectedCode, he.Code)
		})
	}
}

// Provider failures collapse into a single outward message, and internal
// failures never echo their cause.
func TestMapErrorToHTTP_NoLeaks(t *testing.T) {
	tokenErr := MapErrorToHTTP(fmt.Errorf("%w: token endpoint said no", ErrProviderToken))
	profileErr := MapErrorToHTTP(fmt.Errorf("%w: userinfo returned 503", ErrProviderProfile))
	assert.Equal(t, tokenErr.Message, profileErr.Message)
	assert.Equal(t, "Failed to get token from Google", tokenErr.Message)

	internal := MapErrorToHTTP(errors.New("dial tcp 10.0.0.1:3306: connect refused"))
	assert.Equal(t, "internal server error", internal.Message)
}

func TestMapErrorToHTTP_ValidationError(t *testing.T) {
	ve := &ValidationError{Field: "username", Length: 2, Min: 3, Max: 20}

	he := MapErrorToHTTP(ve)
	assert.Equal(t, http.StatusUnprocessableEntity, he.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", he.Code)
	assert.Equal(t, "username", he.Details["field"])
	assert.Equal(t, 2, he.Details["length"])
	assert.Equal(t, 3, he.Details["min_length"])
	assert.Equal(t, 20, he.Details["max_length"])

	resp := he.ToErrorResponse()
	assert.Equal(t, he.Message, resp.Detail)
	assert.Equal(t, he.Details, resp.Details)
}
