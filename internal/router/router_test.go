package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"mcrauth/internal/auth"
	"mcrauth/internal/config"
	"mcrauth/internal/handler"
	"mcrauth/internal/model"
	"mcrauth/internal/service"
)

// mockUserRepository is a mock implementation of repository.UserRepository.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// newTestApp builds the full echo app with routes and middleware registered,
// backed by a repository that knows a single user "alice".
func newTestApp(t *testing.T, algorithm string) (*echo.Echo, *auth.JWTService) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTAlgorithm:    algorithm,
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 72 * time.Hour,
	}

	username := "alice"
	repo := new(mockUserRepository)
	repo.On("FindByUsername", mock.Anything, "alice").
		Return(&model.User{ID: 1, Username: &username, IsActive: true}, nil).Maybe()
	repo.On("FindByUsername", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, gorm.ErrRecordNotFound).Maybe()
	repo.On("FindByEmail", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, gorm.ErrRecordNotFound).Maybe()

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authHandler := handler.NewAuthHandler(service.NewAuthService(repo, jwtService, nil))
	userHandler := handler.NewUserHandler(service.NewUserService(repo, nil))

	e := echo.New()
	Register(e, cfg, authHandler, userHandler)
	return e, jwtService
}

func doRequest(e *echo.Echo, method, target, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// A token issued by the service must pass the route middleware when sent as
// a standard Bearer Authorization header, for every supported algorithm.
func TestRegister_SecuredRoutesAcceptBearerToken(t *testing.T) {
	for _, algorithm := range []string{"HS256", "HS384", "HS512"} {
		t.Run(algorithm, func(t *testing.T) {
			e, jwtService := newTestApp(t, algorithm)

			token, err := jwtService.IssueAccessToken("alice")
			assert.NoError(t, err)

			rec := doRequest(e, http.MethodGet, "/api/users/me", "Bearer "+token)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"alice"`)
		})
	}
}

func TestRegister_SecuredRoutesRejectBadTokens(t *testing.T) {
	e, _ := newTestApp(t, "HS256")

	foreign := auth.NewJWTService("other-secret", "HS256", time.Minute, time.Minute)
	foreignToken, err := foreign.IssueAccessToken("alice")
	assert.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "missing header", authHeader: ""},
		{name: "not a jwt", authHeader: "Bearer garbage"},
		{name: "wrong secret", authHeader: "Bearer " + foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodGet, "/api/users/me", tt.authHeader)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

// The middleware pins the configured algorithm, so a token signed with a
// different one is rejected even under the same secret.
func TestRegister_SecuredRoutesRejectAlgorithmMismatch(t *testing.T) {
	e, _ := newTestApp(t, "HS512")

	hs256 := auth.NewJWTService("test-secret", "HS256", time.Minute, time.Minute)
	token, err := hs256.IssueAccessToken("alice")
	assert.NoError(t, err)

	rec := doRequest(e, http.MethodGet, "/api/users/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_PublicRoutesSkipAuth(t *testing.T) {
	e, _ := newTestApp(t, "HS256")

	rec := doRequest(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
