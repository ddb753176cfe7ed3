package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "mcrauth/internal/errors"
	"mcrauth/internal/service"
)

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a local registration request.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a local login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// MessageResponse is a plain acknowledgment.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries the issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// GoogleTokenResponse carries the token pair plus the first-login flag.
// IsNewUser stays true until the user sets a nickname, so a previously
// auto-provisioned account that never finished profile setup is still "new".
type GoogleTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IsNewUser    bool   `json:"is_new_user"`
	TokenType    string `json:"token_type"`
}

// AuthURLResponse carries the provider authorization URL.
type AuthURLResponse struct {
	AuthURL string `json:"auth_url"`
}

// Register godoc
// @Summary Register a local account
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	if err := h.authService.Register(c.Request().Context(), req.Username, req.Password); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User registered successfully"})
}

// Login godoc
// @Summary Login with username and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	accessToken, refreshToken, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	})
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	accessToken, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

// GoogleLogin godoc
// @Summary Get the Google authorization URL
// @Tags auth
// @Produce json
// @Param state query string false "Opaque state echoed back on callback"
// @Success 200 {object} AuthURLResponse
// @Router /auth/login/google [get]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	return c.JSON(http.StatusOK, AuthURLResponse{
		AuthURL: h.authService.GoogleAuthURL(c.QueryParam("state")),
	})
}

// GoogleCallback godoc
// @Summary Complete the Google login flow
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code from Google"
// @Success 200 {object} GoogleTokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/login/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return badRequest("missing code parameter")
	}

	accessToken, refreshToken, isNewUser, err := h.authService.GoogleLogin(c.Request().Context(), code)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, GoogleTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		IsNewUser:    isNewUser,
		TokenType:    "bearer",
	})
}

// toHTTPError translates domain errors into echo HTTP errors with the
// standardized response body.
func toHTTPError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// badRequest wraps pre-service failures (bind, validate, missing query
// params) in the same standardized body the domain errors use.
func badRequest(message string) *echo.HTTPError {
	he := apperrors.NewHTTPError(http.StatusBadRequest, message, "INVALID_REQUEST")
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}
