package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"mcrauth/internal/service"
)

// UserHandler handles profile endpoints behind JWT auth.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// NicknameRequest represents a profile-completion request.
type NicknameRequest struct {
	Nickname string `json:"nickname" validate:"required"`
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	subject, err := tokenSubject(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetBySubject(c.Request().Context(), subject)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateNickname godoc
// @Summary Set the authenticated user's nickname
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NicknameRequest true "Nickname"
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /users/me/nickname [put]
func (h *UserHandler) UpdateNickname(c echo.Context) error {
	subject, err := tokenSubject(c)
	if err != nil {
		return err
	}

	var req NicknameRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	user, err := h.userService.UpdateNickname(c.Request().Context(), subject, req.Nickname)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// tokenSubject pulls the sub claim from the token echo-jwt stored on the
// context.
func tokenSubject(c echo.Context) (string, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return subject, nil
}
