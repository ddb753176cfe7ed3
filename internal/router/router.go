package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"mcrauth/internal/auth"
	"mcrauth/internal/config"
	"mcrauth/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/auth/login/google", authHandler.GoogleLogin)
	api.GET("/auth/login/google/callback", authHandler.GoogleCallback)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/users/register", authHandler.Register)
	api.POST("/users/login", authHandler.Login)

	// Secured routes (require a valid access token). The default token
	// lookup strips the Bearer prefix from the Authorization header; the
	// signing method must match what the token service signs with.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(cfg.JWTSecret),
		SigningMethod: auth.NormalizeAlgorithm(cfg.JWTAlgorithm),
	}))

	secured.GET("/users/me", userHandler.Me)
	secured.PUT("/users/me/nickname", userHandler.UpdateNickname)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
