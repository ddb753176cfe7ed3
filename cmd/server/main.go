package main

import (
	"net/http"

	_ "mcrauth/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"mcrauth/internal/auth"
	"mcrauth/internal/cache"
	"mcrauth/internal/config"
	"mcrauth/internal/db"
	"mcrauth/internal/handler"
	"mcrauth/internal/model"
	"mcrauth/internal/oauth"
	"mcrauth/internal/repository"
	"mcrauth/internal/router"
	"mcrauth/internal/service"
)

// @title MCR Auth API
// @version 1.0
// @description User-account and authentication backend with local and Google login.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.WithError(err).Fatal("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	googleClient := oauth.NewGoogleClient(cfg)

	authService := service.NewAuthService(userRepo, jwtService, googleClient)
	userService := service.NewUserService(userRepo, cacheClient)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	router.Register(e, cfg, authHandler, userHandler)

	addr := ":" + cfg.ServerPort
	log.WithField("addr", addr).Info("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server start")
	}
}
