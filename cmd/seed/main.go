package main

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"mcrauth/internal/auth"
	"mcrauth/internal/config"
	"mcrauth/internal/db"
	apperrors "mcrauth/internal/errors"
	"mcrauth/internal/model"
	"mcrauth/internal/repository"
)

// seedUser is a demo local account for manual testing.
type seedUser struct {
	username string
	password string
	nickname string
}

var seedUsers = []seedUser{
	{username: "alice", password: "password123", nickname: "Alice"},
	{username: "bob", password: "password123", nickname: "Bob"},
	{username: "charlie", password: "password123", nickname: ""},
}

func main() {
	log.Info("starting seed script")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.WithError(err).Fatal("auto-migrate")
	}

	users := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	created := 0
	for _, s := range seedUsers {
		hash, err := auth.HashPassword(s.password)
		if err != nil {
			log.WithError(err).Fatal("hash password")
		}

		username := s.username
		user := &model.User{
			Username:     &username,
			PasswordHash: hash,
			Nickname:     s.nickname,
			IsActive:     true,
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, apperrors.ErrDuplicateIdentity) {
				log.WithField("username", s.username).Info("user already exists, skipping")
				continue
			}
			log.WithError(err).Fatal("create user")
		}
		created++
		log.WithField("username", s.username).Info("created user")
	}

	log.WithField("created", created).Info("seed complete")
}
