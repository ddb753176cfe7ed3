package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mcrauth/internal/cache"
	apperrors "mcrauth/internal/errors"
	"mcrauth/internal/model"
	"mcrauth/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// UserService exposes profile operations for authenticated subjects.
type UserService interface {
	GetBySubject(ctx context.Context, subject string) (*model.User, error)
	UpdateNickname(ctx context.Context, subject, nickname string) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(users repository.UserRepository, cache *cache.Client) UserService {
	return &userService{users: users, cache: cache}
}

func (s *userService) cacheKey(subject string) string {
	return "user:subject:" + subject
}

// GetBySubject resolves a token subject (username for local accounts, email
// for Google accounts) to its user row, with a short-lived cache in front.
func (s *userService) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(subject)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.findBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(subject), payload, profileCacheTTL)
	}
	return user, nil
}

// UpdateNickname completes a profile. Setting a nickname also clears the
// is_new_user condition for Google accounts.
func (s *userService) UpdateNickname(ctx context.Context, subject, nickname string) (*model.User, error) {
	if err := validateNickname(nickname); err != nil {
		return nil, err
	}

	user, err := s.findBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	user.Nickname = nickname
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save nickname: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(subject))
	return user, nil
}

func (s *userService) findBySubject(ctx context.Context, subject string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user, err = s.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
