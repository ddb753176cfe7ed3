package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"mcrauth/internal/auth"
	apperrors "mcrauth/internal/errors"
	"mcrauth/internal/model"
	"mcrauth/internal/oauth"
	"mcrauth/internal/repository"
)

// GoogleProvider is the outbound capability the federated flow needs from
// the identity provider.
type GoogleProvider interface {
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, accessToken string) (*oauth.Profile, error)
}

// AuthService composes hashing, token issuance, the provider exchange and
// identity resolution into the login flows.
type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	GoogleAuthURL(state string) string
	GoogleLogin(ctx context.Context, code string) (accessToken, refreshToken string, isNewUser bool, err error)
}

type authService struct {
	users    repository.UserRepository
	jwt      *auth.JWTService
	google   GoogleProvider
	resolver *IdentityResolver
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwt *auth.JWTService, google GoogleProvider) AuthService {
	return &authService{
		users:    users,
		jwt:      jwt,
		google:   google,
		resolver: NewIdentityResolver(users),
	}
}

// Register creates a local account with a hashed password. Registration does
// not authenticate; no tokens are issued. Uniqueness is enforced by the
// database constraint, not a lookup, so concurrent registrations cannot race
// past each other.
func (s *authService) Register(ctx context.Context, username, password string) error {
	if err := validateUsername(username); err != nil {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &model.User{
		Username:     &username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateIdentity) {
			return err
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login authenticates a local account. Unknown usernames and wrong passwords
// produce the same ErrInvalidCredentials so the response leaks neither.
func (s *authService) Login(ctx context.Context, username, password string) (string, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", apperrors.ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("lookup user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", "", apperrors.ErrInvalidCredentials
	}

	if err := s.touchLastLogin(ctx, user); err != nil {
		return "", "", err
	}
	return s.issueTokens(user.Subject())
}

// Refresh exchanges a valid refresh token for a new access token. Access
// tokens carry a different kind claim and are rejected here, so a leaked
// short-lived token cannot be used to mint replacements.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.Decode(refreshToken)
	if err != nil || claims.Kind != auth.KindRefresh || claims.Subject == "" {
		return "", apperrors.ErrInvalidRefreshToken
	}
	accessToken, err := s.jwt.IssueAccessToken(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

// GoogleAuthURL builds the provider authorization URL. No side effects.
func (s *authService) GoogleAuthURL(state string) string {
	return s.google.AuthorizationURL(state)
}

// GoogleLogin runs the full federated flow: code exchange, profile fetch,
// find-or-create, last_login update, token issuance. Provider failures
// short-circuit before any repository write; the log keeps which leg failed
// while the caller sees a single collapsed error.
func (s *authService) GoogleLogin(ctx context.Context, code string) (string, string, bool, error) {
	providerToken, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		log.WithError(err).Warn("google token exchange failed")
		return "", "", false, err
	}

	profile, err := s.google.FetchProfile(ctx, providerToken.AccessToken)
	if err != nil {
		log.WithError(err).Warn("google userinfo fetch failed")
		return "", "", false, err
	}

	user, isNewUser, err := s.resolver.ResolveOrCreate(ctx, profile)
	if err != nil {
		return "", "", false, err
	}

	if err := s.touchLastLogin(ctx, user); err != nil {
		return "", "", false, err
	}

	accessToken, refreshToken, err := s.issueTokens(user.Subject())
	if err != nil {
		return "", "", false, err
	}
	return accessToken, refreshToken, isNewUser, nil
}

func (s *authService) touchLastLogin(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (s *authService) issueTokens(subject string) (string, string, error) {
	accessToken, err := s.jwt.IssueAccessToken(subject)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.jwt.IssueRefreshToken(subject)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}
