package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the claim set carried by issued tokens. Kind distinguishes
// access from refresh tokens so one cannot stand in for the other.
type Claims struct {
	Kind string `json:"kind,omitempty"`
	jwt.RegisteredClaims
}

const (
	// KindAccess marks short-lived access tokens.
	KindAccess = "access"
	// KindRefresh marks long-lived refresh tokens.
	KindRefresh = "refresh"
)

// NormalizeAlgorithm maps an algorithm name onto the supported HMAC family,
// falling back to HS256 for unknown or non-HMAC names. Issuance and the
// route middleware must agree on the result, so both go through here.
func NormalizeAlgorithm(algorithm string) string {
	if _, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC); !ok {
		return jwt.SigningMethodHS256.Alg()
	}
	return algorithm
}

// JWTService signs and verifies the access and refresh tokens issued to
// users. Both kinds are produced by the same signing primitive and differ
// in expiry and kind claim.
type JWTService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a JWT service. algorithm must name an HMAC method
// (HS256, HS384, HS512); anything else falls back to HS256.
func NewJWTService(secret, algorithm string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		method:     jwt.GetSigningMethod(NormalizeAlgorithm(algorithm)),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken signs a short-lived token with sub=subject.
func (s *JWTService) IssueAccessToken(subject string) (string, error) {
	return s.issue(subject, s.accessTTL, KindAccess)
}

// IssueRefreshToken signs a long-lived token with sub=subject.
func (s *JWTService) IssueRefreshToken(subject string) (string, error) {
	return s.issue(subject, s.refreshTTL, KindRefresh)
}

func (s *JWTService) issue(subject string, ttl time.Duration, kind string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the claims. Expired and
// malformed tokens arrive routinely, so every failure is an ordinary error
// the caller treats as "unauthenticated".
func (s *JWTService) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Subject decodes the token and returns its sub claim.
func (s *JWTService) Subject(tokenString string) (string, error) {
	claims, err := s.Decode(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
