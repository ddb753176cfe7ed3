package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"mcrauth/internal/config"
	apperrors "mcrauth/internal/errors"
)

const (
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	// requestTimeout bounds both provider calls; the provider is outside our
	// control and must not hold a login request open indefinitely.
	requestTimeout = 10 * time.Second
)

// Profile is the subset of Google's userinfo response the service consumes.
// Only Email is required.
type Profile struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

// GoogleClient performs the authorization-code exchange and profile fetch
// against Google's OAuth2 endpoints. Each call uses a fresh scoped HTTP
// client; no connection state crosses requests.
type GoogleClient struct {
	config      *oauth2.Config
	userInfoURL string
	timeout     time.Duration
}

// NewGoogleClient builds a client from deployment configuration. Endpoint
// URLs default to Google's and may be overridden for tests.
func NewGoogleClient(cfg *config.Config) *GoogleClient {
	endpoint := google.Endpoint
	if cfg.GoogleAuthURL != "" {
		endpoint.AuthURL = cfg.GoogleAuthURL
	}
	if cfg.GoogleTokenURL != "" {
		endpoint.TokenURL = cfg.GoogleTokenURL
	}
	userInfoURL := cfg.GoogleUserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultUserInfoURL
	}

	return &GoogleClient{
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
		timeout:     requestTimeout,
	}
}

// AuthorizationURL returns the provider's authorization endpoint URL with
// access_type=offline and prompt=consent. An empty state gets a generated
// value.
func (c *GoogleClient) AuthorizationURL(state string) string {
	if state == "" {
		state = uuid.NewString()
	}
	return c.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode POSTs the authorization code to the token endpoint and returns
// the provider token. Non-2xx responses and transport failures map to
// ErrProviderToken; deadline overruns to ErrProviderTimeout.
func (c *GoogleClient) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: c.timeout})

	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, classify(err, apperrors.ErrProviderToken)
	}
	return token, nil
}

// FetchProfile GETs the userinfo endpoint with a bearer token. A non-2xx
// response, transport failure or missing email maps to ErrProviderProfile.
func (c *GoogleClient) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apperrors.ErrProviderProfile, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: c.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, classify(err, apperrors.ErrProviderProfile)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: userinfo returned %d", apperrors.ErrProviderProfile, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo: %v", apperrors.ErrProviderProfile, err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: userinfo missing email", apperrors.ErrProviderProfile)
	}
	return &profile, nil
}

// classify wraps a provider call failure, keeping timeouts distinguishable.
func classify(err error, fallback error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", apperrors.ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %v", fallback, err)
}
