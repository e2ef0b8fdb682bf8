package outreach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/auth"
	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
)

// Credentials holds an OAuth2 token set for the Outreach API together with the
// client registration needed to refresh it.
//
// A Credentials value is shared by pointer between resource clients. Reads go
// through Valid and Token, and the token fields only change through Refresh.
// Concurrent Refresh calls are coalesced: callers arriving while a refresh is
// in flight wait for it and receive its result.
//
// Fields may be set directly while building the value. Once it is shared, use
// the methods only.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AccessToken  string
	RefreshToken string
	// ExpiresAt is the absolute expiry of AccessToken. The zero value means a
	// token was never obtained.
	ExpiresAt time.Time

	// TokenURL overrides the token endpoint used by Refresh.
	TokenURL string
	// HTTPClient is used for the token exchange. Defaults to a client with a
	// short timeout.
	HTTPClient *http.Client
	// Leeway treats the token as expired this long before ExpiresAt.
	Leeway time.Duration

	mu    sync.RWMutex
	group singleflight.Group
}

// StoredCredentials is the persistable form of Credentials. ExpiresAt is a
// unix timestamp in seconds.
type StoredCredentials struct {
	ClientID     string `json:"client_id,omitempty"     yaml:"client_id,omitempty"     mapstructure:"client_id"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty" mapstructure:"client_secret"`
	RedirectURI  string `json:"redirect_uri,omitempty"  yaml:"redirect_uri,omitempty"  mapstructure:"redirect_uri"`
	AccessToken  string `json:"access_token,omitempty"  yaml:"access_token,omitempty"  mapstructure:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty" mapstructure:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at,omitempty"    yaml:"expires_at,omitempty"    mapstructure:"expires_at"`
}

// NewCredentials creates credentials from stored values.
func NewCredentials(stored StoredCredentials) *Credentials {
	creds := &Credentials{
		ClientID:     stored.ClientID,
		ClientSecret: stored.ClientSecret,
		RedirectURI:  stored.RedirectURI,
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
	}

	if stored.ExpiresAt > 0 {
		creds.ExpiresAt = time.Unix(stored.ExpiresAt, 0)
	}

	return creds
}

// NewCredentialsFromEnv reads the client registration from OUTREACH_APP_ID,
// OUTREACH_APP_SECRET and OUTREACH_OAUTH_REDIRECT_URI. Tokens are left empty.
func NewCredentialsFromEnv() *Credentials {
	return &Credentials{
		ClientID:     os.Getenv(constants.EnvClientID),
		ClientSecret: os.Getenv(constants.EnvSecret),
		RedirectURI:  os.Getenv(constants.EnvRedirectURI),
	}
}

// Valid reports whether an access token is present and not yet expired.
// It never performs network I/O.
func (c *Credentials) Valid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.validLocked(time.Now())
}

func (c *Credentials) validLocked(now time.Time) bool {
	if c.AccessToken == "" {
		return false
	}

	return now.Before(c.ExpiresAt.Add(-c.Leeway))
}

// Token returns the current access token, or an *AuthenticationError when the
// credentials are not valid. It does not refresh.
func (c *Credentials) Token() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.validLocked(time.Now()) {
		return "", &AuthenticationError{Err: ErrCredentialsInvalid}
	}

	return c.AccessToken, nil
}

// Snapshot returns a copy of the persistable fields.
func (c *Credentials) Snapshot() StoredCredentials {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored := StoredCredentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.RedirectURI,
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
	}

	if !c.ExpiresAt.IsZero() {
		stored.ExpiresAt = c.ExpiresAt.Unix()
	}

	return stored
}

// Refresh exchanges the refresh token for a new access token. On success
// AccessToken and ExpiresAt are replaced, and RefreshToken is replaced when
// the server rotates it. On failure nothing changes and the error is an
// *AuthenticationError.
//
// Concurrent calls share one token request. That request is detached from any
// single caller's cancellation; a caller whose ctx ends first returns its own
// ctx error while the shared request runs on for the others.
func (c *Credentials) Refresh(ctx context.Context) error {
	result := c.group.DoChan("refresh", func() (any, error) {
		return nil, c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-result:
		return res.Err
	case <-ctx.Done():
		return refreshError(ctx.Err())
	}
}

func (c *Credentials) refresh(ctx context.Context) error {
	c.mu.RLock()
	refreshToken := c.RefreshToken
	httpClient := c.HTTPClient
	config := &auth.OAuth2Config{
		TokenURL:     c.TokenURL,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.RedirectURI,
	}
	c.mu.RUnlock()

	if refreshToken == "" {
		return &AuthenticationError{Err: ErrMissingRefreshToken}
	}

	if config.ClientID == "" || config.ClientSecret == "" {
		return &AuthenticationError{Err: ErrMissingClientCredentials}
	}

	if config.TokenURL == "" {
		config.TokenURL = constants.DefaultTokenURL
	}

	token, err := auth.RefreshToken(ctx, httpClient, config, refreshToken, time.Now())
	if err != nil {
		return refreshError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.AccessToken = token.AccessToken
	c.ExpiresAt = token.ExpiresAt

	if token.RefreshToken != "" {
		c.RefreshToken = token.RefreshToken
	}

	return nil
}

func refreshError(err error) error {
	tokenErr := &auth.TokenError{}
	if errors.As(err, &tokenErr) {
		return &AuthenticationError{
			Message:    "token endpoint rejected refresh",
			StatusCode: tokenErr.StatusCode,
			Err:        tokenErr,
		}
	}

	if errors.Is(err, ErrIncompleteTokenResponse) {
		return &AuthenticationError{Err: err}
	}

	return &AuthenticationError{Message: "refresh request failed", Err: err}
}

// ToMap returns the non-empty persistable fields keyed by their JSON names,
// minus any keys listed in strip (for example "client_secret").
func (c *Credentials) ToMap(strip ...string) map[string]any {
	stored := c.Snapshot()
	fields := map[string]any{
		"client_id":     stored.ClientID,
		"client_secret": stored.ClientSecret,
		"redirect_uri":  stored.RedirectURI,
		"access_token":  stored.AccessToken,
		"refresh_token": stored.RefreshToken,
		"expires_at":    stored.ExpiresAt,
	}

	for key, value := range fields {
		if slices.Contains(strip, key) || value == "" || value == int64(0) {
			delete(fields, key)
		}
	}

	return fields
}

// ToJSON encodes ToMap(strip...).
func (c *Credentials) ToJSON(strip ...string) ([]byte, error) {
	data, err := json.Marshal(c.ToMap(strip...))
	if err != nil {
		return nil, fmt.Errorf("encoding credentials: %w", err)
	}

	return data, nil
}

// MarshalJSON implements json.Marshaler.
func (c *Credentials) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("encoding credentials: %w", err)
	}

	return data, nil
}

// UnmarshalJSON implements json.Unmarshaler. expires_at may be an integer or
// fractional unix timestamp.
func (c *Credentials) UnmarshalJSON(data []byte) error {
	var raw struct {
		ClientID     string      `json:"client_id"`
		ClientSecret string      `json:"client_secret"`
		RedirectURI  string      `json:"redirect_uri"`
		AccessToken  string      `json:"access_token"`
		RefreshToken string      `json:"refresh_token"`
		ExpiresAt    json.Number `json:"expires_at"`
	}

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("parsing credentials: %w", err)
	}

	var expiresAt time.Time

	if raw.ExpiresAt != "" {
		seconds, err := raw.ExpiresAt.Float64()
		if err != nil {
			return fmt.Errorf("parsing expires_at: %w", err)
		}

		if seconds > 0 {
			whole, frac := math.Modf(seconds)
			expiresAt = time.Unix(int64(whole), int64(frac*float64(time.Second)))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.ClientID = raw.ClientID
	c.ClientSecret = raw.ClientSecret
	c.RedirectURI = raw.RedirectURI
	c.AccessToken = raw.AccessToken
	c.RefreshToken = raw.RefreshToken
	c.ExpiresAt = expiresAt

	return nil
}
