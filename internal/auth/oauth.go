package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrIncompleteTokenResponse = errors.New("token response is missing access_token or expires_in")
	ErrTokenURLRequired        = errors.New("token URL is required")
)

// OAuth2Config describes an OAuth2 client registered with the authorization server.
type OAuth2Config struct {
	TokenURL     string
	AuthorizeURL string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
}

// Token is a token endpoint response. ExpiresAt is computed locally.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresIn    int64     `json:"expires_in,omitempty"`
	CreatedAt    int64     `json:"created_at,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ExpiresAt    time.Time `json:"-"`
}

// TokenError is a non-2xx answer from the token endpoint.
type TokenError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
	Body        string `json:"-"`
}

// Error implements the error interface.
func (e *TokenError) Error() string {
	if e.Code == "" && e.Description == "" {
		return fmt.Sprintf("token request failed with status %d: %s", e.StatusCode, e.Body)
	}

	return fmt.Sprintf("token request failed with status %d: %s: %s", e.StatusCode, e.Code, e.Description)
}

// RefreshToken exchanges a refresh token for a new token set with a single
// form-encoded POST to the token endpoint. ExpiresAt is issuedAt + expires_in.
func RefreshToken(ctx context.Context, httpClient *http.Client, config *OAuth2Config, refreshToken string, issuedAt time.Time) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", constants.GrantTypeRefreshToken)
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", config.ClientID)
	form.Set("client_secret", config.ClientSecret)

	if config.RedirectURI != "" {
		form.Set("redirect_uri", config.RedirectURI)
	}

	return requestToken(ctx, httpClient, config.TokenURL, form, issuedAt)
}

func requestToken(ctx context.Context, httpClient *http.Client, tokenURL string, form url.Values, issuedAt time.Time) (*Token, error) {
	if tokenURL == "" {
		return nil, ErrTokenURLRequired
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.ShortHTTPTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", constants.MediaTypeForm)
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		tokenErr := &TokenError{StatusCode: resp.StatusCode, Body: string(body)}
		_ = json.Unmarshal(body, tokenErr)

		return nil, tokenErr
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	if token.AccessToken == "" || token.ExpiresIn <= 0 {
		return nil, ErrIncompleteTokenResponse
	}

	token.ExpiresAt = issuedAt.Add(time.Duration(token.ExpiresIn) * time.Second)

	return &token, nil
}
