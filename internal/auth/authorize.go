package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNoAuthorizationCode = errors.New("no authorization code in redirect URL")
	ErrAuthorizationDenied = errors.New("authorization was denied")
	ErrStateMismatch       = errors.New("redirect state does not match the authorization request")
)

func (c *OAuth2Config) oauth2Config() *oauth2.Config {
	authorizeURL := c.AuthorizeURL
	if authorizeURL == "" {
		authorizeURL = constants.DefaultAuthorizeURL
	}

	tokenURL := c.TokenURL
	if tokenURL == "" {
		tokenURL = constants.DefaultTokenURL
	}

	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Scopes:       c.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authorizeURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthCodeURL returns the URL the user visits to grant access.
func (c *OAuth2Config) AuthCodeURL(state string) string {
	return c.oauth2Config().AuthCodeURL(state)
}

// Exchange trades an authorization code for a token set.
func (c *OAuth2Config) Exchange(ctx context.Context, httpClient *http.Client, code string) (*Token, error) {
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	tok, err := c.oauth2Config().Exchange(ctx, code)
	if err != nil {
		retrieveErr := &oauth2.RetrieveError{}
		if errors.As(err, &retrieveErr) {
			return nil, &TokenError{
				StatusCode:  retrieveErr.Response.StatusCode,
				Code:        retrieveErr.ErrorCode,
				Description: retrieveErr.ErrorDescription,
				Body:        string(retrieveErr.Body),
			}
		}

		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	if tok.Expiry.IsZero() {
		return nil, ErrIncompleteTokenResponse
	}

	token := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    tok.ExpiresIn,
		ExpiresAt:    tok.Expiry,
	}

	if scope, ok := tok.Extra("scope").(string); ok {
		token.Scope = scope
	}

	return token, nil
}

// CodeFromRedirect extracts the authorization code from the URL the browser
// was redirected to. A non-empty state must match the redirect's state
// parameter exactly.
func CodeFromRedirect(redirected, state string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(redirected))
	if err != nil {
		return "", fmt.Errorf("parsing redirect URL: %w", err)
	}

	query := u.Query()

	if state != "" && query.Get("state") != state {
		return "", ErrStateMismatch
	}

	if denied := query.Get("error"); denied != "" {
		return "", fmt.Errorf("%w: %s", ErrAuthorizationDenied, denied)
	}

	code := query.Get("code")
	if code == "" {
		return "", ErrNoAuthorizationCode
	}

	return code, nil
}
