package constants

import "errors"

// Configuration errors.
var (
	ErrNoCredentialsConfigured = errors.New("no credentials configured, run 'outreach authorize' first")
	ErrNoRefreshToken          = errors.New("no refresh token available, run 'outreach authorize' again")
	ErrNoClientID              = errors.New("client ID is required (--client-id or OUTREACH_APP_ID)")
	ErrNoRedirectURI           = errors.New("redirect URI is required (--redirect-uri or OUTREACH_OAUTH_REDIRECT_URI)")
	ErrNoScopes                = errors.New("at least one --scope is required")
	ErrUnknownConfigKey        = errors.New("unknown configuration key")
)

// Input parsing errors.
var (
	ErrInvalidKeyValue     = errors.New("expected KEY=VALUE")
	ErrInvalidRelationship = errors.New("expected NAME=TYPE:ID[,TYPE:ID...]")
	ErrUnsupportedOutput   = errors.New("unsupported output format")
)
