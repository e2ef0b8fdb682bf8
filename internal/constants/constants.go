package constants

import "time"

// Outreach endpoints.
const (
	// DefaultAPIEndpoint is the base URL of the Outreach REST API.
	DefaultAPIEndpoint = "https://api.outreach.io/api/v2"

	// DefaultTokenURL is the OAuth2 token endpoint.
	DefaultTokenURL = "https://api.outreach.io/oauth/token"

	// DefaultAuthorizeURL is the OAuth2 authorization endpoint.
	DefaultAuthorizeURL = "https://api.outreach.io/oauth/authorize"
)

// Media types.
const (
	// MediaTypeJSONAPI is the content type of request and response documents.
	MediaTypeJSONAPI = "application/vnd.api+json"

	// MediaTypeForm is used for token endpoint requests.
	MediaTypeForm = "application/x-www-form-urlencoded"
)

// Client identification.
const (
	// Version is the SDK version reported in the User-Agent header.
	Version = "0.2.0"

	// DefaultUserAgent is sent when the caller does not override it.
	DefaultUserAgent = "outreach-sdk-go/" + Version
)

// Environment variables read for client credentials.
const (
	EnvClientID    = "OUTREACH_APP_ID"
	EnvSecret      = "OUTREACH_APP_SECRET"
	EnvRedirectURI = "OUTREACH_OAUTH_REDIRECT_URI"

	// EnvRuntime selects console ("development", "dev" or unset) or JSON log output.
	EnvRuntime = "ENV"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and credential files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for token endpoint calls.
	ShortHTTPTimeout = 10 * time.Second
)

// OAuth2 grant types.
const (
	GrantTypeRefreshToken      = "refresh_token"
	GrantTypeAuthorizationCode = "authorization_code"
)

// Query parameter names.
const (
	QueryFilter  = "filter"
	QuerySort    = "sort"
	QueryInclude = "include"
	QueryFields  = "fields"
)

// Validation and limits.
const (
	// MinimumArgumentCount is the argument count for TYPE ID commands.
	MinimumArgumentCount = 2

	// MaxErrorBodyLength caps how much of an unparseable error body is echoed.
	MaxErrorBodyLength = 512
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// TimeDisplayFormat formats timestamps in tables.
	TimeDisplayFormat = "2006-01-02 15:04:05"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)
