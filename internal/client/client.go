package client

import (
	"errors"
	"strings"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
	"github.com/ExecutiveSearchAI/outreach-sdk/internal/http"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired = errors.New("config is required")
)

// Client builds resource clients that share one transport and one
// Credentials value.
type Client struct {
	httpClient  *http.Client
	credentials *outreach.Credentials
	baseURL     string
}

// New creates a client from config. An empty APIEndpoint uses the
// public Outreach API.
func New(config *outreach.Config, credentials *outreach.Credentials) (*Client, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	baseURL := strings.TrimSuffix(config.APIEndpoint, "/")
	if baseURL == "" {
		baseURL = constants.DefaultAPIEndpoint
	}

	var tokenSource http.TokenSource
	if credentials != nil {
		tokenSource = credentials
	}

	httpClient := http.NewClient(baseURL, tokenSource, createHTTPClientOptions(config)...)

	return &Client{
		httpClient:  httpClient,
		credentials: credentials,
		baseURL:     baseURL,
	}, nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *outreach.Config) []http.Option {
	var httpOpts []http.Option

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	} else if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	return httpOpts
}

// Resource returns a client bound to resourceType, for example "prospects".
func (c *Client) Resource(resourceType string) (*ResourceClient, error) {
	resourceType = strings.Trim(resourceType, "/ ")
	if resourceType == "" {
		return nil, outreach.ErrResourceTypeRequired
	}

	return NewResourceClient(c.httpClient, c.credentials, resourceType), nil
}

// Credentials returns the shared credentials.
func (c *Client) Credentials() *outreach.Credentials {
	return c.credentials
}

// BaseURL returns the resource API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
