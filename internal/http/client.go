package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

// TokenSource supplies the bearer token for each request. It is read on every
// call so a refresh made elsewhere is picked up by the next request.
type TokenSource interface {
	Token() (string, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client performs single round trips against the resource API.
type Client struct {
	baseURL     string
	tokenSource TokenSource
	httpClient  *retryablehttp.Client
	logger      Logger
	debug       bool
	userAgent   string
}

// Request describes one API call. Body, when set, is JSON encoded.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}
}

// Response is the status and raw body of an API call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
		}
	}
}

// WithTimeout sets the overall timeout of the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// NewClient creates a new HTTP client. tokenSource may be nil for
// unauthenticated requests.
func NewClient(baseURL string, tokenSource TokenSource, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{Timeout: constants.DefaultHTTPTimeout}
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.CheckRetry = neverRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		tokenSource: tokenSource,
		httpClient:  retryClient,
		userAgent:   constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.debug && client.logger != nil {
		retryClient.RequestLogHook = client.logRequest
		retryClient.ResponseLogHook = client.logResponse
	}

	return client
}

// Do performs a request. A non-2xx status returns both the response and an
// *outreach.RequestError; a failure below HTTP returns an
// *outreach.TransportError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var body io.Reader

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", constants.MediaTypeJSONAPI)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", constants.MediaTypeJSONAPI)
	}

	if c.tokenSource != nil {
		token, err := c.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("getting access token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &outreach.TransportError{Method: req.Method, URL: fullURL, Err: err}
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &outreach.TransportError{Method: req.Method, URL: fullURL, Err: err}
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return response, outreach.ParseRequestError(resp.StatusCode, respBody)
	}

	return response, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// neverRetry keeps every call to a single round trip.
func neverRetry(_ context.Context, _ *http.Response, _ error) (bool, error) {
	return false, nil
}

func (c *Client) logRequest(_ retryablehttp.Logger, req *http.Request, _ int) {
	headers := make(map[string]string, len(req.Header))
	for key := range req.Header {
		headers[key] = req.Header.Get(key)
	}

	if _, ok := headers["Authorization"]; ok {
		headers["Authorization"] = constants.MaskedSecret
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": headers,
	})
}

func (c *Client) logResponse(_ retryablehttp.Logger, resp *http.Response) {
	c.logger.Debug("HTTP Response", map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	})
}
