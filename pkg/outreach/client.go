package outreach

import (
	"context"
	"net/http"
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building resource clients.
//
// Credentials are not part of Config: they are passed separately so that one
// Credentials value can be shared, and refreshed, across every resource client.
//
// # Timeouts and retries
//
// Per-request timeouts should generally be controlled via the context passed
// to client methods. HTTPTimeout sets an overall ceiling on the underlying
// http.Client. Requests are never retried.
type Config struct {
	// APIEndpoint: base URL of the resource API. Defaults to
	// "https://api.outreach.io/api/v2".
	APIEndpoint string
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
	// HTTPTimeout: overall timeout of the default http.Client. Ignored when
	// HTTPClient is set.
	HTTPTimeout time.Duration
	// HTTPClient: optional client used for resource requests.
	HTTPClient *http.Client
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
}

// ResourceClient is a generic accessor bound to one resource type, such as
// "prospects" or "accounts". Every call fails with an *AuthenticationError,
// without a request, when the bound credentials are not valid.
type ResourceClient interface {
	// Type returns the bound resource type.
	Type() string
	// List returns a single page of resources. Filters, Sort, Include and
	// Fields of params are all optional.
	List(ctx context.Context, params *QueryParams) (*ListResult, error)
	// Get returns one resource. Only Include and Fields of params apply.
	Get(ctx context.Context, id ResourceID, params *QueryParams) (*Result, error)
	// Create creates a resource. attributes must not be empty.
	Create(ctx context.Context, attributes map[string]any, relationships map[string]Relationship) (*Resource, error)
	// Update modifies only the supplied attributes and relationships.
	Update(ctx context.Context, id ResourceID, attributes map[string]any, relationships map[string]Relationship) (*Resource, error)
	// Delete removes a resource. Deleting a missing resource surfaces the
	// API's *RequestError.
	Delete(ctx context.Context, id ResourceID) error
}

// Client hands out resource clients that share one transport and one
// Credentials value.
type Client interface {
	// Resource returns a client bound to resourceType.
	Resource(resourceType string) (ResourceClient, error)
	// Credentials returns the shared credentials.
	Credentials() *Credentials
}
