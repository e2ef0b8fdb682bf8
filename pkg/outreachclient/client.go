package outreachclient

import (
	"fmt"
	"strings"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/client"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

type resourceFactory struct {
	inner *client.Client
}

func (f *resourceFactory) Resource(resourceType string) (outreach.ResourceClient, error) {
	resource, err := f.inner.Resource(resourceType)
	if err != nil {
		return nil, err
	}

	return resource, nil
}

func (f *resourceFactory) Credentials() *outreach.Credentials {
	return f.inner.Credentials()
}

// New creates a client. config may be nil to use the defaults. The endpoint
// is normalized by trimming a trailing slash and adding "https://" if no
// scheme is present.
func New(config *outreach.Config, credentials *outreach.Credentials) (outreach.Client, error) {
	if config == nil {
		config = &outreach.Config{}
	}

	normalized := *config

	endpoint := strings.TrimSuffix(normalized.APIEndpoint, "/")
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	normalized.APIEndpoint = endpoint

	inner, err := client.New(&normalized, credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return &resourceFactory{inner: inner}, nil
}

// Resource creates a resource client for resourceType against the public
// Outreach API.
func Resource(resourceType string, credentials *outreach.Credentials) (outreach.ResourceClient, error) {
	c, err := New(nil, credentials)
	if err != nil {
		return nil, err
	}

	return c.Resource(resourceType)
}

// NewWithEndpoint creates a client for a non-default API endpoint.
func NewWithEndpoint(endpoint string, credentials *outreach.Credentials) (outreach.Client, error) {
	return New(&outreach.Config{APIEndpoint: endpoint}, credentials)
}
