package client_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/client"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

const testToken = "test-token"

func validCredentials() *outreach.Credentials {
	return &outreach.Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AccessToken:  testToken,
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

// newTestResource starts a server with handler and returns a resource client
// bound to resourceType on it.
func newTestResource(t *testing.T, handler http.HandlerFunc, credentials *outreach.Credentials, resourceType string) *client.ResourceClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := client.New(&outreach.Config{APIEndpoint: server.URL}, credentials)
	require.NoError(t, err)

	resource, err := c.Resource(resourceType)
	require.NoError(t, err)

	return resource
}

func writeDocument(writer http.ResponseWriter, status int, body string) {
	writer.Header().Set("Content-Type", "application/vnd.api+json")
	writer.WriteHeader(status)
	_, _ = writer.Write([]byte(body))
}
