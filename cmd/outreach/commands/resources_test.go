//nolint:testpackage // Need access to internal types
package commands

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

const prospectPage = `{
	"data": [
		{"type": "prospect", "id": 1, "attributes": {"firstName": "Ada", "lastName": "Lovelace"}}
	],
	"meta": {"count": 1}
}`

// recordingServer serves the Outreach API and token endpoint from handler and
// records "METHOD path" for every request.
type recordingServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
}

func newRecordingServer(t *testing.T, handler http.HandlerFunc) *recordingServer {
	t.Helper()

	server := &recordingServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.mu.Lock()
		server.requests = append(server.requests, r.Method+" "+r.URL.Path)
		server.mu.Unlock()

		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return server
}

func (s *recordingServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.requests...)
}

// useTestConfig points viper at a fresh config file holding config.
func useTestConfig(t *testing.T, config *Config) string {
	t.Helper()

	configFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, writeConfigFile(configFile, config))

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.SetConfigFile(configFile)
	require.NoError(t, viper.ReadInConfig())

	return configFile
}

func executeCommand(cmd *cobra.Command, stdin string, args ...string) (string, error) {
	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))

	if args == nil {
		args = []string{}
	}

	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func apiHandler(t *testing.T, wantToken string) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "refresh", r.PostForm.Get("refresh_token"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token": "new-token", "refresh_token": "new-refresh", "expires_in": 7200}`))

			return
		}

		assert.Equal(t, "Bearer "+wantToken, r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/prospects":
			if filter := r.URL.Query().Get("filter[emails]"); filter != "" {
				assert.Equal(t, "ada@example.com", filter)
			}

			w.Header().Set("Content-Type", "application/vnd.api+json")
			_, _ = w.Write([]byte(prospectPage))
		case r.Method == http.MethodDelete && r.URL.Path == "/prospects/7":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestCommands_AgainstServer(t *testing.T) {
	valid := time.Now().Add(time.Hour).Unix()
	expired := time.Now().Add(-time.Hour).Unix()

	tests := []struct {
		name         string
		command      func() *cobra.Command
		output       string
		expiresAt    int64
		stdin        string
		args         []string
		wantToken    string
		wantRequests []string
		wantOut      []string
		wantStored   string
	}{
		{
			name:         "list renders a table",
			command:      NewResourcesCommand,
			output:       constants.FormatTable,
			expiresAt:    valid,
			args:         []string{"list", "prospects", "--filter", "emails=ada@example.com", "--columns", "firstName"},
			wantToken:    "access",
			wantRequests: []string{"GET /prospects"},
			wantOut:      []string{"Ada"},
			wantStored:   "access",
		},
		{
			name:         "list renders json",
			command:      NewResourcesCommand,
			output:       constants.FormatJSON,
			expiresAt:    valid,
			args:         []string{"list", "prospects"},
			wantToken:    "access",
			wantRequests: []string{"GET /prospects"},
			wantOut:      []string{`"firstName"`, `"Lovelace"`},
			wantStored:   "access",
		},
		{
			name:         "expired token is refreshed and saved before listing",
			command:      NewResourcesCommand,
			output:       constants.FormatTable,
			expiresAt:    expired,
			args:         []string{"list", "prospects", "--columns", "lastName"},
			wantToken:    "new-token",
			wantRequests: []string{"POST /oauth/token", "GET /prospects"},
			wantOut:      []string{"Lovelace"},
			wantStored:   "new-token",
		},
		{
			name:         "delete with force",
			command:      NewResourcesCommand,
			output:       constants.FormatTable,
			expiresAt:    valid,
			args:         []string{"delete", "prospects", "7", "--force"},
			wantToken:    "access",
			wantRequests: []string{"DELETE /prospects/7"},
			wantOut:      []string{"Deleted prospects 7"},
			wantStored:   "access",
		},
		{
			name:         "delete confirmed at the prompt",
			command:      NewResourcesCommand,
			output:       constants.FormatTable,
			expiresAt:    valid,
			stdin:        "y\n",
			args:         []string{"delete", "prospects", "7"},
			wantToken:    "access",
			wantRequests: []string{"DELETE /prospects/7"},
			wantOut:      []string{"Deleted prospects 7"},
			wantStored:   "access",
		},
		{
			name:       "delete declined sends nothing",
			command:    NewResourcesCommand,
			output:     constants.FormatTable,
			expiresAt:  valid,
			stdin:      "n\n",
			args:       []string{"delete", "prospects", "7"},
			wantOut:    []string{"Aborted"},
			wantStored: "access",
		},
		{
			name:       "refresh leaves a valid token alone by default",
			command:    NewRefreshCommand,
			output:     constants.FormatTable,
			expiresAt:  valid,
			wantOut:    []string{"true"},
			wantStored: "access",
		},
		{
			name:         "refresh with force",
			command:      NewRefreshCommand,
			output:       constants.FormatTable,
			expiresAt:    valid,
			args:         []string{"--force"},
			wantRequests: []string{"POST /oauth/token"},
			wantOut:      []string{"true"},
			wantStored:   "new-token",
		},
		{
			name:         "refresh an expired token",
			command:      NewRefreshCommand,
			output:       constants.FormatJSON,
			expiresAt:    expired,
			wantRequests: []string{"POST /oauth/token"},
			wantOut:      []string{`"valid": true`},
			wantStored:   "new-token",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			server := newRecordingServer(t, apiHandler(t, testCase.wantToken))

			configFile := useTestConfig(t, &Config{
				Output:      testCase.output,
				APIEndpoint: server.URL,
				TokenURL:    server.URL + "/oauth/token",
				StoredCredentials: outreach.StoredCredentials{
					ClientID:     "client-id",
					ClientSecret: "client-secret",
					AccessToken:  "access",
					RefreshToken: "refresh",
					ExpiresAt:    testCase.expiresAt,
				},
			})

			out, err := executeCommand(testCase.command(), testCase.stdin, testCase.args...)
			require.NoError(t, err)

			for _, want := range testCase.wantOut {
				assert.Contains(t, out, want)
			}

			if testCase.wantRequests == nil {
				assert.Empty(t, server.Requests())
			} else {
				assert.Equal(t, testCase.wantRequests, server.Requests())
			}

			data, err := os.ReadFile(configFile) //nolint:gosec // test file path
			require.NoError(t, err)

			var stored Config

			require.NoError(t, yaml.Unmarshal(data, &stored))
			assert.Equal(t, testCase.wantStored, stored.AccessToken)
			assert.Equal(t, "client-secret", stored.ClientSecret)
		})
	}
}

func TestResourcesCommand_RejectsUnknownOutput(t *testing.T) {
	server := newRecordingServer(t, apiHandler(t, "access"))

	useTestConfig(t, &Config{
		Output:      "xml",
		APIEndpoint: server.URL,
		StoredCredentials: outreach.StoredCredentials{
			AccessToken: "access",
			ExpiresAt:   time.Now().Add(time.Hour).Unix(),
		},
	})

	_, err := executeCommand(NewResourcesCommand(), "", "list", "prospects")
	require.ErrorIs(t, err, constants.ErrUnsupportedOutput)
	assert.Empty(t, server.Requests())
}
