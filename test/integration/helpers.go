//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	APIEndpoint  string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	RefreshToken string
	OutreachPath string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIEndpoint:  os.Getenv("OUTREACH_API_ENDPOINT"),
		ClientID:     os.Getenv("OUTREACH_APP_ID"),
		ClientSecret: os.Getenv("OUTREACH_APP_SECRET"),
		RedirectURI:  os.Getenv("OUTREACH_OAUTH_REDIRECT_URI"),
		RefreshToken: os.Getenv("OUTREACH_TEST_REFRESH_TOKEN"),
		OutreachPath: getOutreachPath(),
		Verbose:      os.Getenv("OUTREACH_VERBOSE") == "true",
	}
}

func getOutreachPath() string {
	if path := os.Getenv("OUTREACH_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../outreach", "./outreach", "../outreach"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "outreach"
}

// SkipIfMissingConfig skips the test unless a client registration and a
// refresh token are available.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.ClientID == "" || config.ClientSecret == "" || config.RefreshToken == "" {
		t.Skip("OUTREACH_APP_ID, OUTREACH_APP_SECRET or OUTREACH_TEST_REFRESH_TOKEN not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test when the CLI binary cannot be found.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.OutreachPath); err != nil {
		t.Skipf("outreach binary not found at %s, skipping integration test", config.OutreachPath)
	}
}

var (
	sharedOnce  sync.Once
	sharedCreds *outreach.Credentials
	sharedErr   error
)

// Credentials refreshes the test refresh token once per test binary and
// returns the shared result. The server may rotate the refresh token, so
// every test reuses this token set.
func (config *TestConfig) Credentials(t *testing.T) *outreach.Credentials {
	t.Helper()

	sharedOnce.Do(func() {
		sharedCreds = outreach.NewCredentials(outreach.StoredCredentials{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURI:  config.RedirectURI,
			RefreshToken: config.RefreshToken,
		})
		sharedErr = sharedCreds.Refresh(context.Background())
	})

	if sharedErr != nil {
		t.Fatalf("refreshing test credentials: %v", sharedErr)
	}

	return sharedCreds
}

// CommandRunner runs the outreach CLI against a private config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a runner whose config file holds the test
// credentials.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	configFile := filepath.Join(t.TempDir(), "config.yml")
	stored := config.Credentials(t).Snapshot()

	data, err := yaml.Marshal(map[string]any{
		"client_id":     stored.ClientID,
		"client_secret": stored.ClientSecret,
		"redirect_uri":  stored.RedirectURI,
		"access_token":  stored.AccessToken,
		"refresh_token": stored.RefreshToken,
		"expires_at":    stored.ExpiresAt,
		"api_endpoint":  config.APIEndpoint,
	})
	if err != nil {
		t.Fatalf("encoding config: %v", err)
	}

	err = os.WriteFile(configFile, data, 0o600)
	if err != nil {
		t.Fatalf("writing config: %v", err)
	}

	return &CommandRunner{config: config, configFile: configFile, t: t}
}

// Run executes an outreach command and returns its output.
func (runner *CommandRunner) Run(args ...string) (string, string, error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes an outreach command with stdin input.
func (runner *CommandRunner) RunWithInput(input string, args ...string) (string, string, error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.OutreachPath, args...) //nolint:gosec // test binary
	cmd.Stdin = strings.NewReader(input)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.OutreachPath, strings.Join(args, " "))
	}

	err := cmd.Run()
	stdout, stderr := stdoutBuf.String(), stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// CleanupResource attempts to delete a test resource.
func (runner *CommandRunner) CleanupResource(resourceType, id string) {
	stdout, stderr, err := runner.Run("resources", "delete", resourceType, id, "--force")
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", resourceType, id, stdout, stderr)
	}
}

// GenerateTestName creates a unique test resource name.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// DecodeJSONOutput decodes command output that must be JSON.
func DecodeJSONOutput(t *testing.T, output string, target any) {
	t.Helper()

	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), target); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML.
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	var decoded any
	if err := yaml.Unmarshal([]byte(output), &decoded); err != nil {
		t.Errorf("Output is not YAML: %v\n%s", err, output)
	}
}
