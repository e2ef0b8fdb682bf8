//nolint:testpackage // Need access to internal types
package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

func TestWriteConfigFile(t *testing.T) {
	t.Parallel()

	configFile := filepath.Join(t.TempDir(), "nested", "config.yml")

	config := &Config{
		Output:      constants.FormatJSON,
		APIEndpoint: "https://api.outreach.io/api/v2",
		StoredCredentials: outreach.StoredCredentials{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresAt:    1800000000,
		},
	}

	require.NoError(t, writeConfigFile(configFile, config))

	info, err := os.Stat(configFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())

	data, err := os.ReadFile(configFile) //nolint:gosec // test file path
	require.NoError(t, err)

	var raw map[string]any

	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "json", raw["output"])
	assert.Equal(t, "client-id", raw["client_id"])
	assert.Equal(t, "refresh", raw["refresh_token"])
	assert.Equal(t, 1800000000, raw["expires_at"])
	assert.NotContains(t, raw, "redirect_uri")
	assert.NotContains(t, raw, "StoredCredentials")
}

func TestMaskConfig(t *testing.T) {
	t.Parallel()

	config := &Config{StoredCredentials: outreach.StoredCredentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AccessToken:  "access",
	}}

	masked := maskConfig(config)

	assert.Equal(t, "client-id", masked.ClientID)
	assert.Equal(t, constants.MaskedSecret, masked.ClientSecret)
	assert.Equal(t, constants.MaskedSecret, masked.AccessToken)
	assert.Empty(t, masked.RefreshToken)
	assert.Equal(t, "client-secret", config.ClientSecret)
}

func TestDisplayConfigTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := displayConfigTable(&buf, maskConfig(&Config{StoredCredentials: outreach.StoredCredentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}}))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "client-id")
	assert.NotContains(t, out, "client-secret")
	assert.Contains(t, out, constants.NotAvailable)
}

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	config := &Config{}

	require.NoError(t, setConfigValue(config, "client_id", "abc"))
	require.NoError(t, setConfigValue(config, "api_endpoint", "https://example.test"))
	assert.Equal(t, "abc", config.ClientID)
	assert.Equal(t, "https://example.test", config.APIEndpoint)

	err := setConfigValue(config, "access_token", "x")
	require.ErrorIs(t, err, constants.ErrUnknownConfigKey)
	assert.Empty(t, config.AccessToken)
}

func TestMergeCredentials(t *testing.T) {
	t.Parallel()

	config := &Config{StoredCredentials: outreach.StoredCredentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://localhost/callback",
		AccessToken:  "old",
		RefreshToken: "old-refresh",
		ExpiresAt:    1,
	}}

	mergeCredentials(config, outreach.StoredCredentials{
		AccessToken:  "new",
		RefreshToken: "new-refresh",
		ExpiresAt:    2,
	})

	assert.Equal(t, outreach.StoredCredentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://localhost/callback",
		AccessToken:  "new",
		RefreshToken: "new-refresh",
		ExpiresAt:    2,
	}, config.StoredCredentials)
}

func TestCredentialsFromConfig(t *testing.T) {
	t.Parallel()

	_, err := credentialsFromConfig(&Config{})
	require.ErrorIs(t, err, constants.ErrNoCredentialsConfigured)

	creds, err := credentialsFromConfig(&Config{
		TokenURL: "https://token.example.test",
		StoredCredentials: outreach.StoredCredentials{
			RefreshToken: "refresh",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://token.example.test", creds.TokenURL)
	assert.False(t, creds.Valid())
}

func TestEnsureValid(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials are left alone", func(t *testing.T) {
		t.Parallel()

		creds := outreach.NewCredentials(outreach.StoredCredentials{
			AccessToken: "access",
			ExpiresAt:   time.Now().Add(time.Hour).Unix(),
		})

		require.NoError(t, ensureValid(context.Background(), creds, NewConfigPersister()))
		assert.Equal(t, "access", creds.Snapshot().AccessToken)
	})

	t.Run("expired without refresh token", func(t *testing.T) {
		t.Parallel()

		creds := outreach.NewCredentials(outreach.StoredCredentials{
			AccessToken: "access",
			ExpiresAt:   time.Now().Add(-time.Hour).Unix(),
		})

		err := ensureValid(context.Background(), creds, NewConfigPersister())
		require.ErrorIs(t, err, constants.ErrNoRefreshToken)
	})

	t.Run("failed refresh is an authentication error", func(t *testing.T) {
		t.Parallel()

		creds := outreach.NewCredentials(outreach.StoredCredentials{
			RefreshToken: "refresh",
		})

		err := ensureValid(context.Background(), creds, NewConfigPersister())
		require.Error(t, err)
		assert.True(t, outreach.IsAuthentication(err))
		require.ErrorIs(t, err, outreach.ErrMissingClientCredentials)
	})
}

func TestTokenStatus(t *testing.T) {
	t.Parallel()

	now := time.Now()

	creds := outreach.NewCredentials(outreach.StoredCredentials{
		AccessToken: "access",
		ExpiresAt:   now.Add(90 * time.Minute).Unix(),
	})

	status := tokenStatus(creds, now)
	assert.True(t, status.Valid)
	assert.NotEqual(t, constants.NotAvailable, status.ExpiresAt)
	assert.NotEqual(t, constants.NotAvailable, status.ExpiresIn)

	empty := tokenStatus(outreach.NewCredentials(outreach.StoredCredentials{}), now)
	assert.False(t, empty.Valid)
	assert.Equal(t, constants.NotAvailable, empty.ExpiresAt)
	assert.Equal(t, constants.NotAvailable, empty.ExpiresIn)
}
