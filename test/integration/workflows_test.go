//go:build integration

package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreachclient"
)

// TestProspectWorkflow_Lifecycle creates, reads, filters, updates and deletes
// a prospect through the library.
//
//nolint:funlen // Test functions can be longer for comprehensive testing
func TestProspectWorkflow_Lifecycle(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	ctx := context.Background()

	client, err := outreachclient.New(&outreach.Config{APIEndpoint: config.APIEndpoint}, config.Credentials(t))
	require.NoError(t, err)

	prospects, err := client.Resource("prospects")
	require.NoError(t, err)

	email := GenerateTestName("sdk-integration") + "@example.com"

	created, err := prospects.Create(ctx, map[string]any{
		"firstName": "Integration",
		"lastName":  "Test",
		"emails":    []string{email},
	}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	defer func() {
		if err := prospects.Delete(ctx, created.ID); err != nil && !outreach.IsNotFound(err) {
			t.Logf("Cleanup warning for prospect %s: %v", created.ID, err)
		}
	}()

	t.Run("get", func(t *testing.T) {
		result, err := prospects.Get(ctx, created.ID, outreach.NewQueryParams().WithFields("prospect", "firstName"))
		require.NoError(t, err)
		assert.Equal(t, created.ID, result.Data.ID)

		firstName, ok := result.Data.Attribute("firstName")
		require.True(t, ok)
		assert.Equal(t, "Integration", firstName)
	})

	t.Run("list with filter", func(t *testing.T) {
		page, err := prospects.List(ctx, outreach.NewQueryParams().WithFilter("emails", email))
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, created.ID, page.Data[0].ID)
	})

	t.Run("update", func(t *testing.T) {
		updated, err := prospects.Update(ctx, created.ID, map[string]any{"title": "QA"}, nil)
		require.NoError(t, err)

		title, _ := updated.Attribute("title")
		assert.Equal(t, "QA", title)
	})

	t.Run("delete then get is not found", func(t *testing.T) {
		require.NoError(t, prospects.Delete(ctx, created.ID))

		_, err := prospects.Get(ctx, created.ID, nil)
		require.Error(t, err)
		assert.True(t, outreach.IsNotFound(err))
	})
}

// TestCLIWorkflow_Resources drives the same lifecycle through the CLI.
func TestCLIWorkflow_Resources(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)
	email := GenerateTestName("cli-integration") + "@example.com"

	stdout, stderr, err := runner.Run("--output", "json", "resources", "create", "prospects",
		"--attr", "firstName=CLI",
		"--attr", `emails=["`+email+`"]`)
	require.NoError(t, err, stderr)

	var created outreach.Resource

	DecodeJSONOutput(t, stdout, &created)
	require.NotEmpty(t, created.ID)

	defer runner.CleanupResource("prospects", created.ID.String())

	stdout, stderr, err = runner.Run("--output", "yaml", "resources", "get", "prospects", created.ID.String())
	require.NoError(t, err, stderr)
	AssertYAMLOutput(t, stdout)
	assert.Contains(t, stdout, "firstName: CLI")

	stdout, stderr, err = runner.Run("resources", "list", "prospects", "--filter", "emails="+email, "--columns", "firstName")
	require.NoError(t, err, stderr)
	assert.True(t, strings.Contains(stdout, "CLI"), stdout)

	stdout, stderr, err = runner.Run("resources", "delete", "prospects", created.ID.String(), "--force")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Deleted prospects")
}
