package commands_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ExecutiveSearchAI/outreach-sdk/cmd/outreach/commands"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func TestNewResourcesCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewResourcesCommand()
	assert.Equal(t, "resources", cmd.Use)
	assert.Contains(t, cmd.Aliases, "r")

	for _, name := range []string{"list", "get", "create", "update", "delete"} {
		sub := findSubcommand(cmd, name)
		require.NotNil(t, sub, name)
		assert.NotNil(t, sub.RunE, name)
	}

	list := findSubcommand(cmd, "list")
	for _, flag := range []string{"filter", "sort", "include", "fields", "columns"} {
		assert.NotNil(t, list.Flags().Lookup(flag), flag)
	}

	create := findSubcommand(cmd, "create")
	assert.NotNil(t, create.Flags().Lookup("attr"))
	assert.NotNil(t, create.Flags().Lookup("rel"))

	del := findSubcommand(cmd, "delete")
	assert.NotNil(t, del.Flags().ShorthandLookup("f"))
}

func TestResourcesCommand_Args(t *testing.T) {
	t.Parallel()

	cmd := commands.NewResourcesCommand()

	get := findSubcommand(cmd, "get")
	require.Error(t, get.Args(get, []string{"prospects"}))
	require.NoError(t, get.Args(get, []string{"prospects", "1"}))

	list := findSubcommand(cmd, "list")
	require.Error(t, list.Args(list, nil))
	require.NoError(t, list.Args(list, []string{"prospects"}))
}

func TestNewAuthorizeCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewAuthorizeCommand()
	assert.Equal(t, "authorize", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	for _, flag := range []string{"client-id", "client-secret", "redirect-uri", "scope", "out-file", "save"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), flag)
	}

	assert.NotNil(t, cmd.Flags().ShorthandLookup("s"))
	assert.NotNil(t, cmd.Flags().ShorthandLookup("o"))
}

func TestNewConfigCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()

	for _, name := range []string{"show", "set", "clear"} {
		assert.NotNil(t, findSubcommand(cmd, name), name)
	}
}

func TestNewRefreshAndVersionCommands(t *testing.T) {
	t.Parallel()

	refresh := commands.NewRefreshCommand()
	assert.Equal(t, "refresh", refresh.Use)
	require.NotNil(t, refresh.Flags().Lookup("force"))
	assert.Equal(t, "false", refresh.Flags().Lookup("force").DefValue)

	version := commands.NewVersionCommand("1.0.0", "abc", "today")
	assert.Equal(t, "version", version.Use)
	assert.NotNil(t, version.RunE)
}
