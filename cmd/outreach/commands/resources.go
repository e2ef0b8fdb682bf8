package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

// NewResourcesCommand creates the resources command group.
func NewResourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resources",
		Aliases: []string{"resource", "r"},
		Short:   "Work with Outreach resources",
		Long: `List, get, create, update and delete resources of any type, such as
prospects, accounts, sequences or mailings.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOutput(viper.GetString("output"))
		},
	}

	cmd.AddCommand(newResourcesListCommand())
	cmd.AddCommand(newResourcesGetCommand())
	cmd.AddCommand(newResourcesCreateCommand())
	cmd.AddCommand(newResourcesUpdateCommand())
	cmd.AddCommand(newResourcesDeleteCommand())

	return cmd
}

func resourceClient(cmd *cobra.Command, resourceType string) (outreach.ResourceClient, error) {
	client, err := CreateClientWithTokenRefresh(cmd.Context())
	if err != nil {
		return nil, err
	}

	return client.Resource(resourceType)
}

func newResourcesListCommand() *cobra.Command {
	var (
		filters []string
		sort    []string
		include []string
		fields  []string
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "list TYPE",
		Short: "List resources",
		Long:  "List one page of resources of TYPE",
		Example: `  outreach resources list prospects --filter emails=ada@example.com
  outreach resources list prospects --sort -updatedAt --include account --fields firstName,account.name`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := buildListParams(args[0], filters, sort, include, fields)
			if err != nil {
				return err
			}

			resources, err := resourceClient(cmd, args[0])
			if err != nil {
				return err
			}

			result, err := resources.List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("listing %s: %w", args[0], err)
			}

			output := viper.GetString("output")
			if output != constants.FormatTable {
				return renderDocument(cmd.OutOrStdout(), output, result)
			}

			if len(columns) == 0 && len(fields) > 0 {
				columns = params.Fields[args[0]]
			}

			return renderResourceTable(cmd.OutOrStdout(), result.Data, listColumns(result.Data, columns))
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "filter as ATTRIBUTE=VALUE[,VALUE...] (repeatable)")
	cmd.Flags().StringSliceVar(&sort, "sort", nil, "sort attributes, prefix with - for descending")
	cmd.Flags().StringSliceVar(&include, "include", nil, "related resources to include")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "attributes to return, dotted for related types (account.name)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "attribute columns for table output")

	return cmd
}

func buildListParams(resourceType string, filters, sort, include, fields []string) (*outreach.QueryParams, error) {
	parsed, err := parseFilters(filters)
	if err != nil {
		return nil, err
	}

	params := outreach.NewQueryParams()

	for attribute, values := range parsed {
		params.WithFilter(attribute, values...)
	}

	if len(sort) > 0 {
		params.WithSort(sort...)
	}

	if len(include) > 0 {
		params.WithInclude(include...)
	}

	if len(fields) > 0 {
		params.WithFieldPaths(resourceType, fields...)
	}

	return params, nil
}

func newResourcesGetCommand() *cobra.Command {
	var (
		include []string
		fields  []string
	)

	cmd := &cobra.Command{
		Use:   "get TYPE ID",
		Short: "Get a resource",
		Long:  "Display a single resource of TYPE by ID",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := outreach.NewQueryParams()
			if len(include) > 0 {
				params.WithInclude(include...)
			}

			if len(fields) > 0 {
				params.WithFieldPaths(args[0], fields...)
			}

			resources, err := resourceClient(cmd, args[0])
			if err != nil {
				return err
			}

			result, err := resources.Get(cmd.Context(), outreach.ResourceID(args[1]), params)
			if err != nil {
				return fmt.Errorf("getting %s %s: %w", args[0], args[1], err)
			}

			output := viper.GetString("output")
			if output != constants.FormatTable {
				return renderDocument(cmd.OutOrStdout(), output, result)
			}

			return renderResourceDetail(cmd.OutOrStdout(), &result.Data)
		},
	}

	cmd.Flags().StringSliceVar(&include, "include", nil, "related resources to include")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "attributes to return, dotted for related types (account.name)")

	return cmd
}

func newResourcesCreateCommand() *cobra.Command {
	var (
		attrs []string
		rels  []string
	)

	cmd := &cobra.Command{
		Use:   "create TYPE",
		Short: "Create a resource",
		Long: `Create a resource of TYPE.

Attribute values that are valid JSON keep their type (42, true, null, ["a"]);
anything else is sent as a string.`,
		Example: `  outreach resources create prospects --attr firstName=Ada --attr emails='["ada@example.com"]' --rel account=account:7`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attributes, relationships, err := parseBody(attrs, rels)
			if err != nil {
				return err
			}

			resources, err := resourceClient(cmd, args[0])
			if err != nil {
				return err
			}

			created, err := resources.Create(cmd.Context(), attributes, relationships)
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}

			return renderMutation(cmd, "Created", created)
		},
	}

	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "attribute as NAME=VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&rels, "rel", nil, "relationship as NAME=TYPE:ID[,TYPE:ID...] (repeatable)")

	return cmd
}

func newResourcesUpdateCommand() *cobra.Command {
	var (
		attrs []string
		rels  []string
	)

	cmd := &cobra.Command{
		Use:   "update TYPE ID",
		Short: "Update a resource",
		Long:  "Update only the given attributes and relationships of a resource",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			attributes, relationships, err := parseBody(attrs, rels)
			if err != nil {
				return err
			}

			resources, err := resourceClient(cmd, args[0])
			if err != nil {
				return err
			}

			updated, err := resources.Update(cmd.Context(), outreach.ResourceID(args[1]), attributes, relationships)
			if err != nil {
				return fmt.Errorf("updating %s %s: %w", args[0], args[1], err)
			}

			return renderMutation(cmd, "Updated", updated)
		},
	}

	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "attribute as NAME=VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&rels, "rel", nil, "relationship as NAME=TYPE:ID[,TYPE:ID...], NAME=null or NAME= to clear (repeatable)")

	return cmd
}

func newResourcesDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete TYPE ID",
		Short: "Delete a resource",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirm(cmd, fmt.Sprintf("Delete %s %s?", args[0], args[1])) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")

				return nil
			}

			resources, err := resourceClient(cmd, args[0])
			if err != nil {
				return err
			}

			err = resources.Delete(cmd.Context(), outreach.ResourceID(args[1]))
			if err != nil {
				return fmt.Errorf("deleting %s %s: %w", args[0], args[1], err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", args[0], args[1])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}

func parseBody(attrs, rels []string) (map[string]any, map[string]outreach.Relationship, error) {
	attributes, err := parseAttributes(attrs)
	if err != nil {
		return nil, nil, err
	}

	relationships, err := parseRelationships(rels)
	if err != nil {
		return nil, nil, err
	}

	return attributes, relationships, nil
}

func renderMutation(cmd *cobra.Command, verb string, resource *outreach.Resource) error {
	output := viper.GetString("output")
	if output != constants.FormatTable {
		return renderDocument(cmd.OutOrStdout(), output, resource)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", verb, resource.Type, resource.ID)

	return renderResourceDetail(cmd.OutOrStdout(), resource)
}

func confirm(cmd *cobra.Command, prompt string) bool {
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", prompt)

	line, err := readLine(bufio.NewReader(cmd.InOrStdin()))
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))

	return answer == "y" || answer == "yes"
}
