package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

const (
	yamlIndent = 2

	// maxTableColumns caps the attribute columns picked automatically for
	// list output.
	maxTableColumns = 6

	maxCellWidth = 60
)

// renderDocument writes a resource document in the requested format. YAML
// output goes through JSON first so ids and relationships keep their wire
// shape.
func renderDocument(out io.Writer, format string, data any) error {
	switch format {
	case constants.FormatJSON:
		return renderJSON(out, data)
	case constants.FormatYAML:
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encoding data to JSON: %w", err)
		}

		var generic any

		err = json.Unmarshal(raw, &generic)
		if err != nil {
			return fmt.Errorf("decoding data from JSON: %w", err)
		}

		return renderYAML(out, generic)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, format)
	}
}

func validateOutput(format string) error {
	switch format {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, format)
	}
}

// listColumns returns the requested columns, or the sorted attribute names of
// the first resource.
func listColumns(resources []outreach.Resource, requested []string) []string {
	if len(requested) > 0 {
		return requested
	}

	if len(resources) == 0 {
		return nil
	}

	columns := make([]string, 0, len(resources[0].Attributes))
	for name := range resources[0].Attributes {
		columns = append(columns, name)
	}

	slices.Sort(columns)

	if len(columns) > maxTableColumns {
		columns = columns[:maxTableColumns]
	}

	return columns
}

func renderResourceTable(out io.Writer, resources []outreach.Resource, columns []string) error {
	if len(resources) == 0 {
		_, _ = fmt.Fprintln(out, "No resources found")

		return nil
	}

	header := append([]any{"ID"}, toAny(columns)...)

	table := tablewriter.NewWriter(out)
	table.Header(header...)

	for _, resource := range resources {
		row := []string{resource.ID.String()}

		for _, column := range columns {
			value, _ := resource.Attribute(column)
			row = append(row, formatCell(value))
		}

		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func renderResourceDetail(out io.Writer, resource *outreach.Resource) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Type", resource.Type})
	_ = table.Append([]string{"ID", resource.ID.String()})

	for _, name := range sortedKeys(resource.Attributes) {
		_ = table.Append([]string{name, formatCell(resource.Attributes[name])})
	}

	for _, name := range sortedKeys(resource.Relationships) {
		_ = table.Append([]string{name, formatRelationship(resource.Relationships[name])})
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatRelationship(rel outreach.Relationship) string {
	identifiers := rel.Identifiers()
	if len(identifiers) == 0 {
		if rel.IsToMany() {
			return "[]"
		}

		return constants.NotAvailable
	}

	parts := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		parts = append(parts, identifier.Type+":"+identifier.ID.String())
	}

	return strings.Join(parts, ", ")
}

func formatCell(value any) string {
	var text string

	switch v := value.(type) {
	case nil:
		return ""
	case string:
		text = v
	case json.Number:
		text = v.String()
	case float64, bool:
		text = fmt.Sprint(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			text = fmt.Sprint(v)
		} else {
			text = string(raw)
		}
	}

	if len(text) > maxCellWidth {
		text = text[:maxCellWidth-3] + "..."
	}

	return text
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

func toAny(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}

	return out
}
