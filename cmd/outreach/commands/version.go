package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
)

// VersionInfo is the output of the version command.
type VersionInfo struct {
	Version    string `json:"version"     yaml:"version"`
	Commit     string `json:"commit"      yaml:"commit"`
	Built      string `json:"built"       yaml:"built"`
	SDKVersion string `json:"sdk_version" yaml:"sdk_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the Outreach CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			versionInfo := VersionInfo{
				Version:    version,
				Commit:     commit,
				Built:      date,
				SDKVersion: constants.Version,
			}

			switch viper.GetString("output") {
			case constants.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), versionInfo)
			case constants.FormatYAML:
				return renderYAML(cmd.OutOrStdout(), versionInfo)
			default:
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.Header("Property", "Value")
				_ = table.Append([]string{"Version", version})
				_ = table.Append([]string{"Commit", commit})
				_ = table.Append([]string{"Built", date})
				_ = table.Append([]string{"SDK", constants.Version})

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}
