package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

// ConfigDirName is the directory under $HOME holding config.yml.
const ConfigDirName = ".outreach"

// Config represents the CLI configuration file.
type Config struct {
	Output      string `json:"output,omitempty"       yaml:"output,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty" yaml:"api_endpoint,omitempty"`
	TokenURL    string `json:"token_url,omitempty"    yaml:"token_url,omitempty"`

	outreach.StoredCredentials `yaml:",inline"`
}

// configSetters maps the keys accepted by 'config set'.
var configSetters = map[string]func(*Config, string){
	"output":        func(c *Config, v string) { c.Output = v },
	"api_endpoint":  func(c *Config, v string) { c.APIEndpoint = v },
	"token_url":     func(c *Config, v string) { c.TokenURL = v },
	"client_id":     func(c *Config, v string) { c.ClientID = v },
	"client_secret": func(c *Config, v string) { c.ClientSecret = v },
	"redirect_uri":  func(c *Config, v string) { c.RedirectURI = v },
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the CLI configuration and stored credentials",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskConfig(loadConfig())

			switch viper.GetString("output") {
			case constants.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), config)
			case constants.FormatYAML:
				return renderYAML(cmd.OutOrStdout(), config)
			default:
				return displayConfigTable(cmd.OutOrStdout(), config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Keys: output, api_endpoint, token_url, client_id, client_secret, redirect_uri`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget stored tokens",
		Long:  "Remove the stored access and refresh tokens, keeping the client registration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.AccessToken = ""
			config.RefreshToken = ""
			config.ExpiresAt = 0

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Tokens cleared")

			return nil
		},
	}
}

func setConfigValue(config *Config, key, value string) error {
	setter, ok := configSetters[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	setter(config, value)

	return nil
}

// loadConfig reads the configuration from viper, so flags and environment
// variables take precedence over the file.
func loadConfig() *Config {
	return &Config{
		Output:      viper.GetString("output"),
		APIEndpoint: viper.GetString("api_endpoint"),
		TokenURL:    viper.GetString("token_url"),
		StoredCredentials: outreach.StoredCredentials{
			ClientID:     viper.GetString("client_id"),
			ClientSecret: viper.GetString("client_secret"),
			RedirectURI:  viper.GetString("redirect_uri"),
			AccessToken:  viper.GetString("access_token"),
			RefreshToken: viper.GetString("refresh_token"),
			ExpiresAt:    viper.GetInt64("expires_at"),
		},
	}
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ConfigDirName, "config.yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = writeConfigFile(configFile, config)
	if err != nil {
		return err
	}

	syncViper(config)

	return nil
}

func writeConfigFile(configFile string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func syncViper(config *Config) {
	viper.Set("access_token", config.AccessToken)
	viper.Set("refresh_token", config.RefreshToken)
	viper.Set("expires_at", config.ExpiresAt)
}

func maskConfig(config *Config) *Config {
	masked := *config
	masked.ClientSecret = maskValue(masked.ClientSecret)
	masked.AccessToken = maskValue(masked.AccessToken)
	masked.RefreshToken = maskValue(masked.RefreshToken)

	return &masked
}

func maskValue(value string) string {
	if value == "" {
		return ""
	}

	return constants.MaskedSecret
}

func formatConfigValue(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func formatExpiry(expiresAt int64) string {
	if expiresAt == 0 {
		return constants.NotAvailable
	}

	return time.Unix(expiresAt, 0).Format(constants.TimeDisplayFormat)
}

func displayConfigTable(out io.Writer, config *Config) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	_ = table.Append([]string{"Output", formatConfigValue(config.Output)})
	_ = table.Append([]string{"API Endpoint", formatConfigValue(config.APIEndpoint)})
	_ = table.Append([]string{"Token URL", formatConfigValue(config.TokenURL)})
	_ = table.Append([]string{"Client ID", formatConfigValue(config.ClientID)})
	_ = table.Append([]string{"Client Secret", formatConfigValue(config.ClientSecret)})
	_ = table.Append([]string{"Redirect URI", formatConfigValue(config.RedirectURI)})
	_ = table.Append([]string{"Access Token", formatConfigValue(config.AccessToken)})
	_ = table.Append([]string{"Refresh Token", formatConfigValue(config.RefreshToken)})
	_ = table.Append([]string{"Expires At", formatExpiry(config.ExpiresAt)})
	_ = table.Append([]string{"Valid", strconv.FormatBool(outreach.NewCredentials(config.StoredCredentials).Valid())})

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func renderJSON(out io.Writer, data any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

func renderYAML(out io.Writer, data any) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(yamlIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}
