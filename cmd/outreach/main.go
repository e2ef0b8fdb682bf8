package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ExecutiveSearchAI/outreach-sdk/cmd/outreach/commands"
	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Outreach API CLI",
	Long: `A command-line interface for the Outreach REST API.

Authorize once with 'outreach authorize --save', then list, read, create,
update and delete any resource type with 'outreach resources'. Expired
access tokens are refreshed from the stored refresh token automatically.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.outreach/config.yml)")
	rootCmd.PersistentFlags().StringP("api", "a", "", "API endpoint URL")
	rootCmd.PersistentFlags().String("output", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log HTTP requests and responses to stderr")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("api_endpoint", rootCmd.PersistentFlags().Lookup("api"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// The application variables used by the Outreach tooling take effect when
	// the prefixed ones are unset.
	_ = viper.BindEnv("client_id", "OUTREACH_CLIENT_ID", constants.EnvClientID)
	_ = viper.BindEnv("client_secret", "OUTREACH_CLIENT_SECRET", constants.EnvSecret)
	_ = viper.BindEnv("redirect_uri", "OUTREACH_REDIRECT_URI", constants.EnvRedirectURI)

	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewAuthorizeCommand())
	rootCmd.AddCommand(commands.NewRefreshCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewResourcesCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, commands.ConfigDirName)
		if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("OUTREACH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
