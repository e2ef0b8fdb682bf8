package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

// TokenStatus describes the stored token set without exposing it.
type TokenStatus struct {
	Valid     bool   `json:"valid"      yaml:"valid"`
	ExpiresAt string `json:"expires_at" yaml:"expires_at"`
	ExpiresIn string `json:"expires_in" yaml:"expires_in"`
}

// NewRefreshCommand creates the refresh command.
func NewRefreshCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the stored access token",
		Long: `Exchange the stored refresh token for a new access token and save it.

A still valid access token is kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := credentialsFromConfig(loadConfig())
			if err != nil {
				return err
			}

			if creds.Snapshot().RefreshToken == "" {
				return constants.ErrNoRefreshToken
			}

			if force || !creds.Valid() {
				err = creds.Refresh(cmd.Context())
				if err != nil {
					return fmt.Errorf("refreshing credentials: %w", err)
				}

				err = NewConfigPersister().SaveCredentials(creds)
				if err != nil {
					return fmt.Errorf("saving refreshed credentials: %w", err)
				}
			}

			return renderTokenStatus(cmd, tokenStatus(creds, time.Now()))
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "refresh even if the access token is still valid")

	return cmd
}

func tokenStatus(creds *outreach.Credentials, now time.Time) TokenStatus {
	stored := creds.Snapshot()

	status := TokenStatus{
		Valid:     creds.Valid(),
		ExpiresAt: formatExpiry(stored.ExpiresAt),
		ExpiresIn: constants.NotAvailable,
	}

	if stored.ExpiresAt > 0 {
		status.ExpiresIn = time.Unix(stored.ExpiresAt, 0).Sub(now).Round(time.Second).String()
	}

	return status
}

func renderTokenStatus(cmd *cobra.Command, status TokenStatus) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return renderJSON(cmd.OutOrStdout(), status)
	case constants.FormatYAML:
		return renderYAML(cmd.OutOrStdout(), status)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Property", "Value")
	_ = table.Append([]string{"Valid", strconv.FormatBool(status.Valid)})
	_ = table.Append([]string{"Expires At", status.ExpiresAt})
	_ = table.Append([]string{"Expires In", status.ExpiresIn})

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
