package commands

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/auth"
	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

const stateBytes = 16

// NewAuthorizeCommand creates the authorize command.
func NewAuthorizeCommand() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		redirectURI  string
		scopes       []string
		outFile      string
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Authorize the CLI against an Outreach app",
		Long: `Run the OAuth2 authorization-code flow.

The authorization URL is printed to stderr. Open it, approve access, then
paste the full URL you were redirected to. The resulting credentials are
written as JSON to stdout or --out-file, and stored in the config file with
--save.`,
		Example: `  outreach authorize -s prospects.all -s accounts.read --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := &auth.OAuth2Config{
				TokenURL:     viper.GetString("token_url"),
				ClientID:     firstNonEmpty(clientID, viper.GetString("client_id")),
				ClientSecret: firstNonEmpty(clientSecret, viper.GetString("client_secret")),
				RedirectURI:  firstNonEmpty(redirectURI, viper.GetString("redirect_uri")),
				Scopes:       scopes,
			}

			err := validateAuthorizeConfig(config)
			if err != nil {
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())

			if config.ClientSecret == "" {
				config.ClientSecret, err = readSecret(cmd, reader)
				if err != nil {
					return err
				}
			}

			state, err := newState()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Open this URL to authorize access:\n\n  %s\n\nRedirected URL: ", config.AuthCodeURL(state))

			redirected, err := readLine(reader)
			if err != nil {
				return fmt.Errorf("reading redirected URL: %w", err)
			}

			code, err := auth.CodeFromRedirect(redirected, state)
			if err != nil {
				return err
			}

			token, err := config.Exchange(cmd.Context(), nil, code)
			if err != nil {
				return fmt.Errorf("exchanging authorization code: %w", err)
			}

			creds := credentialsFromToken(config, token)

			err = writeCredentials(cmd, creds, outFile)
			if err != nil {
				return err
			}

			if save {
				err = NewConfigPersister().SaveCredentials(creds)
				if err != nil {
					return fmt.Errorf("saving credentials: %w", err)
				}

				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Credentials saved to config")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "application client ID (or OUTREACH_APP_ID)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "application client secret (or OUTREACH_APP_SECRET, prompted if unset)")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "registered redirect URI (or OUTREACH_OAUTH_REDIRECT_URI)")
	cmd.Flags().StringArrayVarP(&scopes, "scope", "s", nil, "OAuth scope to request (repeatable)")
	cmd.Flags().StringVarP(&outFile, "out-file", "o", "", "write the credentials JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&save, "save", false, "store the credentials in the config file")

	return cmd
}

func validateAuthorizeConfig(config *auth.OAuth2Config) error {
	switch {
	case config.ClientID == "":
		return constants.ErrNoClientID
	case config.RedirectURI == "":
		return constants.ErrNoRedirectURI
	case len(config.Scopes) == 0:
		return constants.ErrNoScopes
	default:
		return nil
	}
}

func credentialsFromToken(config *auth.OAuth2Config, token *auth.Token) *outreach.Credentials {
	return outreach.NewCredentials(outreach.StoredCredentials{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURI:  config.RedirectURI,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt.Unix(),
	})
}

func writeCredentials(cmd *cobra.Command, creds *outreach.Credentials, outFile string) error {
	data, err := creds.ToJSON()
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	data = append(data, '\n')

	if outFile == "" {
		_, err = cmd.OutOrStdout().Write(data)

		return err
	}

	err = os.WriteFile(outFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Credentials written to %s\n", outFile)

	return nil
}

func readSecret(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Client secret: ")

	if term.IsTerminal(int(syscall.Stdin)) {
		secretBytes, err := term.ReadPassword(int(syscall.Stdin))

		_, _ = fmt.Fprintln(cmd.ErrOrStderr())

		if err != nil {
			return "", fmt.Errorf("failed to read client secret: %w", err)
		}

		return strings.TrimSpace(string(secretBytes)), nil
	}

	secret, err := readLine(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read client secret: %w", err)
	}

	return strings.TrimSpace(secret), nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	return line, nil
}

func newState() (string, error) {
	buf := make([]byte, stateBytes)

	_, err := rand.Read(buf)
	if err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}
