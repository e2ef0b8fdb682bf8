package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
	"github.com/ExecutiveSearchAI/outreach-sdk/internal/logger"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreachclient"
)

// credentialsFromConfig builds credentials from the stored configuration.
func credentialsFromConfig(config *Config) (*outreach.Credentials, error) {
	if config.AccessToken == "" && config.RefreshToken == "" {
		return nil, constants.ErrNoCredentialsConfigured
	}

	creds := outreach.NewCredentials(config.StoredCredentials)
	creds.TokenURL = config.TokenURL

	return creds, nil
}

// ensureValid refreshes creds when they are no longer valid and persists the
// new token set.
func ensureValid(ctx context.Context, creds *outreach.Credentials, persister *ConfigPersister) error {
	if creds.Valid() {
		return nil
	}

	if creds.Snapshot().RefreshToken == "" {
		return constants.ErrNoRefreshToken
	}

	err := creds.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refreshing credentials: %w", err)
	}

	err = persister.SaveCredentials(creds)
	if err != nil {
		return fmt.Errorf("saving refreshed credentials: %w", err)
	}

	return nil
}

// clientConfig builds the client configuration, wiring a debug logger when
// --verbose is set.
func clientConfig(config *Config) *outreach.Config {
	clientCfg := &outreach.Config{
		APIEndpoint: config.APIEndpoint,
	}

	if viper.GetBool("verbose") {
		clientCfg.Debug = true
		clientCfg.Logger = logger.NewAdapter(logger.New(zerolog.DebugLevel))
	}

	return clientCfg
}

// CreateClientWithTokenRefresh loads the stored credentials, refreshing them
// first when needed, and returns a client bound to them.
func CreateClientWithTokenRefresh(ctx context.Context) (outreach.Client, error) {
	config := loadConfig()

	creds, err := credentialsFromConfig(config)
	if err != nil {
		return nil, err
	}

	err = ensureValid(ctx, creds, NewConfigPersister())
	if err != nil {
		return nil, err
	}

	return outreachclient.New(clientConfig(config), creds)
}
