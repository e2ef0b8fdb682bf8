package commands

import (
	"sync"

	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

// ConfigPersister writes refreshed or newly authorized credentials back to
// the config file.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// SaveCredentials stores the token set of creds, and its client registration
// where set, in the config file.
func (p *ConfigPersister) SaveCredentials(creds *outreach.Credentials) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()
	mergeCredentials(config, creds.Snapshot())

	return saveConfigStruct(config)
}

// mergeCredentials copies the token set and any non-empty client fields.
func mergeCredentials(config *Config, stored outreach.StoredCredentials) {
	config.AccessToken = stored.AccessToken
	config.RefreshToken = stored.RefreshToken
	config.ExpiresAt = stored.ExpiresAt

	if stored.ClientID != "" {
		config.ClientID = stored.ClientID
	}

	if stored.ClientSecret != "" {
		config.ClientSecret = stored.ClientSecret
	}

	if stored.RedirectURI != "" {
		config.RedirectURI = stored.RedirectURI
	}
}
