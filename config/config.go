// Package config assembles runtime configuration: server settings and
// per-provider credentials from the environment, with optional yaml
// overrides for model identifiers and endpoints.
package config

import (
	"fmt"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcm-analyzer/backend/providers"
)

// ProviderOverride adjusts one provider's model or endpoint without
// code changes.
type ProviderOverride struct {
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

type overridesFile struct {
	Providers map[string]ProviderOverride `yaml:"providers"`
}

// Config is the explicit dependency bundle handed to the server at
// construction time. Provider availability is a typed credentials
// lookup, not an implicit global check.
type Config struct {
	Port    string
	DataDir string
	DevMode bool

	credentials map[string]*providers.Credentials
	overrides   map[string]ProviderOverride
}

// Load reads configuration from the environment and, when
// overridesPath names an existing file, from yaml overrides.
func Load(overridesPath string) (*Config, error) {
	cfg := &Config{
		Port:        envOr("PORT", "8082"),
		DataDir:     envOr("DATA_DIR", "./data"),
		DevMode:     os.Getenv("DEV_MODE") == "true",
		credentials: make(map[string]*providers.Credentials),
		overrides:   make(map[string]ProviderOverride),
	}

	for _, pc := range providers.Registry() {
		if key := os.Getenv(pc.EnvKey); key != "" {
			cfg.credentials[pc.EnvKey] = &providers.Credentials{APIKey: key}
		}
	}

	if overridesPath != "" {
		data, err := os.ReadFile(overridesPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read provider overrides: %w", err)
			}
		} else {
			var parsed overridesFile
			if err := yaml.Unmarshal(data, &parsed); err != nil {
				return nil, fmt.Errorf("failed to parse provider overrides: %w", err)
			}
			cfg.overrides = parsed.Providers
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// CredentialsFor returns the credentials loaded for an env key, or nil
// when that provider is not configured.
func (c *Config) CredentialsFor(envKey string) *providers.Credentials {
	return c.credentials[envKey]
}

// Validation reports which provider keys are absent. A missing key is
// a warning, not a startup failure: the affected provider simply fails
// locally per request.
type Validation struct {
	IsValid  bool
	Missing  []string
	Warnings []string
}

// Validate checks every provider credential.
func (c *Config) Validate() Validation {
	v := Validation{IsValid: true}
	for _, pc := range providers.Registry() {
		if c.credentials[pc.EnvKey] == nil {
			v.IsValid = false
			v.Missing = append(v.Missing, pc.EnvKey)
			v.Warnings = append(v.Warnings, fmt.Sprintf("%s is not set - %s calls will fail with a model_error", pc.EnvKey, pc.Name))
		}
	}
	return v
}

// AvailableModels lists the display names of providers with
// credentials present.
func (c *Config) AvailableModels() []string {
	var available []string
	for _, pc := range providers.Registry() {
		if c.credentials[pc.EnvKey] != nil {
			available = append(available, pc.Name)
		}
	}
	return available
}

// BuildProviders constructs the nine adapters with overrides and
// credentials applied. Providers without credentials are still built;
// their calls fail locally so the failure is visible in the stream.
func (c *Config) BuildProviders(client *http.Client) []*providers.Provider {
	registry := providers.Registry()
	built := make([]*providers.Provider, 0, len(registry))
	for _, pc := range registry {
		if override, ok := c.overrides[pc.Name]; ok {
			if override.Model != "" {
				pc.Model = override.Model
			}
			if override.Endpoint != "" {
				pc.Endpoint = override.Endpoint
			}
		}
		built = append(built, providers.New(pc, c.credentials[pc.EnvKey], client))
	}
	return built
}
