// Package config loads service settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAuthBase is the FreshBooks authorization server.
	DefaultAuthBase = "https://auth.freshbooks.com"
	// DefaultAPIBase is the FreshBooks REST API.
	DefaultAPIBase = "https://api.freshbooks.com"
)

// Config holds everything the service needs at startup.
type Config struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	DBPath       string `yaml:"db_path"`
	AuthBaseURL  string `yaml:"auth_base_url"`
	APIBaseURL   string `yaml:"api_base_url"`
}

// Load reads the config file at path (if it exists) and applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Host:        "127.0.0.1",
		Port:        "8090",
		DBPath:      "bridge.db",
		AuthBaseURL: DefaultAuthBase,
		APIBaseURL:  DefaultAPIBase,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = DefaultAuthBase
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBase
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"FRESHBOOKS_CLIENT_ID":     &cfg.ClientID,
		"FRESHBOOKS_CLIENT_SECRET": &cfg.ClientSecret,
		"FRESHBOOKS_AUTH_BASE":     &cfg.AuthBaseURL,
		"FRESHBOOKS_API_BASE":      &cfg.APIBaseURL,
		"HOST":                     &cfg.Host,
		"PORT":                     &cfg.Port,
		"BRIDGE_DB_PATH":           &cfg.DBPath,
	}
	for name, target := range overrides {
		if v := os.Getenv(name); v != "" {
			*target = v
		}
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
