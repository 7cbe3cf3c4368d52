package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourcesConfig represents job source configuration from config file.
type SourcesConfig struct {
	Primary struct {
		URL         string `yaml:"url"`
		ResolveHost *bool  `yaml:"resolve_host"`
	} `yaml:"primary"`
	Secondary struct {
		URL            string `yaml:"url"`
		AnchorSelector string `yaml:"anchor_selector"`
	} `yaml:"secondary"`
	FetchTimeout string `yaml:"fetch_timeout"`
	Limit        int    `yaml:"limit"`
	UserAgent    string `yaml:"user_agent"`
}

// FilterConfig represents region filter configuration from config file.
type FilterConfig struct {
	AllowUnrestrictedRegion *bool    `yaml:"allow_unrestricted_region"`
	Terms                   []string `yaml:"terms"`
}

// FileConfig represents the structure of ~/.jobwizard/config.yaml.
type FileConfig struct {
	Server struct {
		Addr               string `yaml:"addr"`
		SessionIdleTimeout string `yaml:"session_idle_timeout"`
	} `yaml:"server"`
	Sources     SourcesConfig `yaml:"sources"`
	Filter      FilterConfig  `yaml:"filter"`
	Diagnostics struct {
		DSN string `yaml:"dsn"`
	} `yaml:"diagnostics"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Owner struct {
		Name string `yaml:"name"`
		URL  string `yaml:"url"`
	} `yaml:"owner"`
}

// ConfigFilePath returns the path of the config file under the user's home
// directory.
func ConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".jobwizard", "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.jobwizard/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
