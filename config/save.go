package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// defaultConfigPath is the default path for the config file
var defaultConfigPath = "config/config.json"

// GetConfigPath returns the path given on the command line, then CONFIG_PATH,
// then the default path when a file exists there. Empty means run on defaults.
func GetConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

// Redacted returns a copy of the config safe to write to disk or logs
func (c *Config) Redacted() *Config {
	out := *c
	if out.LINE.ChannelAccessToken != "" {
		out.LINE.ChannelAccessToken = "<redacted>"
	}
	if out.LINE.ChannelSecret != "" {
		out.LINE.ChannelSecret = "<redacted>"
	}
	if out.Sources.SerpAPIKey != "" {
		out.Sources.SerpAPIKey = "<redacted>"
	}
	return &out
}

// SaveConfig writes the configuration to path with secrets redacted
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config.Redacted(), "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
