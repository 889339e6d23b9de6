package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `json:"server"`
	LINE    LINEConfig    `json:"line"`
	Sources SourcesConfig `json:"sources"`
	Log     LogConfig     `json:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                int `json:"port"`
	ReadTimeoutSeconds  int `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
}

// LINEConfig holds the messaging channel credentials
type LINEConfig struct {
	ChannelAccessToken string `json:"channel_access_token"`
	ChannelSecret      string `json:"channel_secret"`
	// APIEndpoint overrides the Messaging API base URL, mostly for testing
	APIEndpoint         string `json:"api_endpoint,omitempty"`
	ReplyTimeoutSeconds int    `json:"reply_timeout_seconds"`
}

// SourcesConfig holds configuration for the upstream content sources
type SourcesConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds"`
	BingUserAgent  string `json:"bing_user_agent,omitempty"`
	SerpAPIKey     string `json:"serpapi_key,omitempty"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // "json" or "text"
}

// Timeout returns the per-call source timeout
func (c SourcesConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReplyTimeout returns the per-call delivery timeout
func (c LINEConfig) ReplyTimeout() time.Duration {
	return time.Duration(c.ReplyTimeoutSeconds) * time.Second
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                8000,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 60,
		},
		LINE: LINEConfig{
			ReplyTimeoutSeconds: 10,
		},
		Sources: SourcesConfig{
			TimeoutSeconds: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from a JSON file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return config, nil
}

// Load builds the effective configuration: .env file if present, then the JSON
// file at path (skipped when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"); v != "" {
		c.LINE.ChannelAccessToken = v
	}
	if v := os.Getenv("LINE_CHANNEL_SECRET"); v != "" {
		c.LINE.ChannelSecret = v
	}
	if v := os.Getenv("LINE_API_ENDPOINT"); v != "" {
		c.LINE.APIEndpoint = v
	}
	if v := os.Getenv("SERPAPI_KEY"); v != "" {
		c.Sources.SerpAPIKey = v
	}
	if v := os.Getenv("BING_USER_AGENT"); v != "" {
		c.Sources.BingUserAgent = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	var err error
	if c.Server.Port, err = envInt("PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Sources.TimeoutSeconds, err = envInt("SOURCE_TIMEOUT_SECONDS", c.Sources.TimeoutSeconds); err != nil {
		return err
	}
	return nil
}

func envInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

// Validate reports configuration the process cannot start without
func (c *Config) Validate() error {
	var missing []string
	if c.LINE.ChannelAccessToken == "" {
		missing = append(missing, "LINE_CHANNEL_ACCESS_TOKEN")
	}
	if c.LINE.ChannelSecret == "" {
		missing = append(missing, "LINE_CHANNEL_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
