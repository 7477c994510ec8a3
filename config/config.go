// Package config loads resumerag settings from a TOML file, RESUMERAG_*
// environment variables and command line flags, in increasing priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. RESUMERAG_LISTEN.
const EnvPrefix = "RESUMERAG"

// Supported embedding providers.
const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
	ProviderOllama = "ollama"
	ProviderStatic = "static"
)

// Config is the full service and CLI configuration.
type Config struct {
	// Listen is the address the HTTP service binds.
	Listen string `mapstructure:"listen"`

	// BackendURL is where the CLI front end sends requests.
	BackendURL string `mapstructure:"backend_url"`

	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`

	// Concurrency bounds parallel extraction and embedding within a batch.
	Concurrency int `mapstructure:"concurrency"`

	// RateLimit caps provider calls per minute. 0 disables limiting.
	RateLimit int `mapstructure:"rate_limit"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTopK    int           `mapstructure:"default_top_k"`

	// CredentialsFile overrides the standard credentials.toml search.
	CredentialsFile string `mapstructure:"credentials_file"`

	// Path of the config file actually read, empty when none was found.
	Path string `mapstructure:"-"`
}

var defaults = map[string]interface{}{
	"listen":           ":8000",
	"backend_url":      "http://localhost:8000",
	"provider":         ProviderOpenAI,
	"model":            "",
	"base_url":         "",
	"concurrency":      4,
	"rate_limit":       0,
	"request_timeout":  "60s",
	"max_upload_bytes": int64(32 << 20),
	"log_level":        "info",
	"default_top_k":    3,
	"credentials_file": "",
}

// Keys lists every recognised configuration key.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	return keys
}

// New returns a viper instance with defaults and environment binding set up.
// Callers bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path, or resumerag.toml from the working directory or
// ~/.config/resumerag when path is empty, and returns the validated config.
// A missing default config file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("resumerag")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "resumerag"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Path = v.ConfigFileUsed()
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGoogle, ProviderOllama, ProviderStatic:
	default:
		return fmt.Errorf("invalid configuration: unknown provider %q", c.Provider)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid configuration: concurrency must be at least 1")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid configuration: rate_limit must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid configuration: request_timeout must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid configuration: max_upload_bytes must be positive")
	}
	if c.DefaultTopK < 1 {
		return fmt.Errorf("invalid configuration: default_top_k must be at least 1")
	}
	return nil
}
