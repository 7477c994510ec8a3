// Package credentials loads embedding provider API keys.
//
// Keys live in a credentials.toml file with one section per provider and an
// optional [embedding] section used when no provider section matches:
//
//	[openai]
//	api_key = "sk-..."
//
//	[google]
//	api_key = "AIza..."
//
// The file must be mode 0400. When no file provides a key the provider's
// conventional environment variable is used.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInsecurePermissions is returned when the credentials file is readable
// by anyone but its owner.
var ErrInsecurePermissions = fmt.Errorf("credentials file has insecure permissions")

// fallbackSection applies to any provider without its own section.
const fallbackSection = "embedding"

// Credentials holds the keys found in one file.
type Credentials struct {
	keys map[string]string
}

// StandardPaths returns the credential file locations in priority order.
func StandardPaths() []string {
	paths := []string{"credentials.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "resumerag", "credentials.toml"),
			filepath.Join(home, ".resumerag", "credentials.toml"),
		)
	}
	return paths
}

// Load reads the first credentials file that exists. A missing file is not
// an error: the result is nil and lookups fall back to the environment.
func Load() (*Credentials, string, error) {
	for _, path := range StandardPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		creds, err := LoadFile(path)
		return creds, path, err
	}
	return nil, "", nil
}

// LoadFile reads one credentials file.
func LoadFile(path string) (*Credentials, error) {
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if mode := info.Mode().Perm(); mode != 0400 {
			return nil, fmt.Errorf("%w: %s has mode %04o (must be 0400)",
				ErrInsecurePermissions, path, mode)
		}
	}

	var sections map[string]struct {
		APIKey string `toml:"api_key"`
	}
	if _, err := toml.DecodeFile(path, &sections); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	creds := &Credentials{keys: make(map[string]string)}
	for name, section := range sections {
		if section.APIKey != "" {
			creds.keys[normalize(name)] = section.APIKey
		}
	}
	return creds, nil
}

// APIKey returns the key for provider. Priority: the provider's section,
// then [embedding], then the provider's environment variable.
func (c *Credentials) APIKey(provider string) string {
	if c != nil {
		if key, ok := c.keys[normalize(provider)]; ok {
			return key
		}
		if key, ok := c.keys[fallbackSection]; ok {
			return key
		}
	}
	return os.Getenv(EnvVar(provider))
}

// EnvVar returns the environment variable consulted for provider.
func EnvVar(provider string) string {
	switch normalize(provider) {
	case "openai":
		return "OPENAI_API_KEY"
	case "google", "gemini":
		return "GOOGLE_API_KEY"
	default:
		return strings.ToUpper(strings.ReplaceAll(provider, "-", "_")) + "_API_KEY"
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", ""))
}
