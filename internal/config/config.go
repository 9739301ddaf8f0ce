// ABOUTME: Configuration loading and parsing for the vault console
// ABOUTME: YAML with environment variable expansion and duration parsing

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete console configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig locates the vault service.
type ServerConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// SessionConfig holds credential persistence settings.
type SessionConfig struct {
	// CredentialPath is the file holding the raw bearer credential.
	CredentialPath string `yaml:"credential_path"`
}

// HistoryConfig holds the local operation journal settings.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists. Paths
// live under the user config directory; VAULT_URL overrides the
// service address.
func Default() *Config {
	base := os.Getenv("VAULT_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	root := filepath.Join(configDir, "vault-console")

	return &Config{
		Server: ServerConfig{
			BaseURL: base,
			Timeout: 30 * time.Second,
		},
		Session: SessionConfig{
			CredentialPath: filepath.Join(root, "credential"),
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(root, "history.db"),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads the configuration file at path, expanding ${VAR}
// references. A missing file returns Default(). Values absent from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Server.TimeoutRaw != "" {
		cfg.Server.Timeout, err = time.ParseDuration(cfg.Server.TimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing server.timeout %q: %w", cfg.Server.TimeoutRaw, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	if p := os.Getenv("VAULT_CONSOLE_CONFIG"); p != "" {
		return p
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(configDir, "vault-console", "config.yaml")
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to "".
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that required fields are present and well-formed.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	parsed, err := url.Parse(c.Server.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server.base_url %q must be an absolute URL", c.Server.BaseURL)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}
	if c.Session.CredentialPath == "" {
		return fmt.Errorf("session.credential_path is required")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}
