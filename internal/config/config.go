// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Lists    ListsConfig    `toml:"lists"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Auth     AuthConfig     `toml:"auth"`
	Embed    EmbedConfig    `toml:"embed"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	// Background maintenance interval for cache and session pruning.
	PruneInterval time.Duration `toml:"prune_interval"`
	// Events older than this are dropped from the event log.
	EventRetention time.Duration `toml:"event_retention"`
}

// DatabaseConfig selects the SQL backend. Path is used by sqlite, DSN by postgres.
type DatabaseConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
	DSN    string `toml:"dsn"`
}

// Source returns the driver-specific data source name.
func (d DatabaseConfig) Source() string {
	if d.Driver == "postgres" {
		return d.DSN
	}
	return d.Path
}

type ListsConfig struct {
	CacheTTL     time.Duration `toml:"cache_ttl"`
	HistoryLimit int           `toml:"history_limit"`
}

type CatalogConfig struct {
	APIKey   string        `toml:"api_key"`
	BaseURL  string        `toml:"base_url"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

type AuthConfig struct {
	SessionTTL time.Duration `toml:"session_ttl"`
	SessionDB  string        `toml:"session_db"`
	OIDC       *OIDCConfig   `toml:"oidc"`
}

type OIDCConfig struct {
	Issuer       string `toml:"issuer"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
}

type EmbedConfig struct {
	ProviderURL    string   `toml:"provider_url"`
	MovieTemplates []string `toml:"movie_templates"`
	TVTemplates    []string `toml:"tv_templates"`
}

// Load reads, substitutes, and validates the configuration file.
// Unresolved variables and validation failures are reported together as a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return nil, cerr
	}
	return cfg, nil
}

// LoadWithoutValidation parses the file and applies defaults but skips validation.
// Used by tooling that only needs a subset of the config, such as migrations.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.PruneInterval == 0 {
		c.Server.PruneInterval = 10 * time.Minute
	}
	if c.Server.EventRetention == 0 {
		c.Server.EventRetention = 7 * 24 * time.Hour
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "./data/streamverse.db"
	}
	if c.Lists.CacheTTL == 0 {
		c.Lists.CacheTTL = 2 * time.Minute
	}
	if c.Lists.HistoryLimit == 0 {
		c.Lists.HistoryLimit = 20
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = "https://api.themoviedb.org/3"
	}
	if c.Catalog.CacheTTL == 0 {
		c.Catalog.CacheTTL = time.Hour
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = 30 * 24 * time.Hour
	}
	if c.Auth.SessionDB == "" {
		c.Auth.SessionDB = "./data/sessions.db"
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars expands ${VAR}, ${VAR:-default} and ${VAR:?message}.
// Unresolvable references are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1]

		if name, def, ok := strings.Cut(expr, ":-"); ok {
			if v := os.Getenv(name); v != "" {
				return v
			}
			return def
		}

		if name, msg, ok := strings.Cut(expr, ":?"); ok {
			if v := os.Getenv(name); v != "" {
				return v
			}
			missing = append(missing, name+": "+msg)
			return match
		}

		if v, ok := os.LookupEnv(expr); ok {
			return v
		}
		missing = append(missing, expr)
		return match
	})
	return out, missing
}
