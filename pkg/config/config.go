// Package config loads and validates the drawdex service configuration.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	derrors "github.com/marambaia/drawdex/pkg/errors"
)

// Whitelist source formats.
const (
	WhitelistFormatCSV  = "csv"
	WhitelistFormatXLSX = "xlsx"
)

// Default configuration values exported for documentation and validation
const (
	DefaultBind            = "127.0.0.1:8084"
	DefaultCacheTTL        = 10 * time.Minute
	DefaultSessionTTL      = 8 * time.Hour
	DefaultFetchTimeout    = 30 * time.Second
	DefaultCookieName      = "drawdex_session"
	DefaultWhitelistFormat = WhitelistFormatCSV
	DefaultDBPath          = "data/drawdex.db"
	DefaultLogDir          = "logs"
	DefaultLogLevel        = "info"
)

// Duration wraps time.Duration so YAML files can use human-readable values
// like "10m" or "8h" as well as plain nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var ns int64
	if err := value.Decode(&ns); err == nil {
		*d = Duration(ns)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the complete drawdex configuration
type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	Session SessionConfig `yaml:"session"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourcesConfig points at the two spreadsheet snapshots and controls their
// refresh cadence.
type SourcesConfig struct {
	WhitelistURL    string   `yaml:"whitelist_url"`
	WhitelistFormat string   `yaml:"whitelist_format"` // csv or xlsx
	DrawingsURL     string   `yaml:"drawings_url"`
	FetchTimeout    Duration `yaml:"fetch_timeout"`
	CacheTTL        Duration `yaml:"cache_ttl"`
}

// SessionConfig controls login session issuance.
type SessionConfig struct {
	TTL        Duration `yaml:"ttl"`
	CookieName string   `yaml:"cookie_name"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Bind           string   `yaml:"bind"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	PublicMetrics  bool     `yaml:"public_metrics"`
}

// StorageConfig controls session persistence.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LoggingConfig controls the JSONL event logs.
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			WhitelistFormat: DefaultWhitelistFormat,
			FetchTimeout:    Duration(DefaultFetchTimeout),
			CacheTTL:        Duration(DefaultCacheTTL),
		},
		Session: SessionConfig{
			TTL:        Duration(DefaultSessionTTL),
			CookieName: DefaultCookieName,
		},
		Server: ServerConfig{
			Bind:           DefaultBind,
			AllowedOrigins: []string{"http://localhost", "http://127.0.0.1"},
		},
		Storage: StorageConfig{DBPath: DefaultDBPath},
		Logging: LoggingConfig{Dir: DefaultLogDir, Level: DefaultLogLevel},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty or missing), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadAndMerge(cfg, path); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAndMerge loads a YAML file and merges it into the config. A missing
// file comes back as the raw os error so Load can treat it as optional.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return derrors.Wrap(err, derrors.ErrCodeConfigLoad, "reading config file").WithContext("path", path)
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return derrors.Wrap(err, derrors.ErrCodeConfigParse, "parsing YAML").WithContext("path", path)
	}

	mergeConfigs(cfg, &override)
	return nil
}

// mergeConfigs merges override into base, field by field; zero values in
// the override leave the base untouched.
func mergeConfigs(base, override *Config) {
	if override == nil {
		return
	}

	if override.Sources.WhitelistURL != "" {
		base.Sources.WhitelistURL = override.Sources.WhitelistURL
	}
	if override.Sources.WhitelistFormat != "" {
		base.Sources.WhitelistFormat = override.Sources.WhitelistFormat
	}
	if override.Sources.DrawingsURL != "" {
		base.Sources.DrawingsURL = override.Sources.DrawingsURL
	}
	if override.Sources.FetchTimeout != 0 {
		base.Sources.FetchTimeout = override.Sources.FetchTimeout
	}
	if override.Sources.CacheTTL != 0 {
		base.Sources.CacheTTL = override.Sources.CacheTTL
	}

	if override.Session.TTL != 0 {
		base.Session.TTL = override.Session.TTL
	}
	if override.Session.CookieName != "" {
		base.Session.CookieName = override.Session.CookieName
	}

	if override.Server.Bind != "" {
		base.Server.Bind = override.Server.Bind
	}
	if len(override.Server.AllowedOrigins) > 0 {
		base.Server.AllowedOrigins = append([]string{}, override.Server.AllowedOrigins...)
	}
	if override.Server.PublicMetrics {
		base.Server.PublicMetrics = true
	}

	if override.Storage.DBPath != "" {
		base.Storage.DBPath = override.Storage.DBPath
	}

	if override.Logging.Dir != "" {
		base.Logging.Dir = override.Logging.Dir
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
}

// applyEnvOverrides applies DRAWDEX_* environment variables on top of the
// merged configuration.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("DRAWDEX_WHITELIST_URL")); v != "" {
		cfg.Sources.WhitelistURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DRAWDEX_WHITELIST_FORMAT")); v != "" {
		cfg.Sources.WhitelistFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("DRAWDEX_DRAWINGS_URL")); v != "" {
		cfg.Sources.DrawingsURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DRAWDEX_BIND")); v != "" {
		cfg.Server.Bind = v
	}
	if v := strings.TrimSpace(os.Getenv("DRAWDEX_DB_PATH")); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("DRAWDEX_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("DRAWDEX_SESSION_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = Duration(d)
		}
	}
	if v := strings.TrimSpace(os.Getenv("DRAWDEX_CACHE_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sources.CacheTTL = Duration(d)
		}
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Sources.WhitelistURL) == "" {
		return derrors.New(derrors.ErrCodeConfigInvalid, "sources.whitelist_url is required")
	}
	if strings.TrimSpace(c.Sources.DrawingsURL) == "" {
		return derrors.New(derrors.ErrCodeConfigInvalid, "sources.drawings_url is required")
	}
	switch c.Sources.WhitelistFormat {
	case WhitelistFormatCSV, WhitelistFormatXLSX:
	default:
		return derrors.New(derrors.ErrCodeConfigInvalid,
			fmt.Sprintf("sources.whitelist_format must be %q or %q", WhitelistFormatCSV, WhitelistFormatXLSX)).
			WithContext("value", c.Sources.WhitelistFormat)
	}
	if c.Sources.CacheTTL <= 0 {
		return derrors.New(derrors.ErrCodeConfigInvalid, "sources.cache_ttl must be positive")
	}
	if c.Sources.FetchTimeout <= 0 {
		return derrors.New(derrors.ErrCodeConfigInvalid, "sources.fetch_timeout must be positive")
	}
	if c.Session.TTL <= 0 {
		return derrors.New(derrors.ErrCodeConfigInvalid, "session.ttl must be positive")
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		return derrors.New(derrors.ErrCodeConfigInvalid, "session.cookie_name is required")
	}
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return derrors.Wrap(err, derrors.ErrCodeConfigInvalid, "server.bind must be host:port").
			WithContext("bind", c.Server.Bind)
	}
	return nil
}
