package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/marambaia/drawdex/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drawdex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalYAML = `
sources:
  whitelist_url: https://example.com/whitelist.csv
  drawings_url: https://example.com/drawings.xlsx
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, DefaultBind, cfg.Server.Bind)
	assert.Equal(t, DefaultCacheTTL, cfg.Sources.CacheTTL.Std())
	assert.Equal(t, DefaultSessionTTL, cfg.Session.TTL.Std())
	assert.Equal(t, WhitelistFormatCSV, cfg.Sources.WhitelistFormat)
	assert.Equal(t, DefaultCookieName, cfg.Session.CookieName)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML+`
  whitelist_format: xlsx
  cache_ttl: 5m
session:
  ttl: 2h
server:
  bind: 0.0.0.0:9000
`))
	require.NoError(t, err)

	assert.Equal(t, WhitelistFormatXLSX, cfg.Sources.WhitelistFormat)
	assert.Equal(t, 5*time.Minute, cfg.Sources.CacheTTL.Std())
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL.Std())
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Bind)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DRAWDEX_BIND", "127.0.0.1:7070")
	t.Setenv("DRAWDEX_SESSION_TTL", "30m")

	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7070", cfg.Server.Bind)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL.Std())
}

func TestLoadMissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("DRAWDEX_WHITELIST_URL", "https://example.com/wl.csv")
	t.Setenv("DRAWDEX_DRAWINGS_URL", "https://example.com/dr.xlsx")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/wl.csv", cfg.Sources.WhitelistURL)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing whitelist url", func(c *Config) { c.Sources.WhitelistURL = "" }},
		{"missing drawings url", func(c *Config) { c.Sources.DrawingsURL = "" }},
		{"bad format", func(c *Config) { c.Sources.WhitelistFormat = "tsv" }},
		{"zero cache ttl", func(c *Config) { c.Sources.CacheTTL = 0 }},
		{"zero session ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"empty cookie", func(c *Config) { c.Session.CookieName = " " }},
		{"bad bind", func(c *Config) { c.Server.Bind = "no-port" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Sources.WhitelistURL = "https://example.com/wl.csv"
			cfg.Sources.DrawingsURL = "https://example.com/dr.xlsx"
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, derrors.IsCode(err, derrors.ErrCodeConfigInvalid), "got %v", err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "sources: [not a map"))
	require.Error(t, err)
	assert.True(t, derrors.IsCode(err, derrors.ErrCodeConfigParse), "got %v", err)
}
