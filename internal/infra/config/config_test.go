package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 76, cfg.Matcher.Threshold)
	require.Equal(t, "Omlouvám se, ale na tuto otázku nemám odpověď.", cfg.Matcher.Fallback)
	require.Equal(t, BackendMemory, cfg.Storage.Backend)
	require.Contains(t, cfg.HTTP.AllowedOrigins, "https://dotazy.wz.cz")
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
matcher:
  threshold: 80
storage:
  backend: sqlite
  sqlite:
    path: /tmp/faq.db
`), 0o644))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("MATCH_THRESHOLD", "90")
	t.Setenv("STORAGE_BACKEND", "csv")
	t.Setenv("STORAGE_CSV_PATH", filepath.Join(dir, "log.csv"))

	cfg, err := Load()
	require.NoError(t, err)
	// env wins over file, file wins over defaults
	require.Equal(t, 90, cfg.Matcher.Threshold)
	require.Equal(t, BackendCSV, cfg.Storage.Backend)
	require.Equal(t, "/tmp/faq.db", cfg.Storage.SQLite.Path)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold above scale", func(c *Config) { c.Matcher.Threshold = 101 }},
		{"empty fallback", func(c *Config) { c.Matcher.Fallback = "  " }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "gopher" }},
		{"csv backend without path", func(c *Config) {
			c.Storage.Backend = BackendCSV
			c.Storage.CSV.Path = ""
		}},
		{"github backend without repo", func(c *Config) {
			c.Storage.Backend = BackendGithub
			c.Storage.Github.Owner = "dotazy"
		}},
		{"postgres backend without dsn", func(c *Config) { c.Storage.Backend = BackendPostgres }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
