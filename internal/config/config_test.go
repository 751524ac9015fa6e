package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromDir(t *testing.T, dir string) *Config {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromDir(t, t.TempDir())

	assert.Equal(t, "https://api.apify.com", cfg.Apify.BaseURL)
	assert.Equal(t, "clockworks~tiktok-scraper", cfg.Apify.SearchActor)
	assert.Equal(t, "clockworks~tiktok-profile-scraper", cfg.Apify.ProfileActor)
	assert.Equal(t, 5, cfg.Apify.PollIntervalSecs)
	assert.Equal(t, 300, cfg.Apify.WaitTimeoutSecs)
	assert.Equal(t, 50, cfg.Search.ResultsPerHashtag)
	assert.Equal(t, 20, cfg.Search.MaxProfilesPerTopic)
	assert.True(t, cfg.Filter.RequireEmail)
	assert.Equal(t, "csv", cfg.Export.Format)
	assert.Equal(t, "./output", cfg.Export.OutputDir)
	assert.Equal(t, "harvest.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Apify.Token)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
apify:
  token: file-token
search:
  results_per_hashtag: 10
filter:
  require_email: false
export:
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg := loadFromDir(t, dir)

	assert.Equal(t, "file-token", cfg.Apify.Token)
	assert.Equal(t, 10, cfg.Search.ResultsPerHashtag)
	assert.False(t, cfg.Filter.RequireEmail)
	assert.Equal(t, "json", cfg.Export.Format)
	// Untouched keys keep their defaults.
	assert.Equal(t, 20, cfg.Search.MaxProfilesPerTopic)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HARVEST_APIFY_TOKEN", "env-token")
	t.Setenv("HARVEST_EXPORT_OUTPUT_DIR", "/tmp/harvest-out")

	cfg := loadFromDir(t, t.TempDir())

	assert.Equal(t, "env-token", cfg.Apify.Token)
	assert.Equal(t, "/tmp/harvest-out", cfg.Export.OutputDir)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
