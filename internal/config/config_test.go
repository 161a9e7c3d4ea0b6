package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cs := &configService{filePath: filepath.Join(t.TempDir(), "config.toml"), getenv: envFrom(nil)}

	cfg, err := cs.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "kerberos_id", cfg.API.MembersParam)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Query.NotificationTimeout)
	assert.Equal(t, "closedPatchs", cfg.Query.Category)
	assert.Equal(t, 1, cfg.Query.DefaultStatsType)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
version = 1

[api]
base_url = "https://robin.example.com"
timeout = "30s"

[query]
notification_timeout = "1500ms"
default_stats_type = 2

[log]
level = "debug"
`), 0o644))

	cs := &configService{filePath: path, getenv: envFrom(map[string]string{
		"ROBIN_MEMBERS_PARAM": "kerbroes_id",
		"ROBIN_LOG_LEVEL":     "WARN",
	})}

	cfg, err := cs.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://robin.example.com", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/api/teams/", cfg.API.TeamsPath, "unset keys keep defaults")
	assert.Equal(t, 1500*time.Millisecond, cfg.Query.NotificationTimeout)
	assert.Equal(t, 2, cfg.Query.DefaultStatsType)
	assert.Equal(t, "kerbroes_id", cfg.API.MembersParam)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"bad duration": "[api]\ntimeout = \"soon\"\n",
		"bad scheme":   "[api]\nbase_url = \"ftp://host\"\n",
		"bad type":     "[query]\ndefault_stats_type = 5\n",
		"bad level":    "[log]\nlevel = \"loud\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			_, err := (&configService{filePath: path, getenv: envFrom(nil)}).Load()
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cs := NewConfigServiceAt(path)

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://stats.internal"
	cfg.Metrics.Textfile = "/tmp/robin.prom"
	require.NoError(t, cs.Save(cfg))

	loaded, err := cs.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://stats.internal", loaded.API.BaseURL)
	assert.Equal(t, "/tmp/robin.prom", loaded.Metrics.Textfile)
	assert.Equal(t, cfg.API.Timeout, loaded.API.Timeout)
}
