package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv pins every variable applyEnv reads, so host values cannot
// leak into assertions. t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SIRI_BASE_URL", "SIRI_ACCOUNT_KEY", "PORT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

// chdir moves the test into dir and restores the previous working
// directory when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DefaultBaseURL, cfg.Provider.BaseURL)
	assert.Equal(t, DefaultAccountKey, cfg.Provider.AccountKey)
	assert.Equal(t, 20, cfg.Provider.TimeoutSeconds)
	assert.Equal(t, 0.5, cfg.Search.LineThreshold)
	assert.Equal(t, 0.3, cfg.Search.DestThreshold)
	assert.Equal(t, 0.3, cfg.Search.StopThreshold)
	assert.Equal(t, 5, cfg.Search.MaxLines)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, "PT90M", cfg.Departures.PreviewInterval)
	assert.Equal(t, 4, cfg.Departures.MaxVisits)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.InDelta(t, -0.81, cfg.Area.West, 1e-9)
	assert.InDelta(t, 44.70, cfg.Area.South, 1e-9)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_ExplicitMissingPathFails(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
search:
  lineThreshold: 0.6
logging:
  level: debug
  pretty: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 0.6, cfg.Search.LineThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)

	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultBaseURL, cfg.Provider.BaseURL)
	assert.Equal(t, 0.3, cfg.Search.DestThreshold)
	assert.Equal(t, "PT90M", cfg.Departures.PreviewInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
provider:
  accountKey: file-key
`), 0o644))

	t.Setenv("SIRI_ACCOUNT_KEY", "env-key")
	t.Setenv("SIRI_BASE_URL", "https://example.org/siri")
	t.Setenv("PORT", "7777")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Provider.AccountKey)
	assert.Equal(t, "https://example.org/siri", cfg.Provider.BaseURL)
	assert.Equal(t, 7777, cfg.Server.Port)
}

func TestLoad_UnparseablePortEnvIgnored(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "non-positive port",
			yaml: "server:\n  port: -1\n",
		},
		{
			name: "base url not a url",
			yaml: "provider:\n  baseURL: notaurl\n",
		},
		{
			name: "threshold above one",
			yaml: "search:\n  stopThreshold: 1.5\n",
		},
		{
			name: "zero max visits",
			yaml: "departures:\n  maxVisits: 0\n",
		},
		{
			name: "unknown log level",
			yaml: "logging:\n  level: verbose\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
