package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupConfigEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("APPWISH_CONFIG_PATH", "")
	reset()
	return tmp
}

func TestLoadAndGet(t *testing.T) {
	setupConfigEnv(t)
	Load()

	require.Equal(t, "default", Get("missing", "default"))
	require.Equal(t, DefaultCatalogBaseURL, Get("catalog_base_url", ""))
	require.Equal(t, 3000, GetInt("catalog_min_interval_ms", 0))
	require.Equal(t, 30*time.Second, GetDuration("catalog_request_timeout", 0))
	require.Equal(t, time.Minute, GetDuration("catalog_resource_timeout", 0))
	require.Equal(t, "sqlite", Get("storage_backend", ""))
}

func TestDefaultsUseXDGDirectories(t *testing.T) {
	tmp := setupConfigEnv(t)
	Load()

	require.Equal(t, filepath.Join(tmp, "config", "appwish"), Get("config_dir", ""))
	require.Equal(t, filepath.Join(tmp, "state", "appwish"), Get("state_dir", ""))
	require.Equal(t, filepath.Join(tmp, "config", "appwish", "hooks"), Get("hooks_dir", ""))
}

func TestConfigLoadingPrecedence(t *testing.T) {
	tmp := setupConfigEnv(t)
	configFile := filepath.Join(tmp, "custom.toml")
	content := `
search_limit = 50
storage_backend = "memory"
hooks_failure_mode = "abort"
catalog_min_interval_ms = 0
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("APPWISH_CONFIG_PATH", configFile)
	t.Setenv("APPWISH_SEARCH_LIMIT", "10")

	Load()

	require.Equal(t, 10, GetInt("search_limit", 0), "environment should override config file")
	require.Equal(t, "memory", Get("storage_backend", ""))
	require.Equal(t, "abort", Get("hooks_failure_mode", ""))
	require.Equal(t, 0, GetInt("catalog_min_interval_ms", -1))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	setupConfigEnv(t)
	t.Setenv("APPWISH_STORAGE_BACKEND", "postgres")
	t.Setenv("APPWISH_SEARCH_LIMIT", "-3")
	t.Setenv("APPWISH_CATALOG_BASE_URL", "ftp://example.com")
	t.Setenv("APPWISH_CATALOG_REQUEST_TIMEOUT", "soon")
	t.Setenv("APPWISH_DEBUG", "maybe")

	Load()

	require.Equal(t, "sqlite", Get("storage_backend", ""))
	require.Equal(t, 25, GetInt("search_limit", 0))
	require.Equal(t, DefaultCatalogBaseURL, Get("catalog_base_url", ""))
	require.Equal(t, 30*time.Second, GetDuration("catalog_request_timeout", 0))
	require.False(t, GetBool("debug", true))
}

func TestBoolNormalization(t *testing.T) {
	setupConfigEnv(t)
	t.Setenv("APPWISH_HOOKS_ENABLED", "off")
	t.Setenv("APPWISH_LOGGING_ENABLED", "YES")

	Load()

	require.Equal(t, "false", Get("hooks_enabled", ""))
	require.True(t, GetBool("logging_enabled", false))
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	setupConfigEnv(t)
	t.Setenv("APPWISH_CATALOG_BASE_URL", "http://127.0.0.1:8080/")

	Load()

	require.Equal(t, "http://127.0.0.1:8080", Get("catalog_base_url", ""))
}

func TestSampleConfigCreated(t *testing.T) {
	tmp := setupConfigEnv(t)
	Load()

	data, err := os.ReadFile(filepath.Join(tmp, "config", "appwish", "config.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "# appwish configuration")
	require.Contains(t, string(data), "catalog_base_url")
	require.NotContains(t, string(data), "state_dir")
}

func TestRegisterValidatorPanicsOnDuplicate(t *testing.T) {
	require.Panics(t, func() {
		RegisterValidator("search_limit", PositiveIntValidator())
	})
}
