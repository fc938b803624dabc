package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("API_BASE_URL", "http://localhost:9090")
	t.Setenv("HRIS_EMAIL", "jordan@example.com")
	t.Setenv("HRIS_PASSWORD", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9090", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, time.Second, cfg.App.TickInterval)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_TIMEOUT", "30s")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.App.TickInterval)
	assert.Equal(t, "production", cfg.App.Env)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TICK_INTERVAL", "fast")

	_, err := Load()
	require.Error(t, err)
}

func TestValidateMissingCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HRIS_PASSWORD", "")

	// godotenv may backfill from a .env in the working directory; none exists
	// in the test tree, so the empty value sticks.
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HRIS_PASSWORD")
}

func TestLoadKeymapDefaults(t *testing.T) {
	keymap, err := LoadKeymap("")
	require.NoError(t, err)
	assert.Equal(t, []string{"i"}, keymap.CheckIn)
	assert.Equal(t, []string{"q", "ctrl+c"}, keymap.Quit)
}

func TestLoadKeymapMissingFileFallsBack(t *testing.T) {
	keymap, err := LoadKeymap(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultKeymap(), keymap)
}

func TestLoadKeymapPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.toml")
	data := "check_in = [\"c\"]\nquit = [\"x\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	keymap, err := LoadKeymap(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"c"}, keymap.CheckIn)
	assert.Equal(t, []string{"x"}, keymap.Quit)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, []string{"o"}, keymap.CheckOut)
	assert.Equal(t, []string{"tab"}, keymap.NextField)
}

func TestLoadKeymapMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.toml")
	require.NoError(t, os.WriteFile(path, []byte("check_in = ["), 0o644))

	_, err := LoadKeymap(path)
	require.Error(t, err)
}
