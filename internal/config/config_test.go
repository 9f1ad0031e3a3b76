package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 10000, cfg.API.TimeoutMs)
	assert.Equal(t, 3, cfg.API.RetryAttempts)
	assert.Empty(t, cfg.API.Token)

	assert.Equal(t, 30, cfg.Board.RefreshIntervalSec)
	assert.Equal(t, 5, cfg.Board.ToastSeconds)
	assert.Equal(t, 10, cfg.Board.CacheTTLSec)

	assert.Equal(t, "info", cfg.Log.Level)
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10*time.Second, cfg.API.Timeout())
	assert.Equal(t, 30*time.Second, cfg.Board.RefreshInterval())
	assert.Equal(t, 5*time.Second, cfg.Board.ToastDuration())
	assert.Equal(t, 10*time.Second, cfg.Board.CacheTTL())
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `{
  "api": {
    "baseURL": "https://erp.example.com/api/",
    "tenant": "acme",
    "retryAttempts": 5
  },
  "board": {
    "toastSeconds": 8
  }
}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".wbsboard.json"), []byte(configContent), 0644))

	cfg, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://erp.example.com/api", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, "acme", cfg.API.Tenant)
	assert.Equal(t, 5, cfg.API.RetryAttempts)
	assert.Equal(t, 8, cfg.Board.ToastSeconds)

	// untouched fields keep defaults
	assert.Equal(t, 10000, cfg.API.TimeoutMs)
	assert.Equal(t, 30, cfg.Board.RefreshIntervalSec)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := "api:\n  baseURL: https://erp.example.com/api\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".wbsboard.yaml"), []byte(configContent), 0644))

	cfg, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://erp.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".wbsboard.json"), []byte(`{"api":{"baseURL":"https://file.example.com"}}`), 0644))

	t.Setenv("WBSBOARD_API_BASEURL", "https://env.example.com")
	t.Setenv("WBSBOARD_API_TOKEN", "secret")

	cfg, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".wbsboard.json"), []byte(`{not json`), 0644))

	_, err := LoadConfig(tmpDir)
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestSaveConfig_OmitsToken(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".wbsboard.json")

	cfg := DefaultConfig()
	cfg.API.Token = "secret"
	cfg.API.Tenant = "acme"
	require.NoError(t, SaveConfig(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Equal(t, "secret", cfg.API.Token, "caller's config is not modified")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", loaded.API.Tenant)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := MergeWithDefaults(&Config{
		API:   APIConfig{BaseURL: " https://x.example.com/ ", TimeoutMs: -1},
		Board: BoardConfig{CacheTTLSec: 0},
	})

	assert.Equal(t, "https://x.example.com", cfg.API.BaseURL)
	assert.Equal(t, 10000, cfg.API.TimeoutMs)
	assert.Equal(t, 3, cfg.API.RetryAttempts)
	assert.Equal(t, 0, cfg.Board.CacheTTLSec, "zero disables the cache")
	assert.Equal(t, "info", cfg.Log.Level)
}
