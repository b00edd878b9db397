package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/arkium/internal/domain/entity"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, validateConfig(cfg))
	assert.Equal(t, entity.ChromeMetrics{Top: 36, Left: 160}, cfg.Chrome.Metrics())
	assert.Equal(t, 3, cfg.Chrome.FrameBorder)
	assert.Equal(t, 500, cfg.History.MaxEntries)
	assert.Equal(t, "gpt-4o-mini", cfg.Assistant.Model)
	assert.InDelta(t, 0.2, cfg.Assistant.Temperature, 1e-9)
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, 1200, mgr.viper.GetInt("window.width"))
	assert.Equal(t, "127.0.0.1:9333", mgr.viper.GetString("control.listen_addr"))
	assert.Equal(t, "info", mgr.viper.GetString("logging.level"))
}

func TestValidateConfig_Aggregates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Width = 0
	cfg.Chrome.Left = -1
	cfg.Chrome.FrameBorder = 100
	cfg.History.MaxEntries = 0
	cfg.Control.ListenAddr = "9333"
	cfg.Engine.RemoteURL = "ftp://host"
	cfg.Assistant.Temperature = 3
	cfg.Logging.Format = "xml"

	err := validateConfig(cfg)

	require.Error(t, err)
	for _, key := range []string{
		"window.width", "chrome.left", "chrome.frame_border", "history.max_entries",
		"control.listen_addr", "engine.remote_url", "assistant.temperature", "logging.format",
	} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestValidateConfig_HistoryCeiling(t *testing.T) {
	cfg := DefaultConfig()

	cfg.History.MaxEntries = 100
	require.NoError(t, validateConfig(cfg))

	cfg.History.MaxEntries = 501
	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history.max_entries must be between 1 and 500")
}

func TestValidateConfig_RemoteURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "empty", url: "", wantErr: false},
		{name: "websocket", url: "ws://127.0.0.1:9222/devtools/browser/abc", wantErr: false},
		{name: "http", url: "http://127.0.0.1:9222", wantErr: false},
		{name: "relative", url: "127.0.0.1:9222", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Engine.RemoteURL = tt.url

			err := validateConfig(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "engine.remote_url")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestManager_LoadCreatesDefaultFile(t *testing.T) {
	t.Setenv("ARKIUM_LOG_LEVEL", "")
	t.Setenv("OPENAI_MODEL", "")
	dir := t.TempDir()
	mgr, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, mgr.Load())

	assert.FileExists(t, filepath.Join(dir, configFileName))
	assert.FileExists(t, filepath.Join(dir, schemaFileName))
	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestManager_LoadReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(`
[chrome]
  frame_border = 5

[history]
  max_entries = 50
`), 0o644))
	t.Setenv("ARKIUM_LOG_LEVEL", "debug")
	t.Setenv("OPENAI_MODEL", "gpt-4.1-mini")

	mgr, err := NewManager(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, 5, cfg.Chrome.FrameBorder)
	assert.Equal(t, 36, cfg.Chrome.Top, "unset keys keep defaults")
	assert.Equal(t, 50, cfg.History.MaxEntries)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "gpt-4.1-mini", cfg.Assistant.Model)
}

func TestManager_LoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("[history]\nmax_entries = -1\n"), 0o644))

	mgr, err := NewManager(dir)
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history.max_entries")
}

func TestManager_ReloadNotifiesCallbacks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)
	mgr, err := NewManager(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	var seen []int
	mgr.OnConfigChange(func(c *Config) { seen = append(seen, c.Chrome.FrameBorder) })

	require.NoError(t, os.WriteFile(path, []byte("[chrome]\nframe_border = 7\n"), 0o644))
	require.NoError(t, mgr.Reload())

	require.NoError(t, os.WriteFile(path, []byte("[chrome]\nframe_border = 500\n"), 0o644))
	assert.Error(t, mgr.Reload())

	assert.Equal(t, []int{7}, seen)
	assert.Equal(t, 7, mgr.Get().Chrome.FrameBorder, "rejected edit keeps previous values")
}

func TestManager_GetWithoutLoad(t *testing.T) {
	mgr, err := NewManager(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestSchema_UsesFileKeys(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	assert.Contains(t, string(data), `"frame_border"`)
	assert.Contains(t, string(data), `"listen_addr"`)
	assert.NotContains(t, string(data), `"FrameBorder"`)
}

func TestWriteConfigOrdered_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	cfg := DefaultConfig()
	cfg.Window.Width = 1600

	require.NoError(t, WriteConfigOrdered(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# arkium configuration"))
	assert.Contains(t, string(data), "width = 1600")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file left behind")
}
