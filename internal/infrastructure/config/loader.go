package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ARKIUM_WINDOW_WIDTH.
const EnvPrefix = "ARKIUM"

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	dir       string
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a configuration manager reading config.toml from dir.
// An empty dir selects the XDG config directory.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		var err error
		if dir, err = GetConfigDir(); err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
		}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit bindings for names that do not follow the key layout.
	bindings := map[string][]string{
		"logging.level":   {"ARKIUM_LOG_LEVEL", "ARKIUM_LOGGING_LEVEL"},
		"logging.format":  {"ARKIUM_LOG_FORMAT", "ARKIUM_LOGGING_FORMAT"},
		"assistant.model": {"ARKIUM_ASSISTANT_MODEL", "OPENAI_MODEL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	return &Manager{
		viper: v,
		dir:   dir,
	}, nil
}

// Load reads the configuration file, creating it with defaults when
// missing, then applies environment overrides and validates the result.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

// decode turns what viper holds into a normalized, validated Config.
func (m *Manager) decode() (*Config, error) {
	config, err := m.unmarshalConfig()
	if err != nil {
		return nil, err
	}
	normalizeConfig(config)
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile = m.ConfigFile()
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if err := m.createDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create default config at %s: %w\nTry creating the directory manually or check permissions", m.dir, err)
	}
	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read newly created config file: %w", err)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	return config, nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	config.Engine.ExecPath = strings.TrimSpace(config.Engine.ExecPath)
	config.Engine.RemoteURL = strings.TrimSpace(config.Engine.RemoteURL)
	config.Control.ListenAddr = strings.TrimSpace(config.Control.ListenAddr)
	config.Assistant.BaseURL = strings.TrimRight(strings.TrimSpace(config.Assistant.BaseURL), "/")
	if config.Engine.ExtraFlags == nil {
		config.Engine.ExtraFlags = []string{}
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	configCopy.Engine.ExtraFlags = slices.Clone(m.config.Engine.ExtraFlags)
	return &configCopy
}

// ConfigFile returns the path of the configuration file.
func (m *Manager) ConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(m.dir, configFileName)
}

// createDefaultConfig writes the defaults and the JSON schema next to them.
func (m *Manager) createDefaultConfig() error {
	if err := os.MkdirAll(m.dir, dirPerm); err != nil {
		return err
	}
	if err := WriteConfigOrdered(DefaultConfig(), filepath.Join(m.dir, configFileName)); err != nil {
		return err
	}
	return WriteSchemaFile(filepath.Join(m.dir, schemaFileName))
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("window.width", defaults.Window.Width)
	m.viper.SetDefault("window.height", defaults.Window.Height)

	m.viper.SetDefault("chrome.top", defaults.Chrome.Top)
	m.viper.SetDefault("chrome.left", defaults.Chrome.Left)
	m.viper.SetDefault("chrome.right", defaults.Chrome.Right)
	m.viper.SetDefault("chrome.bottom", defaults.Chrome.Bottom)
	m.viper.SetDefault("chrome.frame_border", defaults.Chrome.FrameBorder)

	m.viper.SetDefault("history.max_entries", defaults.History.MaxEntries)

	m.viper.SetDefault("engine.exec_path", defaults.Engine.ExecPath)
	m.viper.SetDefault("engine.remote_url", defaults.Engine.RemoteURL)
	m.viper.SetDefault("engine.headless", defaults.Engine.Headless)
	m.viper.SetDefault("engine.extra_flags", defaults.Engine.ExtraFlags)

	m.viper.SetDefault("control.listen_addr", defaults.Control.ListenAddr)

	m.viper.SetDefault("assistant.model", defaults.Assistant.Model)
	m.viper.SetDefault("assistant.base_url", defaults.Assistant.BaseURL)
	m.viper.SetDefault("assistant.temperature", defaults.Assistant.Temperature)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
}
