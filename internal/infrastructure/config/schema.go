// Package config loads, validates and watches the arkium configuration.
package config

import "github.com/bnema/arkium/internal/domain/entity"

// Config represents the complete configuration for arkium.
type Config struct {
	Window    WindowConfig    `mapstructure:"window" toml:"window"`
	Chrome    ChromeConfig    `mapstructure:"chrome" toml:"chrome"`
	History   HistoryConfig   `mapstructure:"history" toml:"history"`
	Engine    EngineConfig    `mapstructure:"engine" toml:"engine"`
	Control   ControlConfig   `mapstructure:"control" toml:"control"`
	Assistant AssistantConfig `mapstructure:"assistant" toml:"assistant"`
	Logging   LoggingConfig   `mapstructure:"logging" toml:"logging"`
}

// WindowConfig sizes the browser window.
type WindowConfig struct {
	Width  int `mapstructure:"width" toml:"width" jsonschema:"minimum=1,default=1200"`
	Height int `mapstructure:"height" toml:"height" jsonschema:"minimum=1,default=800"`
}

// ChromeConfig holds the initial chrome metrics and the frame border.
// The shell reports live metrics once it has laid itself out.
type ChromeConfig struct {
	Top    int `mapstructure:"top" toml:"top" jsonschema:"minimum=0,default=36"`
	Left   int `mapstructure:"left" toml:"left" jsonschema:"minimum=0,default=160"`
	Right  int `mapstructure:"right" toml:"right" jsonschema:"minimum=0,default=0"`
	Bottom int `mapstructure:"bottom" toml:"bottom" jsonschema:"minimum=0,default=0"`
	// FrameBorder insets the content area on every side.
	FrameBorder int `mapstructure:"frame_border" toml:"frame_border" jsonschema:"minimum=0,maximum=64,default=3"`
}

// Metrics returns the configured chrome metrics.
func (c ChromeConfig) Metrics() entity.ChromeMetrics {
	return entity.ChromeMetrics{Top: c.Top, Left: c.Left, Right: c.Right, Bottom: c.Bottom}
}

// HistoryConfig bounds the history log.
type HistoryConfig struct {
	MaxEntries int `mapstructure:"max_entries" toml:"max_entries" jsonschema:"minimum=1,maximum=500,default=500"`
}

// EngineConfig selects the browser engine process.
type EngineConfig struct {
	// ExecPath overrides Chrome/Chromium discovery.
	ExecPath string `mapstructure:"exec_path" toml:"exec_path"`
	// RemoteURL attaches to a running browser instead of launching one.
	RemoteURL  string   `mapstructure:"remote_url" toml:"remote_url"`
	Headless   bool     `mapstructure:"headless" toml:"headless"`
	ExtraFlags []string `mapstructure:"extra_flags" toml:"extra_flags"`
}

// ControlConfig configures the websocket control channel.
type ControlConfig struct {
	// ListenAddr is host:port. Empty disables the channel.
	ListenAddr string `mapstructure:"listen_addr" toml:"listen_addr" jsonschema:"default=127.0.0.1:9333"`
}

// AssistantConfig configures the chat completions client.
type AssistantConfig struct {
	Model       string  `mapstructure:"model" toml:"model" jsonschema:"default=gpt-4o-mini"`
	BaseURL     string  `mapstructure:"base_url" toml:"base_url"`
	Temperature float64 `mapstructure:"temperature" toml:"temperature" jsonschema:"minimum=0,maximum=2,default=0.2"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level         string `mapstructure:"level" toml:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format        string `mapstructure:"format" toml:"format" jsonschema:"enum=console,enum=json"`
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log"`
	// LogDir defaults to $XDG_STATE_HOME/arkium/logs.
	LogDir string `mapstructure:"log_dir" toml:"log_dir"`
}
