package config

const (
	defaultWindowWidth    = 1200
	defaultWindowHeight   = 800
	defaultChromeTop      = 36
	defaultChromeLeft     = 160
	defaultFrameBorder    = 3
	defaultHistoryEntries = 500
	defaultListenAddr     = "127.0.0.1:9333"
	defaultModel          = "gpt-4o-mini"
	defaultTemperature    = 0.2
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{Width: defaultWindowWidth, Height: defaultWindowHeight},
		Chrome: ChromeConfig{
			Top:         defaultChromeTop,
			Left:        defaultChromeLeft,
			FrameBorder: defaultFrameBorder,
		},
		History: HistoryConfig{MaxEntries: defaultHistoryEntries},
		Engine:  EngineConfig{ExtraFlags: []string{}},
		Control: ControlConfig{ListenAddr: defaultListenAddr},
		Assistant: AssistantConfig{
			Model:       defaultModel,
			Temperature: defaultTemperature,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
