package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// validateConfig collects every problem so the user can fix them in one go.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateWindow(config)...)
	validationErrors = append(validationErrors, validateChrome(config)...)
	validationErrors = append(validationErrors, validateHistory(config)...)
	validationErrors = append(validationErrors, validateEngine(config)...)
	validationErrors = append(validationErrors, validateControl(config)...)
	validationErrors = append(validationErrors, validateAssistant(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateWindow(config *Config) []string {
	var validationErrors []string
	if config.Window.Width < 1 {
		validationErrors = append(validationErrors, "window.width must be positive")
	}
	if config.Window.Height < 1 {
		validationErrors = append(validationErrors, "window.height must be positive")
	}
	return validationErrors
}

func validateChrome(config *Config) []string {
	var validationErrors []string
	edges := []struct {
		name  string
		value int
	}{
		{"chrome.top", config.Chrome.Top},
		{"chrome.left", config.Chrome.Left},
		{"chrome.right", config.Chrome.Right},
		{"chrome.bottom", config.Chrome.Bottom},
	}
	for _, e := range edges {
		if e.value < 0 {
			validationErrors = append(validationErrors, e.name+" must be non-negative")
		}
	}
	if config.Chrome.FrameBorder < 0 || config.Chrome.FrameBorder > 64 {
		validationErrors = append(validationErrors, "chrome.frame_border must be between 0 and 64")
	}
	return validationErrors
}

func validateHistory(config *Config) []string {
	if config.History.MaxEntries < 1 || config.History.MaxEntries > defaultHistoryEntries {
		return []string{fmt.Sprintf("history.max_entries must be between 1 and %d", defaultHistoryEntries)}
	}
	return nil
}

func validateEngine(config *Config) []string {
	if config.Engine.RemoteURL == "" {
		return nil
	}
	u, err := url.Parse(config.Engine.RemoteURL)
	if err != nil || u.Host == "" {
		return []string{"engine.remote_url must be an absolute URL"}
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
		return nil
	}
	return []string{"engine.remote_url must use ws, wss, http or https"}
}

func validateControl(config *Config) []string {
	if config.Control.ListenAddr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(config.Control.ListenAddr); err != nil {
		return []string{fmt.Sprintf("control.listen_addr must be host:port (%v)", err)}
	}
	return nil
}

func validateAssistant(config *Config) []string {
	var validationErrors []string
	if strings.TrimSpace(config.Assistant.Model) == "" {
		validationErrors = append(validationErrors, "assistant.model must not be empty")
	}
	if config.Assistant.Temperature < 0 || config.Assistant.Temperature > 2 {
		validationErrors = append(validationErrors, "assistant.temperature must be between 0 and 2")
	}
	if config.Assistant.BaseURL != "" {
		if u, err := url.Parse(config.Assistant.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			validationErrors = append(validationErrors, "assistant.base_url must be an absolute URL")
		}
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch strings.ToLower(config.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors, "logging.level must be one of trace, debug, info, warn, error")
	}
	switch strings.ToLower(config.Logging.Format) {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, "logging.format must be console or json")
	}
	return validationErrors
}
