// Package config loads and watches the shell's configuration: chrome
// strip metrics, animation budgets, display density, the default
// layout, and logging/session settings.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the full shell configuration tree.
type Config struct {
	Chrome  ChromeConfig  `mapstructure:"chrome" json:"chrome"`
	Display DisplayConfig `mapstructure:"display" json:"display"`
	Shell   ShellConfig   `mapstructure:"shell" json:"shell"`
	Logging LoggingConfig `mapstructure:"logging" json:"logging"`
	Session SessionConfig `mapstructure:"session" json:"session"`
}

// ChromeConfig sizes the persistent chrome strip and its animations.
type ChromeConfig struct {
	HeightPx               float64 `mapstructure:"height_px" json:"height_px"`
	MinShowDurationMs      int     `mapstructure:"min_show_duration_ms" json:"min_show_duration_ms"`
	MaxAnimationDurationMs int     `mapstructure:"max_animation_duration_ms" json:"max_animation_duration_ms"`
	StartHidden            bool    `mapstructure:"start_hidden" json:"start_hidden"`
}

// MinShowDuration returns the transient-show floor as a duration.
func (c ChromeConfig) MinShowDuration() time.Duration {
	return time.Duration(c.MinShowDurationMs) * time.Millisecond
}

// MaxAnimationDuration returns the full-sweep animation budget.
func (c ChromeConfig) MaxAnimationDuration() time.Duration {
	return time.Duration(c.MaxAnimationDurationMs) * time.Millisecond
}

// DisplayConfig carries the host display's density.
type DisplayConfig struct {
	DPScale float64 `mapstructure:"dp_scale" json:"dp_scale"`
}

// ShellConfig selects orchestrator behavior.
type ShellConfig struct {
	DefaultLayout string `mapstructure:"default_layout" json:"default_layout"`
}

// LoggingConfig mirrors the logging package's settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// SessionConfig controls shell state persistence.
type SessionConfig struct {
	DatabasePath string `mapstructure:"database_path" json:"database_path"`
	Autosave     bool   `mapstructure:"autosave" json:"autosave"`
}

// Defaults
const (
	defaultChromeHeightPx    = 56.0
	defaultMinShowDurationMs = 3000
	defaultMaxAnimDurationMs = 500
	defaultDPScale           = 1.0
	defaultDefaultLayout     = "browsing"
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
	defaultSessionAutosave   = true
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Chrome: ChromeConfig{
			HeightPx:               defaultChromeHeightPx,
			MinShowDurationMs:      defaultMinShowDurationMs,
			MaxAnimationDurationMs: defaultMaxAnimDurationMs,
		},
		Display: DisplayConfig{DPScale: defaultDPScale},
		Shell:   ShellConfig{DefaultLayout: defaultDefaultLayout},
		Logging: LoggingConfig{Level: defaultLogLevel, Format: defaultLogFormat},
		Session: SessionConfig{Autosave: defaultSessionAutosave},
	}
}

// normalizeConfig fills gaps left by partial config files.
func normalizeConfig(config *Config) {
	if config.Chrome.HeightPx == 0 {
		config.Chrome.HeightPx = defaultChromeHeightPx
	}
	if config.Chrome.MinShowDurationMs == 0 {
		config.Chrome.MinShowDurationMs = defaultMinShowDurationMs
	}
	if config.Chrome.MaxAnimationDurationMs == 0 {
		config.Chrome.MaxAnimationDurationMs = defaultMaxAnimDurationMs
	}
	if config.Display.DPScale == 0 {
		config.Display.DPScale = defaultDPScale
	}
	if config.Shell.DefaultLayout == "" {
		config.Shell.DefaultLayout = defaultDefaultLayout
	}
	if config.Logging.Level == "" {
		config.Logging.Level = defaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = defaultLogFormat
	}
}

// validateConfig performs validation of configuration values.
func validateConfig(config *Config) error {
	var validationErrors []string

	if config.Chrome.HeightPx <= 0 {
		validationErrors = append(validationErrors, "chrome.height_px must be positive")
	}
	if config.Chrome.MinShowDurationMs < 0 {
		validationErrors = append(validationErrors, "chrome.min_show_duration_ms must be non-negative")
	}
	if config.Chrome.MaxAnimationDurationMs < 0 {
		validationErrors = append(validationErrors, "chrome.max_animation_duration_ms must be non-negative")
	}
	if config.Display.DPScale <= 0 {
		validationErrors = append(validationErrors, "display.dp_scale must be positive")
	}
	switch config.Shell.DefaultLayout {
	case "browsing", "tab-switcher", "overlay", "contextual-overlay":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("shell.default_layout %q is not a known layout", config.Shell.DefaultLayout))
	}
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level %q is not a known level", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format %q is not a known format", config.Logging.Format))
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}
