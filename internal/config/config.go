// Package config loads taskdesk configuration from file, environment
// and defaults using viper. The file lives at
// $XDG_CONFIG_HOME/taskdesk/config.yaml (falling back to
// ~/.config/taskdesk); every key can be overridden with a TASKDESK_*
// environment variable.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete taskdesk configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Notes   NotesConfig   `mapstructure:"notes"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig points the client at a backend
type ServerConfig struct {
	// URL is the backend base URL, e.g. "http://127.0.0.1:8000"
	URL string `mapstructure:"url"`
	// TimeoutSeconds bounds every HTTP request
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// NotesConfig controls the notes editor
type NotesConfig struct {
	// AutosaveDelayMs is the debounce interval before a note edit is committed
	AutosaveDelayMs int `mapstructure:"autosave_delay_ms"`
}

// LoggingConfig controls the debug log
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR
	Level string `mapstructure:"level"`
	// File is the log file path; empty means $XDG_STATE_HOME/taskdesk/debug.log
	File string `mapstructure:"file"`
}

// Default returns the configuration used when no file or env overrides exist
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:            "http://127.0.0.1:8000",
			TimeoutSeconds: 60,
		},
		Notes: NotesConfig{
			AutosaveDelayMs: 1000,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// Load reads configuration from the config file and environment,
// applying defaults for anything unset. A missing config file is not
// an error.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("TASKDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.timeout_seconds", d.Server.TimeoutSeconds)
	v.SetDefault("notes.autosave_delay_ms", d.Notes.AutosaveDelayMs)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

// configDir returns the directory searched for config.yaml
func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "taskdesk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskdesk")
}

// AutosaveDelay returns the notes debounce interval as a duration
func (c *Config) AutosaveDelay() time.Duration {
	if c.Notes.AutosaveDelayMs <= 0 {
		return time.Duration(Default().Notes.AutosaveDelayMs) * time.Millisecond
	}
	return time.Duration(c.Notes.AutosaveDelayMs) * time.Millisecond
}

// Timeout returns the HTTP request timeout as a duration
func (c *Config) Timeout() time.Duration {
	if c.Server.TimeoutSeconds <= 0 {
		return time.Duration(Default().Server.TimeoutSeconds) * time.Second
	}
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// LogFile returns the configured log file path or the default under
// the XDG state directory.
func (c *Config) LogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "taskdesk", "debug.log")
}
