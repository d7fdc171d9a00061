package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.URL != "http://127.0.0.1:8000" {
		t.Errorf("Server.URL = %q", cfg.Server.URL)
	}
	if cfg.AutosaveDelay() != time.Second {
		t.Errorf("AutosaveDelay() = %v, want 1s", cfg.AutosaveDelay())
	}
	if cfg.Timeout() != 60*time.Second {
		t.Errorf("Timeout() = %v, want 60s", cfg.Timeout())
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	appDir := filepath.Join(dir, "taskdesk")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		t.Fatal(err)
	}
	yaml := []byte("server:\n  url: https://tasks.example.com\nnotes:\n  autosave_delay_ms: 250\n")
	if err := os.WriteFile(filepath.Join(appDir, "config.yaml"), yaml, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.URL != "https://tasks.example.com" {
		t.Errorf("Server.URL = %q", cfg.Server.URL)
	}
	if cfg.AutosaveDelay() != 250*time.Millisecond {
		t.Errorf("AutosaveDelay() = %v, want 250ms", cfg.AutosaveDelay())
	}
	// Unset keys keep their defaults
	if cfg.Server.TimeoutSeconds != 60 {
		t.Errorf("Server.TimeoutSeconds = %d, want 60", cfg.Server.TimeoutSeconds)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TASKDESK_SERVER_URL", "http://envhost:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.URL != "http://envhost:9000" {
		t.Errorf("Server.URL = %q, want env override", cfg.Server.URL)
	}
}

func TestConfig_InvalidValuesClampToDefaults(t *testing.T) {
	cfg := &Config{}
	if cfg.AutosaveDelay() != time.Second {
		t.Errorf("AutosaveDelay() = %v, want 1s fallback", cfg.AutosaveDelay())
	}
	if cfg.Timeout() != 60*time.Second {
		t.Errorf("Timeout() = %v, want 60s fallback", cfg.Timeout())
	}

	cfg.Notes.AutosaveDelayMs = -5
	if cfg.AutosaveDelay() != time.Second {
		t.Errorf("negative delay not clamped: %v", cfg.AutosaveDelay())
	}
}

func TestConfig_LogFile(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.File = "/tmp/custom.log"
	if cfg.LogFile() != "/tmp/custom.log" {
		t.Errorf("LogFile() = %q", cfg.LogFile())
	}

	cfg.Logging.File = ""
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	want := filepath.Join("/tmp/state", "taskdesk", "debug.log")
	if cfg.LogFile() != want {
		t.Errorf("LogFile() = %q, want %q", cfg.LogFile(), want)
	}
}
