package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != defaultHost {
		t.Fatalf("Host = %q, want %q", cfg.Host, defaultHost)
	}
	if cfg.PollInterval != 1500*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 1.5s", cfg.PollInterval)
	}
	if cfg.HeartbeatInterval != 25*time.Second || cfg.ReconnectBase != time.Second || cfg.ReconnectMax != 30*time.Second {
		t.Fatalf("connection timings = %v/%v/%v", cfg.HeartbeatInterval, cfg.ReconnectBase, cfg.ReconnectMax)
	}
	if cfg.GuardQuiescence != time.Second {
		t.Fatalf("GuardQuiescence = %v, want 1s", cfg.GuardQuiescence)
	}
	if !cfg.Notifications {
		t.Fatalf("Notifications = false, want true")
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
host = "  http://10.0.0.5:9000  "
poll_interval = "3s"
guard_quiescence = "250ms"
log_file = "  ~/logs/tonearm.log  "
log_level = "DEBUG"
notifications = false
downloader = "youtube-dl"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != "http://10.0.0.5:9000" {
		t.Fatalf("Host = %q, want http://10.0.0.5:9000", cfg.Host)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Fatalf("PollInterval = %v, want 3s", cfg.PollInterval)
	}
	if cfg.GuardQuiescence != 250*time.Millisecond {
		t.Fatalf("GuardQuiescence = %v, want 250ms", cfg.GuardQuiescence)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "tonearm.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Notifications {
		t.Fatalf("Notifications = true, want false")
	}
	if cfg.Downloader != "youtube-dl" {
		t.Fatalf("Downloader = %q, want youtube-dl", cfg.Downloader)
	}
	if cfg.HeartbeatInterval != defaultHeartbeatInterval {
		t.Fatalf("HeartbeatInterval = %v, want default", cfg.HeartbeatInterval)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
host = "http://file:1"
poll_interval = "3s"
`)
	t.Setenv("TONEARM_HOST", "http://env:2")
	t.Setenv("TONEARM_RECONNECT_MAX", "1m")
	t.Setenv("TONEARM_NOTIFICATIONS", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != "http://env:2" {
		t.Fatalf("Host = %q, want env override", cfg.Host)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Fatalf("PollInterval = %v, want file value 3s", cfg.PollInterval)
	}
	if cfg.ReconnectMax != time.Minute {
		t.Fatalf("ReconnectMax = %v, want 1m", cfg.ReconnectMax)
	}
	if cfg.Notifications {
		t.Fatalf("Notifications = true, want env override false")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", `host = [`, "parse config"},
		{"bad duration", `poll_interval = "soon"`, "parse poll_interval"},
		{"negative duration", `heartbeat_interval = "-1s"`, "must be positive"},
		{"max below base", "reconnect_base = \"10s\"\nreconnect_max = \"5s\"", "reconnect_max"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatalf("Load returned nil error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestLoad_InvalidEnvFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TONEARM_NOTIFICATIONS", "maybe")
	if _, err := Load(writeConfig(t, "")); err == nil {
		t.Fatalf("Load returned nil error for bad env bool")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
