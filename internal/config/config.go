package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds tonearm's runtime settings after defaults, file and
// environment have been merged.
type Config struct {
	Host              string
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
	ReconnectBase     time.Duration
	ReconnectMax      time.Duration
	GuardQuiescence   time.Duration
	LogFile           string
	LogLevel          string
	Notifications     bool
	Downloader        string
}

const (
	defaultConfigPath        = "~/.config/tonearm/config.toml"
	defaultHost              = "http://127.0.0.1:8371"
	defaultPollInterval      = 1500 * time.Millisecond
	defaultHeartbeatInterval = 25 * time.Second
	defaultReconnectBase     = time.Second
	defaultReconnectMax      = 30 * time.Second
	defaultGuardQuiescence   = time.Second
	defaultLogFile           = "~/.local/state/tonearm/tonearm.log"
	defaultLogLevel          = "info"
	defaultDownloader        = "yt-dlp"

	// EnvPrefix prefixes every environment override, e.g. TONEARM_HOST.
	EnvPrefix = "TONEARM_"
)

// raw mirrors the file and environment layout. Durations stay strings so
// both sources accept values like "1500ms".
type raw struct {
	Host              string `toml:"host" env:"HOST"`
	PollInterval      string `toml:"poll_interval" env:"POLL_INTERVAL"`
	HeartbeatInterval string `toml:"heartbeat_interval" env:"HEARTBEAT_INTERVAL"`
	ReconnectBase     string `toml:"reconnect_base" env:"RECONNECT_BASE"`
	ReconnectMax      string `toml:"reconnect_max" env:"RECONNECT_MAX"`
	GuardQuiescence   string `toml:"guard_quiescence" env:"GUARD_QUIESCENCE"`
	LogFile           string `toml:"log_file" env:"LOG_FILE"`
	LogLevel          string `toml:"log_level" env:"LOG_LEVEL"`
	Notifications     bool   `toml:"notifications" env:"NOTIFICATIONS"`
	Downloader        string `toml:"downloader" env:"DOWNLOADER"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:              defaultHost,
		PollInterval:      defaultPollInterval,
		HeartbeatInterval: defaultHeartbeatInterval,
		ReconnectBase:     defaultReconnectBase,
		ReconnectMax:      defaultReconnectMax,
		GuardQuiescence:   defaultGuardQuiescence,
		LogFile:           mustExpand(defaultLogFile),
		LogLevel:          defaultLogLevel,
		Notifications:     true,
		Downloader:        defaultDownloader,
	}
}

// Load reads the config file at path (or the default location), then
// applies TONEARM_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	r := raw{Notifications: true}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &r); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := env.ParseWithOptions(&r, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return r.resolve()
}

func (r raw) resolve() (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(r.Host); v != "" {
		cfg.Host = v
	}
	durations := []struct {
		key string
		in  string
		out *time.Duration
	}{
		{"poll_interval", r.PollInterval, &cfg.PollInterval},
		{"heartbeat_interval", r.HeartbeatInterval, &cfg.HeartbeatInterval},
		{"reconnect_base", r.ReconnectBase, &cfg.ReconnectBase},
		{"reconnect_max", r.ReconnectMax, &cfg.ReconnectMax},
		{"guard_quiescence", r.GuardQuiescence, &cfg.GuardQuiescence},
	}
	for _, d := range durations {
		v := strings.TrimSpace(d.in)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("parse %s: must be positive, got %s", d.key, v)
		}
		*d.out = parsed
	}
	if cfg.ReconnectMax < cfg.ReconnectBase {
		return Config{}, fmt.Errorf("reconnect_max %s is below reconnect_base %s", cfg.ReconnectMax, cfg.ReconnectBase)
	}

	if v := strings.TrimSpace(r.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(r.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.Notifications = r.Notifications
	if v := strings.TrimSpace(r.Downloader); v != "" {
		cfg.Downloader = v
	}
	return cfg, nil
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
