// Package config loads tonearm's configuration.
//
// # Overview
//
// Settings come from three layers, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. The TOML file at ~/.config/tonearm/config.toml, or the path passed to Load
//  3. TONEARM_* environment variables
//
// Command-line flags are applied on top by cmd/tonearm. A missing config
// file is not an error; a malformed one is.
//
// # TOML Format
//
//	host = "http://127.0.0.1:8371"
//	poll_interval = "1500ms"
//	heartbeat_interval = "25s"
//	reconnect_base = "1s"
//	reconnect_max = "30s"
//	guard_quiescence = "1s"
//	log_file = "~/.local/state/tonearm/tonearm.log"
//	log_level = "info"
//	notifications = true
//	downloader = "yt-dlp"
//
// Durations use Go duration syntax and must be positive. Paths starting
// with ~ are expanded against the user's home directory.
//
// # Environment
//
// Every key has an upper-case override with the TONEARM_ prefix, for
// example TONEARM_HOST or TONEARM_POLL_INTERVAL. Parsing uses
// github.com/caarlos0/env.
package config
