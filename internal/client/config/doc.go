// Package config loads runtime configuration for the braindump CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   HTTP base URL of the analysis backend
//	-w string   websocket base URL for the status channel
//	-t int      upload timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "90s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "ws_url": "ws://127.0.0.1:8080",
//	  "upload_timeout": "90s",
//	  "max_upload_bytes": 104857600
//	}
//
// Primary API
//
//   - type Config                     — holds the backend endpoints and limits
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
