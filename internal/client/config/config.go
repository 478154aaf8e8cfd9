package config

import (
	"strings"
	"time"

	"github.com/braindumpster/braindumpster-go/internal/common"
)

// Config holds runtime settings for the braindump CLI.
//
// Fields:
//   - ServerURL: HTTP base of the analysis backend.
//   - WSURL: websocket base for the status channel. Empty means derived
//     from ServerURL by swapping the scheme.
//   - UploadTimeout: bound on one API exchange, the audio upload included.
//   - MaxUploadBytes: client-side ceiling for an audio payload.
type Config struct {
	ServerURL      string
	WSURL          string
	UploadTimeout  time.Duration
	MaxUploadBytes int64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.WSURL = ""
	c.UploadTimeout = 2 * time.Minute
	c.MaxUploadBytes = common.MaxAudioUploadBytes
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	cfg.normalize()
	return cfg
}

// normalize derives WSURL from ServerURL when it was not set explicitly.
func (c *Config) normalize() {
	if c.WSURL != "" {
		return
	}
	switch {
	case strings.HasPrefix(c.ServerURL, "https://"):
		c.WSURL = "wss://" + strings.TrimPrefix(c.ServerURL, "https://")
	case strings.HasPrefix(c.ServerURL, "http://"):
		c.WSURL = "ws://" + strings.TrimPrefix(c.ServerURL, "http://")
	default:
		c.WSURL = "ws://" + c.ServerURL
	}
}
