// ABOUTME: Sync configuration storage at XDG paths with environment overrides
// ABOUTME: Server URL, owner identity, and daemon interval settings
package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// MinInterval is the shortest daemon sync interval accepted.
const MinInterval = 5 * time.Second

// DefaultInterval is the daemon sync interval when none is configured.
const DefaultInterval = 30 * time.Second

// Config stores remote server credentials and daemon settings.
type Config struct {
	Server       string `json:"server"`
	OwnerID      string `json:"owner_id,omitempty"`
	IntervalSecs int    `json:"interval_secs,omitempty"`
}

// ConfigDir returns the XDG-compliant directory for sync configuration.
func ConfigDir() string {
	return filepath.Join(xdg.DataHome, "fieldsync")
}

// ConfigPath returns the XDG-compliant path for the sync configuration file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// LoadConfig loads sync configuration from the XDG data directory.
// Returns defaults if the file is missing. Environment variables override
// file values:
// - FIELDSYNC_SERVER
// - FIELDSYNC_USER_ID
// - FIELDSYNC_SYNC_INTERVAL (seconds).
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: "http://127.0.0.1:8000",
	}

	f, err := os.Open(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open sync config: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode sync config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// SaveConfig writes sync configuration to the XDG data directory.
func SaveConfig(cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sync config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write sync config: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if server := os.Getenv("FIELDSYNC_SERVER"); server != "" {
		cfg.Server = server
	}
	if owner := os.Getenv("FIELDSYNC_USER_ID"); owner != "" {
		cfg.OwnerID = owner
	}
	if raw := os.Getenv("FIELDSYNC_SYNC_INTERVAL"); raw != "" {
		var secs int
		if _, err := fmt.Sscanf(raw, "%d", &secs); err == nil && secs > 0 {
			cfg.IntervalSecs = secs
		}
	}
}

// Interval returns the configured daemon interval, clamped to MinInterval.
func (c *Config) Interval() time.Duration {
	if c.IntervalSecs <= 0 {
		return DefaultInterval
	}
	interval := time.Duration(c.IntervalSecs) * time.Second
	if interval < MinInterval {
		return MinInterval
	}
	return interval
}
