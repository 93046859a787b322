package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Telegram struct {
		Token   string        `yaml:"token"`
		ChatID  string        `yaml:"chat_id"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"telegram"`

	Schedule struct {
		CycleInterval  time.Duration `yaml:"cycle_interval"`
		SourcePauseMin time.Duration `yaml:"source_pause_min"`
		SourcePauseMax time.Duration `yaml:"source_pause_max"`
		MaxWorkers     int           `yaml:"max_workers"`
	} `yaml:"schedule"`

	Dispatch struct {
		DelayMin     time.Duration `yaml:"delay_min"`
		DelayMax     time.Duration `yaml:"delay_max"`
		PerSourceCap int           `yaml:"per_source_cap"`
		GlobalCap    int           `yaml:"global_cap"`
		SendRetries  int           `yaml:"send_retries"`
	} `yaml:"dispatch"`

	Fetch struct {
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"fetch"`

	Novelty struct {
		ColdStart string        `yaml:"cold_start"` // "window" or "latest"
		Window    time.Duration `yaml:"window"`
	} `yaml:"novelty"`

	Quarantine struct {
		Threshold int `yaml:"threshold"`
	} `yaml:"quarantine"`

	State struct {
		Backend string `yaml:"backend"` // "file" or "sqlite"
		Path    string `yaml:"path"`    // cursor file for the file backend
		DSN     string `yaml:"dsn"`     // connection string for the sqlite backend
	} `yaml:"state"`

	Server struct {
		Enabled bool          `yaml:"enabled"`
		Listen  string        `yaml:"listen"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"server"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables, e.g. telegram token from TELEGRAM_TOKEN
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// setDefaults fills zero values with production defaults
func setDefaults(cfg *Config) {
	if cfg.Telegram.Timeout == 0 {
		cfg.Telegram.Timeout = 10 * time.Second
	}

	if cfg.Schedule.CycleInterval == 0 {
		cfg.Schedule.CycleInterval = 20 * time.Minute
	}
	if cfg.Schedule.SourcePauseMin == 0 {
		cfg.Schedule.SourcePauseMin = 3 * time.Second
	}
	if cfg.Schedule.SourcePauseMax == 0 {
		cfg.Schedule.SourcePauseMax = 7 * time.Second
	}
	if cfg.Schedule.MaxWorkers == 0 {
		cfg.Schedule.MaxWorkers = 1
	}

	if cfg.Dispatch.DelayMin == 0 {
		cfg.Dispatch.DelayMin = 5 * time.Second
	}
	if cfg.Dispatch.DelayMax == 0 {
		cfg.Dispatch.DelayMax = 10 * time.Second
	}
	if cfg.Dispatch.PerSourceCap == 0 {
		cfg.Dispatch.PerSourceCap = 10
	}
	if cfg.Dispatch.SendRetries == 0 {
		cfg.Dispatch.SendRetries = 5
	}

	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 10 * time.Second
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "FeedRelay/1.0"
	}

	if cfg.Novelty.ColdStart == "" {
		cfg.Novelty.ColdStart = "window"
	}
	if cfg.Novelty.Window == 0 {
		cfg.Novelty.Window = 24 * time.Hour
	}

	if cfg.Quarantine.Threshold == 0 {
		cfg.Quarantine.Threshold = 3
	}

	if cfg.State.Backend == "" {
		cfg.State.Backend = "file"
	}
	if cfg.State.Path == "" {
		cfg.State.Path = "cursors.json"
	}
	if cfg.State.DSN == "" {
		cfg.State.DSN = "file:feedrelay.db?cache=shared&mode=rwc&_txlock=immediate"
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if cfg.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}

	if cfg.Schedule.SourcePauseMax < cfg.Schedule.SourcePauseMin {
		return fmt.Errorf("schedule.source_pause_max must be >= source_pause_min")
	}
	if cfg.Dispatch.DelayMax < cfg.Dispatch.DelayMin {
		return fmt.Errorf("dispatch.delay_max must be >= delay_min")
	}
	if cfg.Dispatch.PerSourceCap < 1 {
		return fmt.Errorf("dispatch.per_source_cap must be at least 1")
	}

	if cfg.Novelty.ColdStart != "window" && cfg.Novelty.ColdStart != "latest" {
		return fmt.Errorf("novelty.cold_start must be %q or %q, got %q", "window", "latest", cfg.Novelty.ColdStart)
	}
	if cfg.Novelty.Window < time.Hour {
		return fmt.Errorf("novelty.window must be at least 1 hour")
	}

	if cfg.Quarantine.Threshold < 1 {
		return fmt.Errorf("quarantine.threshold must be at least 1")
	}

	if cfg.State.Backend != "file" && cfg.State.Backend != "sqlite" {
		return fmt.Errorf("state.backend must be %q or %q, got %q", "file", "sqlite", cfg.State.Backend)
	}

	if cfg.Server.Enabled && cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
