// Package config loads and validates the YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the internscout daemon.
type Config struct {
	ScheduleInterval time.Duration
	Location         string
	DataDir          string
	OutputDir        string
	Roles            []RoleConfig
	Scrapers         []string
	MaxAge           time.Duration
	UnknownRecency   string // "reject" or "accept"
	Retention        time.Duration
	Store            StoreConfig
	RateLimit        RateLimitConfig
	Notification     NotificationConfig
}

// RoleConfig is one target role: the display name plus synonym phrasings
// that also count as a full match ("TPM" for "Technical Program Management
// Intern").
type RoleConfig struct {
	Name     string   `yaml:"name"`
	Synonyms []string `yaml:"synonyms"`
}

// StoreConfig selects the seen-store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "sqlite" (default) or "postgres"
	DSN     string `yaml:"dsn"`    // required for postgres
}

// RateLimitConfig throttles scraper requests per target host.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type  string      `yaml:"type"` // "log" or "email"
	Email EmailConfig `yaml:"email"`
}

// EmailConfig holds SMTP delivery settings. Credentials are normally
// supplied as ${VAR} references expanded from the environment (a .env file
// is loaded at startup).
type EmailConfig struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	From     string `yaml:"from"`
	Password string `yaml:"password"`
	To       string `yaml:"to"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations
// as strings).
type rawConfig struct {
	ScheduleInterval string             `yaml:"schedule_interval"`
	Location         string             `yaml:"location"`
	DataDir          string             `yaml:"data_dir"`
	OutputDir        string             `yaml:"output_dir"`
	Roles            []RoleConfig       `yaml:"roles"`
	Scrapers         []string           `yaml:"scrapers"`
	MaxAge           string             `yaml:"max_age"`
	UnknownRecency   string             `yaml:"unknown_recency"`
	Retention        string             `yaml:"retention"`
	Store            StoreConfig        `yaml:"store"`
	RateLimit        RateLimitConfig    `yaml:"rate_limit"`
	Notification     NotificationConfig `yaml:"notification"`
}

// Load reads and parses the YAML config file at path, applies defaults,
// validates, and returns the Config. ${VAR} references in the file are
// expanded from the environment before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval := 4 * time.Hour
	if raw.ScheduleInterval != "" {
		interval, err = time.ParseDuration(raw.ScheduleInterval)
		if err != nil {
			return nil, fmt.Errorf("parse schedule_interval %q: %w", raw.ScheduleInterval, err)
		}
	}

	maxAge := 24 * time.Hour
	if raw.MaxAge != "" {
		maxAge, err = time.ParseDuration(raw.MaxAge)
		if err != nil {
			return nil, fmt.Errorf("parse max_age %q: %w", raw.MaxAge, err)
		}
	}

	retention := 30 * 24 * time.Hour
	if raw.Retention != "" {
		retention, err = time.ParseDuration(raw.Retention)
		if err != nil {
			return nil, fmt.Errorf("parse retention %q: %w", raw.Retention, err)
		}
	}

	unknownRecency := raw.UnknownRecency
	if unknownRecency == "" {
		unknownRecency = "reject"
	}

	location := raw.Location
	if location == "" {
		location = "United States"
	}

	dataDir := raw.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	outputDir := raw.OutputDir
	if outputDir == "" {
		outputDir = "output"
	}

	rateLimit := raw.RateLimit
	if rateLimit.RequestsPerSecond <= 0 {
		rateLimit.RequestsPerSecond = 0.5
	}
	if rateLimit.Burst <= 0 {
		rateLimit.Burst = 1
	}

	cfg := &Config{
		ScheduleInterval: interval,
		Location:         location,
		DataDir:          dataDir,
		OutputDir:        outputDir,
		Roles:            raw.Roles,
		Scrapers:         raw.Scrapers,
		MaxAge:           maxAge,
		UnknownRecency:   unknownRecency,
		Retention:        retention,
		Store:            raw.Store,
		RateLimit:        rateLimit,
		Notification:     raw.Notification,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.ScheduleInterval <= 0 {
		return fmt.Errorf("schedule_interval must be positive, got %v", cfg.ScheduleInterval)
	}
	if len(cfg.Roles) == 0 {
		return fmt.Errorf("at least one target role is required")
	}
	for i, r := range cfg.Roles {
		if r.Name == "" {
			return fmt.Errorf("roles[%d].name must not be empty", i)
		}
	}
	if len(cfg.Scrapers) == 0 {
		return fmt.Errorf("at least one scraper must be enabled")
	}

	if cfg.MaxAge <= 0 {
		return fmt.Errorf("max_age must be positive, got %v", cfg.MaxAge)
	}
	if cfg.Retention < cfg.MaxAge {
		return fmt.Errorf("retention %v must not be shorter than max_age %v", cfg.Retention, cfg.MaxAge)
	}

	switch cfg.UnknownRecency {
	case "reject", "accept":
	default:
		return fmt.Errorf("unknown_recency must be \"reject\" or \"accept\", got %q", cfg.UnknownRecency)
	}

	switch cfg.Store.Backend {
	case "", "sqlite":
	case "postgres":
		if cfg.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required when store.backend is \"postgres\"")
		}
	default:
		return fmt.Errorf("store.backend must be \"sqlite\" or \"postgres\", got %q", cfg.Store.Backend)
	}

	switch cfg.Notification.Type {
	case "", "log":
	case "email":
		e := cfg.Notification.Email
		if e.SMTPHost == "" || e.From == "" || e.Password == "" || e.To == "" {
			return fmt.Errorf("notification.email requires smtp_host, from, password, and to")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"email\", got %q", cfg.Notification.Type)
	}

	return nil
}
