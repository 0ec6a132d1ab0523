package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Restaurant RestaurantConfig `yaml:"restaurant"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// RestaurantConfig holds the seating-related configuration.
type RestaurantConfig struct {
	Timezone               string        `yaml:"timezone"`
	ServiceStart           string        `yaml:"service_start"` // "HH:MM", anchor for advance bookings without an explicit time
	DefaultDurationMinutes int           `yaml:"default_duration_minutes"`
	DefaultDuration        time.Duration `yaml:"-"` // Ignored by YAML parser
	TableDiameter          float64       `yaml:"table_diameter"` // canvas footprint of a table section, in layout units
}

// Location resolves the restaurant's timezone.
func (r *RestaurantConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid restaurant timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

// ServiceStartClock parses the configured service start into hour and minute.
func (r *RestaurantConfig) ServiceStartClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", r.ServiceStart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid service_start %q: %w", r.ServiceStart, err)
	}
	return t.Hour(), t.Minute(), nil
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                     string `yaml:"dsn"`
	MaxOpenConns            int    `yaml:"max_open_conns"`
	MaxIdleConns            int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes  int    `yaml:"conn_max_lifetime_minutes"`
	EnableOverlapConstraint bool   `yaml:"enable_overlap_constraint"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Restaurant.Timezone == "" {
		cfg.Restaurant.Timezone = "UTC"
	}
	if cfg.Restaurant.ServiceStart == "" {
		cfg.Restaurant.ServiceStart = "18:00"
	}
	if _, _, err := cfg.Restaurant.ServiceStartClock(); err != nil {
		return nil, err
	}

	if cfg.Restaurant.DefaultDurationMinutes <= 0 {
		cfg.Restaurant.DefaultDurationMinutes = 60
	}
	cfg.Restaurant.DefaultDuration = time.Duration(cfg.Restaurant.DefaultDurationMinutes) * time.Minute

	if cfg.Restaurant.TableDiameter <= 0 {
		cfg.Restaurant.TableDiameter = 160
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
