// Package config loads fuenfjahr.yaml over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/cache"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/fetch"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/simulate"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/store"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "fuenfjahr.yaml"

// Default values. New references them; nothing else should repeat them.
const (
	DefaultMinYear    = 1963 // first Bundesliga season
	DefaultMode       = "web"
	DefaultFailureTTL = 5 * time.Minute
	DefaultRawDir     = "data/raw"
	DefaultDriver     = store.DriverSQLite
	DefaultDSN        = "data/fuenfjahr.db"
	DefaultAddr       = ":8080"
	DefaultMCPPath    = "/mcp"
	DefaultAuthHeader = "X-API-Key"
	DefaultWorkers    = 5
	DefaultLogLevel   = "info"
)

type SourceConfig struct {
	Title     string        `yaml:"title"`
	Templates []string      `yaml:"templates"`
	MinYear   int           `yaml:"min_year"`
	MaxYear   int           `yaml:"max_year"` // 0: no upper bound
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	Mode      string        `yaml:"mode"` // web | simulated
	Seed      int64         `yaml:"seed"`
}

type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	FailureTTL time.Duration `yaml:"failure_ttl"`
	RawDir     string        `yaml:"raw_dir"`
	RawEnabled bool          `yaml:"raw_enabled"`
}

// Policy converts the in-memory part of the section.
func (c CacheConfig) Policy() cache.Policy {
	return cache.Policy{TTL: c.TTL, FailureTTL: c.FailureTTL}
}

// StoreConfig configures the SQL season store. An empty driver disables it.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MCPPath     string `yaml:"mcp_path"`
	RequireAuth bool   `yaml:"require_auth"`
	AuthHeader  string `yaml:"auth_header"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type Config struct {
	Source  SourceConfig `yaml:"source"`
	Cache   CacheConfig  `yaml:"cache"`
	Store   StoreConfig  `yaml:"store"`
	Server  ServerConfig `yaml:"server"`
	Workers int          `yaml:"workers"`
	Log     LogConfig    `yaml:"log"`
}

// New returns a Config with every default populated.
func New() *Config {
	return &Config{
		Source: SourceConfig{
			Title:     fetch.DefaultTitle,
			Templates: append([]string(nil), fetch.DefaultTemplates...),
			MinYear:   DefaultMinYear,
			UserAgent: "bundesliga-fuenfjahr/1.0",
			Timeout:   fetch.DefaultTimeout,
			Mode:      DefaultMode,
			Seed:      simulate.DefaultSeed,
		},
		Cache: CacheConfig{
			FailureTTL: DefaultFailureTTL,
			RawDir:     DefaultRawDir,
			RawEnabled: true,
		},
		Store: StoreConfig{
			Driver: DefaultDriver,
			DSN:    DefaultDSN,
		},
		Server: ServerConfig{
			Addr:       DefaultAddr,
			MCPPath:    DefaultMCPPath,
			AuthHeader: DefaultAuthHeader,
		},
		Workers: DefaultWorkers,
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads path over the defaults. An empty path tries DefaultFile and
// falls back to defaults if it does not exist; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := New()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that the rest of the program assumes.
func (c *Config) Validate() error {
	switch c.Source.Mode {
	case "web", "simulated":
	default:
		return fmt.Errorf("source.mode must be web or simulated, got %q", c.Source.Mode)
	}
	if len(c.Source.Templates) == 0 {
		return errors.New("source.templates must not be empty")
	}
	if c.Source.MinYear <= 0 {
		return fmt.Errorf("source.min_year must be positive, got %d", c.Source.MinYear)
	}
	if c.Source.MaxYear != 0 && c.Source.MaxYear < c.Source.MinYear {
		return fmt.Errorf("source.max_year %d is before min_year %d", c.Source.MaxYear, c.Source.MinYear)
	}
	if c.Source.Timeout < 0 || c.Cache.TTL < 0 || c.Cache.FailureTTL < 0 {
		return errors.New("durations must not be negative")
	}
	switch c.Store.Driver {
	case "", store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("store.driver must be sqlite or postgres, got %q", c.Store.Driver)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
