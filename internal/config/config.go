package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codyseavey/poketrack/internal/models"
)

// Config is the top-level configuration shared by the server and the
// terminal client. Each binary reads only its own section.
type Config struct {
	Server Server `yaml:"server"`
	Client Client `yaml:"client"`
}

// Server configures the reference backend.
type Server struct {
	Port             string        `yaml:"port"`
	DBDriver         string        `yaml:"db_driver"` // sqlite or postgres
	DBDSN            string        `yaml:"db_dsn"`    // file path for sqlite
	DataDir          string        `yaml:"data_dir"`
	CORSOrigins      []string      `yaml:"cors_origins"`
	PriceCacheSize   int           `yaml:"price_cache_size"`
	WarmInterval     time.Duration `yaml:"warm_interval"`
	FrontendDistPath string        `yaml:"frontend_dist_path"`
}

// Client configures the terminal client.
type Client struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	RateLimit   float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst       int           `yaml:"burst"`
	DefaultDays int           `yaml:"default_days"`
	LogFile     string        `yaml:"log_file"`
	LogLevel    string        `yaml:"log_level"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: Server{
			Port:           "8080",
			DBDriver:       DriverSQLite,
			DBDSN:          "./poketrack.db",
			DataDir:        "./data",
			CORSOrigins:    []string{"http://localhost:5173", "http://localhost:3000"},
			PriceCacheSize: 1024,
			WarmInterval:   time.Hour,
		},
		Client: Client{
			BaseURL:     "http://localhost:8080",
			Timeout:     10 * time.Second,
			RateLimit:   10,
			Burst:       5,
			DefaultDays: int(models.DefaultWindow),
			LogFile:     "poketrack.log",
			LogLevel:    "info",
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment variable overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Server.DBDriver = v
	}
	// DB_PATH is the sqlite file; DB_DSN wins when both are set
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Server.DBDSN = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Server.DBDSN = v
	}
	if v := os.Getenv("CATALOG_DATA_DIR"); v != "" {
		cfg.Server.DataDir = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.CORSOrigins = origins
	}
	if v := os.Getenv("FRONTEND_DIST_PATH"); v != "" {
		cfg.Server.FrontendDistPath = v
	}

	if v := os.Getenv("POKETRACK_API_URL"); v != "" {
		cfg.Client.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Client.LogLevel = v
	}
}

// Validate rejects settings neither binary can start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Server.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("server.db_driver: unsupported driver %q", c.Server.DBDriver))
	}
	if c.Server.DBDSN == "" {
		errs = append(errs, errors.New("server.db_dsn: must not be empty"))
	}
	if c.Server.PriceCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("server.price_cache_size: must be positive, got %d", c.Server.PriceCacheSize))
	}
	if c.Server.WarmInterval < 0 {
		errs = append(errs, fmt.Errorf("server.warm_interval: must not be negative, got %s", c.Server.WarmInterval))
	}

	if c.Client.BaseURL == "" {
		errs = append(errs, errors.New("client.base_url: must not be empty"))
	}
	if !models.Window(c.Client.DefaultDays).Valid() {
		errs = append(errs, fmt.Errorf("client.default_days: must be 7, 14 or 30, got %d", c.Client.DefaultDays))
	}
	if c.Client.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("client.rate_limit: must not be negative, got %v", c.Client.RateLimit))
	}

	return errors.Join(errs...)
}
