// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every value read from the YAML file can be overridden by the environment
// variable named in its env:"..." tag.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers understood by StorageDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the root configuration structure.
//
// env-required:"true" means the app refuses to start if that value is
// missing. Everything else falls back to its env-default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StorageDriver selects the registration table backend.
	StorageDriver string `yaml:"storage_driver" env:"STORAGE_DRIVER" env-default:"sqlite"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`

	// PostgresDSN is used when StorageDriver is "postgres".
	PostgresDSN string `yaml:"postgres_dsn" env:"POSTGRES_DSN"`

	// Timezone decides where "today" starts when appointment dates are checked.
	Timezone string `yaml:"timezone" env:"TIMEZONE" env-default:"Europe/Zurich"`

	HTTPServer `yaml:"http_server"`
	Cookie     Cookie  `yaml:"cookie"`
	Contact    Contact `yaml:"contact"`
	Weather    Weather `yaml:"weather"`
	Redis      Redis   `yaml:"redis"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
}

// Cookie configures the returning-visitor cookie.
type Cookie struct {
	Name   string        `yaml:"name" env:"COOKIE_NAME" env-default:"child_name"`
	TTL    time.Duration `yaml:"ttl" env:"COOKIE_TTL" env-default:"1h"`
	Secure bool          `yaml:"secure" env:"COOKIE_SECURE" env-default:"false"`
}

// Contact is printed in the registration confirmation.
type Contact struct {
	Phone string `yaml:"phone" env:"CONTACT_PHONE" env-default:"+41 12 345 67 89"`
	Email string `yaml:"email" env:"CONTACT_EMAIL" env-default:"info@kinderhort.ch"`
}

// Weather configures the OpenWeatherMap client and the refresh loop.
type Weather struct {
	BaseURL         string        `yaml:"base_url" env:"WEATHER_BASE_URL" env-default:"https://api.openweathermap.org/data/2.5"`
	APIKey          string        `yaml:"api_key" env:"WEATHER_API_KEY"`
	City            string        `yaml:"city" env:"WEATHER_CITY" env-default:"Zurich,CH"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"WEATHER_REFRESH_INTERVAL" env-default:"5m"`
	Timeout         time.Duration `yaml:"timeout" env:"WEATHER_TIMEOUT" env-default:"10s"`
}

// Redis is optional. With an empty Addr the weather panel stays in memory.
type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Location resolves Timezone, falling back to the process local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load reads the YAML file at path, applies environment overrides and
// checks the cross-field rules cleanenv cannot express.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	switch cfg.StorageDriver {
	case DriverSQLite:
		if cfg.StoragePath == "" {
			return nil, errors.New("storage_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("postgres_dsn is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown storage_driver %q", cfg.StorageDriver)
	}

	if cfg.Weather.RefreshInterval <= 0 {
		return nil, errors.New("weather.refresh_interval must be positive")
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to fatal on failure: if this
// returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}
