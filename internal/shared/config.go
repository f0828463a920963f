package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvPrefix is prepended to every environment override, e.g. CHARSHEET_CLIENT_BASE_URL.
const EnvPrefix = "CHARSHEET_"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Client   ClientConfig   `toml:"client" envPrefix:"CLIENT_"`
	Server   ServerConfig   `toml:"server" envPrefix:"SERVER_"`
	Database DatabaseConfig `toml:"database" envPrefix:"DATABASE_"`
	Redis    RedisConfig    `toml:"redis" envPrefix:"REDIS_"`
	Log      LogConfig      `toml:"log" envPrefix:"LOG_"`
}

// ClientConfig contains settings for the character sheet API client.
type ClientConfig struct {
	BaseURL        string  `toml:"base_url" env:"BASE_URL"`
	Token          string  `toml:"token" env:"TOKEN"`
	RateLimit      float64 `toml:"rate_limit" env:"RATE_LIMIT"` // Requests per second, 0 disables limiting
	TimeoutSeconds int     `toml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
}

// Timeout returns the request timeout as a [time.Duration].
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Storage backends accepted by server.store.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// ServerConfig contains HTTP server settings for the reference backend.
type ServerConfig struct {
	Host  string `toml:"host" env:"HOST"`
	Port  int    `toml:"port" env:"PORT"`
	Token string `toml:"token" env:"TOKEN"`
	Store string `toml:"store" env:"STORE"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"PATH"`
	MaxOpenConns int    `toml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns int    `toml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
}

// RedisConfig contains connection settings for the redis store.
type RedisConfig struct {
	Addr     string `toml:"addr" env:"ADDR"`
	Password string `toml:"password" env:"PASSWORD"`
	DB       int    `toml:"db" env:"DB"`
	Prefix   string `toml:"prefix" env:"PREFIX"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" env:"LEVEL"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults; environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnv overrides config fields from CHARSHEET_* environment variables.
//
// Unset variables leave the existing value in place.
func ApplyEnv(config *Config) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("%w: parse env: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks the fields that have no usable zero value.
func (c *Config) Validate() error {
	if c.Client.BaseURL == "" {
		return fmt.Errorf("%w: client.base_url is required", ErrInvalidConfig)
	}
	if c.Client.RateLimit < 0 {
		return fmt.Errorf("%w: client.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	switch c.Server.Store {
	case StoreSQLite, StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("%w: server.store %q (want sqlite, memory or redis)", ErrInvalidConfig, c.Server.Store)
	}

	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
