package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Query     QueryConfig     `mapstructure:"query"`
	Webhooks  WebhooksConfig  `mapstructure:"webhooks"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	PublicURL       string        `mapstructure:"public_url"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"`
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
	BusyTimeoutMS  int    `mapstructure:"busy_timeout_ms"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
}

// RateLimitConfig values are requests per minute per client IP. Zero disables the limiter.
type RateLimitConfig struct {
	IngestPerMinute int `mapstructure:"ingest_per_minute"`
	APIPerMinute    int `mapstructure:"api_per_minute"`
}

type IngestConfig struct {
	MaxBodyBytes    int64    `mapstructure:"max_body_bytes"`
	ClientIPHeaders []string `mapstructure:"client_ip_headers"`
}

type QueryConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
	DefaultDays  int `mapstructure:"default_days"`
	MaxDays      int `mapstructure:"max_days"`
}

type WebhooksConfig struct {
	EndpointRetries int           `mapstructure:"endpoint_retries"`
	RetentionDays   int           `mapstructure:"retention_days"`
	PruneInterval   time.Duration `mapstructure:"prune_interval"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.url", "file:data/hooklog.db")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.busy_timeout_ms", 5000)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("rate_limit.ingest_per_minute", 0)
	v.SetDefault("rate_limit.api_per_minute", 0)

	v.SetDefault("ingest.max_body_bytes", 1<<20)
	v.SetDefault("ingest.client_ip_headers", []string{"CF-Connecting-IP", "X-Real-Ip", "X-Forwarded-For"})

	v.SetDefault("query.default_limit", 50)
	v.SetDefault("query.max_limit", 500)
	v.SetDefault("query.default_days", 7)
	v.SetDefault("query.max_days", 365)

	v.SetDefault("webhooks.endpoint_retries", 5)
	v.SetDefault("webhooks.retention_days", 0)
	v.SetDefault("webhooks.prune_interval", time.Hour)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)
}

// Load reads the YAML file at path, layered over defaults and the environment.
// A missing file is not an error; every key has a default.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver)
	}
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Query.DefaultLimit < 1 || c.Query.MaxLimit < c.Query.DefaultLimit {
		return errors.New("query limits must satisfy 1 <= default_limit <= max_limit")
	}
	if c.Query.DefaultDays < 1 || c.Query.MaxDays < c.Query.DefaultDays {
		return errors.New("query days must satisfy 1 <= default_days <= max_days")
	}
	if c.Ingest.MaxBodyBytes <= 0 {
		return errors.New("ingest.max_body_bytes must be positive")
	}
	if c.Webhooks.RetentionDays < 0 {
		return errors.New("webhooks.retention_days must not be negative")
	}
	if c.Webhooks.RetentionDays > 0 && c.Webhooks.PruneInterval <= 0 {
		return errors.New("webhooks.prune_interval must be positive when retention is enabled")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
