// Package config loads process configuration from yaml files and
// APP_-prefixed environment variables, with .env support for development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/instaclone/api/internal/auth/password"
	"github.com/instaclone/api/internal/logger"
)

// Config is the full service configuration.
type Config struct {
	Application ApplicationConfig `mapstructure:"application"`
	Database    DatabaseConfig    `mapstructure:"database"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Password    password.Params   `mapstructure:"password"`
	Logging     logger.Config     `mapstructure:"logging"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

// ApplicationConfig describes the listener and environment.
type ApplicationConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig describes the Postgres connection.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// DSN returns the Postgres connection string.
func (c DatabaseConfig) DSN() string {
	if c.Password == "" {
		return fmt.Sprintf("postgres://%s@%s:%d/%s", c.Username, c.Host, c.Port, c.Name)
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.Username, c.Password, c.Host, c.Port, c.Name)
}

// JWTConfig carries the RSA key pair, each Base64-encoded PEM.
type JWTConfig struct {
	PrivateKey string `mapstructure:"private_key"`
	PublicKey  string `mapstructure:"public_key"`
}

// TelemetryConfig configures the OTLP exporters.
type TelemetryConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Endpoint   string  `mapstructure:"endpoint"`
	Insecure   bool    `mapstructure:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// ApplyDefaults fills zero-valued fields with development defaults.
func (c *Config) ApplyDefaults() {
	if c.Application.Host == "" {
		c.Application.Host = "127.0.0.1"
	}
	if c.Application.Port == 0 {
		c.Application.Port = 8080
	}
	if c.Application.Environment == "" {
		c.Application.Environment = "development"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
	c.Logging.ApplyDefaults()
}

// Validate checks required fields.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "testing", "production"}
	found := false
	for _, env := range validEnvs {
		if c.Application.Environment == env {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("application.environment must be one of %v (got: %s)", validEnvs, c.Application.Environment)
	}
	if c.JWT.PrivateKey == "" {
		return fmt.Errorf("jwt.private_key is required")
	}
	if c.JWT.PublicKey == "" {
		return fmt.Errorf("jwt.public_key is required")
	}
	return c.Logging.Validate()
}

// Load reads configuration for the current environment: config/base.yaml,
// then config/<environment>.yaml, then APP_-prefixed environment variables
// (nesting separated by "__", e.g. APP_JWT__PRIVATE_KEY). Outside production
// a .env file is loaded first when present.
func Load() (*Config, error) {
	env := os.Getenv("APP_APPLICATION__ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if env != "production" {
		if _, err := os.Stat(".env"); err == nil {
			if err := godotenv.Load(".env"); err != nil {
				return nil, fmt.Errorf("config: load .env: %w", err)
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	// Register every key so env-only values survive Unmarshal.
	for _, key := range []string{
		"application.host", "application.port", "application.environment",
		"database.host", "database.port", "database.username",
		"database.password", "database.name",
		"jwt.private_key", "jwt.public_key",
		"password.time", "password.memory", "password.threads",
		"logging.level", "logging.format", "logging.no_color",
		"telemetry.enabled", "telemetry.endpoint", "telemetry.insecure",
		"telemetry.sample_rate",
	} {
		v.SetDefault(key, nil)
	}

	for _, name := range []string{"base", env} {
		v.SetConfigName(name)
		v.SetConfigType("yaml")
		v.AddConfigPath("config")
		if err := v.MergeInConfig(); err != nil {
			// Missing files are fine; env vars and defaults still apply.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s.yaml: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
