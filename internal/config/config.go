// Package config reads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fjod/dhnaturally/internal/domain"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTPPort           string        `env:"HTTP_PORT"             envDefault:"8080"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"       envDefault:"30s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT"      envDefault:"10s"`
	MaxRequestBodySize int64         `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
	DefaultLanguage    string        `env:"DEFAULT_LANGUAGE"      envDefault:"he"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	DatabaseDSN   string `env:"DATABASE_DSN"`

	// Cart views are cached only when RedisAddr is set.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SendGridAPIKey  string `env:"SENDGRID_API_KEY"`
	ContactMailFrom string `env:"CONTACT_MAIL_FROM"`
	ContactMailTo   string `env:"CONTACT_MAIL_TO"`

	KafkaBrokers      []string `env:"KAFKA_BROKERS"       envSeparator:","`
	KafkaContactTopic string   `env:"KAFKA_CONTACT_TOPIC" envDefault:"contact-submissions"`
}

// Load parses the environment and checks the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StorageDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, fmt.Errorf("DATABASE_DSN is required for storage driver %q", c.StorageDriver))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q", c.StorageDriver))
	}
	if c.DefaultLanguage != domain.LangHebrew && c.DefaultLanguage != domain.LangEnglish {
		errs = append(errs, fmt.Errorf("DEFAULT_LANGUAGE must be %q or %q", domain.LangHebrew, domain.LangEnglish))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.SendGridAPIKey != "" && (c.ContactMailFrom == "" || c.ContactMailTo == "") {
		errs = append(errs, errors.New("CONTACT_MAIL_FROM and CONTACT_MAIL_TO are required with SENDGRID_API_KEY"))
	}
	return errors.Join(errs...)
}

// MailEnabled reports whether contact submissions are mailed.
func (c *Config) MailEnabled() bool {
	return c.SendGridAPIKey != ""
}

// KafkaEnabled reports whether contact submissions are exported.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
