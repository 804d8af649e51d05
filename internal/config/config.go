package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/directory"
)

type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

const (
	BackendFirebase = "firebase"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Environment Environment `mapstructure:"ENVIRONMENT"`
	Port        string      `mapstructure:"PORT"`
	AppURL      string      `mapstructure:"APP_URL"`
	LogLevel    string      `mapstructure:"LOG_LEVEL"`

	StripeSecretKey      string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeConnectCountry string `mapstructure:"STRIPE_CONNECT_COUNTRY"`

	DirectoryBackend        string `mapstructure:"DIRECTORY_BACKEND"`
	FirebaseDatabaseURL     string `mapstructure:"FIREBASE_DATABASE_URL"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	RedisURL                string `mapstructure:"REDIS_URL"`
	RedisKeyPrefix          string `mapstructure:"REDIS_KEY_PREFIX"`
	DatabaseURL             string `mapstructure:"DATABASE_URL"`

	CORSAllowedOrigins     string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	PagesTemplateDir       string `mapstructure:"PAGES_TEMPLATE_DIR"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`

	// AuditSchedule is a six-field cron spec (seconds first) for the account audit.
	AuditSchedule string `mapstructure:"AUDIT_SCHEDULE"`
}

var keys = []string{
	"ENVIRONMENT",
	"PORT",
	"APP_URL",
	"LOG_LEVEL",
	"STRIPE_SECRET_KEY",
	"STRIPE_CONNECT_COUNTRY",
	"DIRECTORY_BACKEND",
	"FIREBASE_DATABASE_URL",
	"FIREBASE_CREDENTIALS_FILE",
	"REDIS_URL",
	"REDIS_KEY_PREFIX",
	"DATABASE_URL",
	"CORS_ALLOWED_ORIGINS",
	"PAGES_TEMPLATE_DIR",
	"SHUTDOWN_TIMEOUT_SECONDS",
	"AUDIT_SCHEDULE",
}

// Load reads configuration from the environment. Outside production a .env file
// in the working directory (or two levels up, for go run from cmd/*) is loaded first.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("ENVIRONMENT", string(Development))
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_URL", "http://localhost:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STRIPE_CONNECT_COUNTRY", "US")
	v.SetDefault("DIRECTORY_BACKEND", BackendFirebase)
	v.SetDefault("REDIS_KEY_PREFIX", "bookings")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("AUDIT_SCHEDULE", "0 0 3 * * *")
	v.AutomaticEnv()

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	if Environment(v.GetString("ENVIRONMENT")) != Production {
		if err := godotenv.Load(); err != nil {
			_ = godotenv.Load("../../.env")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.AppURL = strings.TrimSuffix(cfg.AppURL, "/")
	cfg.DirectoryBackend = strings.ToLower(strings.TrimSpace(cfg.DirectoryBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Environment {
	case Development, Staging, Production:
	default:
		return fmt.Errorf("ENVIRONMENT must be one of development, staging, production (got %q)", c.Environment)
	}

	if c.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}

	if c.AppURL == "" {
		return fmt.Errorf("APP_URL is required")
	}

	switch c.DirectoryBackend {
	case BackendFirebase:
		if c.FirebaseDatabaseURL == "" {
			return fmt.Errorf("FIREBASE_DATABASE_URL is required for the firebase directory backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis directory backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres directory backend")
		}
	case BackendMemory:
		if c.IsProduction() {
			return fmt.Errorf("the memory directory backend cannot be used in production")
		}
	default:
		return fmt.Errorf("unknown DIRECTORY_BACKEND %q", c.DirectoryBackend)
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

func (c *Config) IsStaging() bool {
	return c.Environment == Staging
}

func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (c *Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func (c *Config) DirectoryOptions() directory.Options {
	return directory.Options{
		Backend:                 c.DirectoryBackend,
		FirebaseDatabaseURL:     c.FirebaseDatabaseURL,
		FirebaseCredentialsFile: c.FirebaseCredentialsFile,
		RedisURL:                c.RedisURL,
		RedisKeyPrefix:          c.RedisKeyPrefix,
		DatabaseURL:             c.DatabaseURL,
	}
}
