package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	AMQP     AMQPConfig
	Tracing  TracingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `envconfig:"APP_NAME" default:"food-delivery-service"`
	Env                   string `envconfig:"APP_ENV" default:"development"`
	Host                  string `envconfig:"APP_HOST" default:"0.0.0.0"`
	Port                  string `envconfig:"APP_PORT" default:"4000"`
	Version               string `envconfig:"APP_VERSION" default:"dev"`
	RequestTimeoutSeconds int    `envconfig:"HTTP_REQUEST_TIMEOUT_SECONDS" default:"30"`
}

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-process store.
type PostgresConfig struct {
	DSN            string `envconfig:"POSTGRES_DSN"`
	MaxConns       int32  `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
	MinConns       int32  `envconfig:"POSTGRES_MIN_CONNS" default:"2"`
	RunMigrations  bool   `envconfig:"POSTGRES_RUN_MIGRATIONS" default:"true"`
	ConnMaxIdleSec int32  `envconfig:"POSTGRES_CONN_MAX_IDLE_SECONDS" default:"30"`
	ConnMaxLifeSec int32  `envconfig:"POSTGRES_CONN_MAX_LIFE_SECONDS" default:"300"`
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string `envconfig:"AUTH_JWT_SECRET" default:"dev-secret"`
	PasswordResetTTLMinutes int    `envconfig:"AUTH_PASSWORD_RESET_TTL_MINUTES" default:"30"`
	BcryptCost              int    `envconfig:"AUTH_BCRYPT_COST" default:"10"`
	DefaultResetPassword    string `envconfig:"AUTH_DEFAULT_RESET_PASSWORD" default:"changeme123"`
}

// AMQPConfig configures the domain event forwarder. An empty URL disables it.
type AMQPConfig struct {
	URL            string `envconfig:"AMQP_URL"`
	Exchange       string `envconfig:"AMQP_EXCHANGE" default:"food-delivery.events"`
	QueueSize      int    `envconfig:"AMQP_QUEUE_SIZE" default:"256"`
	PublishTimeout int    `envconfig:"AMQP_PUBLISH_TIMEOUT_SECONDS" default:"5"`
}

// PublishDeadline bounds a single broker publish.
func (c AMQPConfig) PublishDeadline() time.Duration {
	return time.Duration(c.PublishTimeout) * time.Second
}

// TracingConfig configures OpenTelemetry export. An empty endpoint disables it.
type TracingConfig struct {
	Endpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

const devSecret = "dev-secret"

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	for name, section := range map[string]any{
		"app":      &cfg.App,
		"postgres": &cfg.Postgres,
		"redis":    &cfg.Redis,
		"logger":   &cfg.Logger,
		"auth":     &cfg.Auth,
		"amqp":     &cfg.AMQP,
		"tracing":  &cfg.Tracing,
	} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("load %s config: %w", name, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that are unsafe to run.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET must be set")
	}
	if c.Auth.JWTSecret == devSecret && !c.App.IsDevelopment() {
		return fmt.Errorf("AUTH_JWT_SECRET must be overridden when APP_ENV=%s", c.App.Env)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("AUTH_BCRYPT_COST out of range: %d", c.Auth.BcryptCost)
	}
	return nil
}

// IsDevelopment reports whether the service runs in a local/test environment.
func (a AppConfig) IsDevelopment() bool {
	switch a.Env {
	case "development", "dev", "test", "local":
		return true
	}
	return false
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PasswordResetTTL returns how long a reset token stays valid.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	if a.PasswordResetTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}
