package config

import (
	"fmt"
	"time"

	"github.com/stridekart/catalog/pkg/config"
	"github.com/stridekart/catalog/pkg/database"
	"github.com/stridekart/catalog/pkg/tracing"
)

// Config holds all configuration for the catalog service.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"catalog"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Tracing  TracingConfig

	TopCacheTTL time.Duration `env:"TOP_CACHE_TTL" envDefault:"5m"`

	// MediaServiceURL points at the media service used for image cleanup.
	// Empty disables image cleanup entirely.
	MediaServiceURL string `env:"MEDIA_SERVICE_URL"`
}

// PostgresConfig holds PostgreSQL settings from the environment.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"catalog"`
	Password string `env:"POSTGRES_PASSWORD"`
	DBName   string `env:"POSTGRES_DB" envDefault:"catalog"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	MaxConns        int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"POSTGRES_MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"POSTGRES_MAX_CONN_IDLE_TIME" envDefault:"30m"`
}

// RedisConfig holds Redis settings from the environment.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// KafkaConfig holds Kafka settings from the environment.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"catalog.events"`

	// Enabled gates event publishing so the service can run without a broker.
	Enabled bool `env:"KAFKA_ENABLED" envDefault:"true"`
}

// TracingConfig holds OpenTelemetry settings from the environment.
type TracingConfig struct {
	Enabled      bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	SampleRate   float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
	Environment  string  `env:"ENVIRONMENT" envDefault:"development"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg, err := config.Load[Config]()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP_PORT %d", cfg.HTTPPort)
	}

	return cfg, nil
}

// DatabaseConfig converts to the shared postgres pool configuration.
func (c *Config) DatabaseConfig() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:            c.Postgres.Host,
		Port:            c.Postgres.Port,
		User:            c.Postgres.User,
		Password:        c.Postgres.Password,
		DBName:          c.Postgres.DBName,
		SSLMode:         c.Postgres.SSLMode,
		MaxConns:        c.Postgres.MaxConns,
		MinConns:        c.Postgres.MinConns,
		MaxConnLifetime: c.Postgres.MaxConnLifetime,
		MaxConnIdleTime: c.Postgres.MaxConnIdleTime,
	}
}

// TracerConfig converts to the shared tracing configuration.
func (c *Config) TracerConfig() tracing.Config {
	tc := tracing.DefaultConfig(c.ServiceName)
	tc.Enabled = c.Tracing.Enabled
	tc.OTLPEndpoint = c.Tracing.OTLPEndpoint
	tc.SampleRate = c.Tracing.SampleRate
	tc.Environment = c.Tracing.Environment
	return tc
}

// RedisClientConfig converts to the shared redis client configuration.
func (c *Config) RedisClientConfig() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.Redis.Host,
		Port:     c.Redis.Port,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}
