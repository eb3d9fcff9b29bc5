package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Stream   StreamConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// JWTConfig holds JWT verification configuration
type JWTConfig struct {
	Secret          string
	StreamTokenLife time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	RequestTimeout time.Duration
}

// StreamConfig tunes the live location fan-out
type StreamConfig struct {
	QueueSize         int
	KeepaliveInterval time.Duration
}

func Load() (*Config, error) {
	// .env is optional; deployments may pass plain env vars
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "fieldtrack"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: dbMaxConns,
		MinConns: dbMinConns,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	requestTimeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		RequestTimeout: requestTimeout,
	}

	// JWT configuration
	streamTokenLife, err := time.ParseDuration(getEnv("STREAM_TOKEN_LIFETIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid STREAM_TOKEN_LIFETIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:          getEnv("JWT_SECRET_KEY", ""),
		StreamTokenLife: streamTokenLife,
	}

	// Live stream configuration
	queueSize, err := strconv.Atoi(getEnv("STREAM_QUEUE_SIZE", "32"))
	if err != nil {
		return nil, fmt.Errorf("invalid STREAM_QUEUE_SIZE: %w", err)
	}
	keepalive, err := time.ParseDuration(getEnv("STREAM_KEEPALIVE_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STREAM_KEEPALIVE_INTERVAL: %w", err)
	}

	config.Stream = StreamConfig{
		QueueSize:         queueSize,
		KeepaliveInterval: keepalive,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Stream.QueueSize <= 0 {
		return fmt.Errorf("STREAM_QUEUE_SIZE must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
