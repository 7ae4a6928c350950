package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Ingest        IngestConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// IngestConfig carries the upload ceilings. They are policy limits, not
// format limits, so operators can raise them per deployment.
type IngestConfig struct {
	MaxUploadBytes int64
	MaxRows        int
	MaxColumns     int
	PreviewRows    int
	UploadDir      string
	// UploadRetentionDays controls the nightly archive sweep. Zero or
	// negative disables it.
	UploadRetentionDays int
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
}

// Load reads configuration from environment variables, picking up a .env
// file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "clarityboard-dev"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Ingest: IngestConfig{
			MaxUploadBytes:      getEnvAsInt64("INGEST_MAX_UPLOAD_BYTES", 25*1024*1024),
			MaxRows:             getEnvAsInt("INGEST_MAX_ROWS", 100_000),
			MaxColumns:          getEnvAsInt("INGEST_MAX_COLUMNS", 200),
			PreviewRows:         getEnvAsInt("INGEST_PREVIEW_ROWS", 50),
			UploadDir:           getEnv("INGEST_UPLOAD_DIR", "./uploads"),
			UploadRetentionDays: getEnvAsInt("INGEST_UPLOAD_RETENTION_DAYS", 30),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
		},
	}

	if cfg.Ingest.MaxRows <= 0 {
		return nil, fmt.Errorf("INGEST_MAX_ROWS must be positive, got %d", cfg.Ingest.MaxRows)
	}
	if cfg.Ingest.MaxColumns <= 0 {
		return nil, fmt.Errorf("INGEST_MAX_COLUMNS must be positive, got %d", cfg.Ingest.MaxColumns)
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
