package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Sheets   SheetsConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Source   SourceConfig
	Env      string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
}

// SheetsConfig holds the published-CSV source configuration.
// Each URL points at one published sheet tab exported as CSV.
type SheetsConfig struct {
	OfferURL      string
	AbsenceURL    string
	RateURL       string
	CallVolumeURL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DatabaseConfig holds PostgreSQL configuration for the mirrored raw tables
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// SourceConfig selects the snapshot backend and its cache behaviour
type SourceConfig struct {
	// Backend is "sheets" (default) or "postgres"
	Backend string
	// SnapshotTTLSeconds controls how long a fetched raw snapshot is kept
	// in the cache before it is re-fetched
	SnapshotTTLSeconds int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Sheets: SheetsConfig{
			OfferURL:      getEnv("SHEETS_OFFER_URL", ""),
			AbsenceURL:    getEnv("SHEETS_ABSENCE_URL", ""),
			RateURL:       getEnv("SHEETS_RATE_URL", ""),
			CallVolumeURL: getEnv("SHEETS_CALL_VOLUME_URL", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "leakwatch"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Source: SourceConfig{
			Backend:            getEnv("SOURCE_BACKEND", "sheets"),
			SnapshotTTLSeconds: getEnvAsInt("SNAPSHOT_TTL_SECONDS", 300),
		},
		Env: getEnv("APP_ENV", "development"),
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
