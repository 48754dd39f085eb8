package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Application environment
	App AppConfig

	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Authentication configuration
	Auth AuthConfig

	// Two-factor configuration
	TwoFactor TwoFactorConfig

	// Logging configuration
	Log LogConfig
}

// AppConfig holds environment-level settings
type AppConfig struct {
	Env           string // "development" or "production"
	DefaultLocale string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// AuthConfig holds login and token settings
type AuthConfig struct {
	TokenTTL   time.Duration
	BcryptCost int
}

// TwoFactorConfig holds TOTP settings
type TwoFactorConfig struct {
	Issuer string
	// EncryptionKey is 32 bytes, hex encoded, used for AES-GCM at rest
	// encryption of TOTP secrets and recovery codes.
	EncryptionKey string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Env:           getEnv("APP_ENV", "production"),
			DefaultLocale: getEnv("DEFAULT_LOCALE", "uz"),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "legal_portal"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Auth: AuthConfig{
			TokenTTL:   getDurationEnv("AUTH_TOKEN_TTL", 720*time.Hour),
			BcryptCost: getIntEnv("AUTH_BCRYPT_COST", 12),
		},
		TwoFactor: TwoFactorConfig{
			Issuer:        getEnv("TWO_FACTOR_ISSUER", "Legal Portal"),
			EncryptionKey: getEnv("TWO_FACTOR_ENCRYPTION_KEY", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.App.Env != "development" && c.App.Env != "production" {
		return fmt.Errorf("APP_ENV must be 'development' or 'production'")
	}
	if c.TwoFactor.EncryptionKey == "" {
		return fmt.Errorf("TWO_FACTOR_ENCRYPTION_KEY is required")
	}
	key, err := hex.DecodeString(c.TwoFactor.EncryptionKey)
	if err != nil || len(key) != 32 {
		return fmt.Errorf("TWO_FACTOR_ENCRYPTION_KEY must be 32 bytes, hex encoded")
	}
	return nil
}

// IsDevelopment reports whether detailed errors may be returned to clients.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// EncryptionKey returns the decoded 2FA encryption key.
func (c *TwoFactorConfig) DecodedKey() []byte {
	key, _ := hex.DecodeString(c.EncryptionKey)
	return key
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
