// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Document storage (S3-compatible)
	StorageBucket    string        `mapstructure:"STORAGE_BUCKET"`
	StorageRegion    string        `mapstructure:"STORAGE_REGION"`
	StorageEndpoint  string        `mapstructure:"STORAGE_ENDPOINT"`
	SignedURLExpiry  time.Duration `mapstructure:"SIGNED_URL_EXPIRY_MINUTES"`

	// Websocket feed
	WSTicketSecret string        `mapstructure:"WS_TICKET_SECRET"`
	WSTicketTTL    time.Duration `mapstructure:"WS_TICKET_TTL_SECONDS"`

	// Cron Jobs
	StaleVerificationJobSchedule string `mapstructure:"STALE_VERIFICATION_JOB_SCHEDULE"`
	StaleVerificationMaxAgeDays  int    `mapstructure:"STALE_VERIFICATION_MAX_AGE_DAYS"`

	// Elasticsearch Configuration (optional; empty disables search indexing)
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`

	// CORS Configuration
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "marketplace_admin_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	v.SetDefault("STORAGE_BUCKET", "verification-documents")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_ENDPOINT", "")
	// Matches the signed-URL lifetime the mobile and web clients expect.
	v.SetDefault("SIGNED_URL_EXPIRY_MINUTES", 60)

	v.SetDefault("WS_TICKET_SECRET", "")
	v.SetDefault("WS_TICKET_TTL_SECONDS", 60)

	v.SetDefault("STALE_VERIFICATION_JOB_SCHEDULE", "@daily")
	v.SetDefault("STALE_VERIFICATION_MAX_AGE_DAYS", 7)

	v.SetDefault("ELASTICSEARCH_URL", "")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields expressed as plain numbers in the environment.
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.SignedURLExpiry = time.Duration(v.GetInt("SIGNED_URL_EXPIRY_MINUTES")) * time.Minute
	cfg.WSTicketTTL = time.Duration(v.GetInt("WS_TICKET_TTL_SECONDS")) * time.Second
	cfg.CORSAllowedOrigins = strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",")

	// Basic validation for critical configs
	if strings.TrimSpace(cfg.FirebaseServiceAccountKeyPath) == "" {
		return nil, fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
	}
	if _, err := os.Stat(cfg.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", cfg.FirebaseServiceAccountKeyPath)
	}
	if strings.TrimSpace(cfg.WSTicketSecret) == "" {
		return nil, fmt.Errorf("FATAL: WS_TICKET_SECRET is not set. This is required to sign websocket tickets")
	}

	return &cfg, nil
}

// DSN renders the GORM postgres connection string from the individual DB_* parts.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}
