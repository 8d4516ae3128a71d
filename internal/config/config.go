// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL used for links and redirects.
	BaseURL string

	// Database holds MariaDB connection settings.
	Database DatabaseConfig

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Auth holds authentication-related settings.
	Auth AuthConfig

	// AI holds generative-content service settings.
	AI AIConfig

	// ImageHost holds S3 image hosting settings.
	ImageHost ImageHostConfig
}

// DatabaseConfig holds MariaDB connection parameters. Individual fields
// (Host, User, Password, Name) are read from separate env vars so container
// orchestrators can manage each independently. If DATABASE_URL is set, it
// takes precedence over the individual fields.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format (default: "localhost:3306").
	// If no port is specified, 3306 is appended automatically.
	Host string

	// User is the MariaDB username (default: "blog").
	User string

	// Password is the MariaDB password (default: "blog").
	Password string

	// Name is the database name (default: "blog").
	Name string

	// MigrationsPath is the directory holding SQL migration files.
	MigrationsPath string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	// MaxOpenConns is the maximum number of open connections in the pool.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// ConnMaxLifetime is how long a connection can be reused.
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built from the individual
// Host/User/Password/Name fields using the driver's Config.FormatDSN()
// to safely handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	// Report matched rows, not changed rows. An UPDATE that writes identical
	// values must still count as finding the row.
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
// Allows users to set DB_HOST=mydb (gets :3306) or DB_HOST=mydb:3307 (as-is).
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// SessionTTL is how long admin sessions last before expiring.
	SessionTTL time.Duration

	// AdminEmail is the bootstrap admin account email. Only used on first
	// startup when the users table is empty.
	AdminEmail string

	// AdminPassword is the bootstrap admin account password.
	AdminPassword string
}

// AIConfig holds generative-content service settings.
type AIConfig struct {
	// APIKey is the Gemini API key. AI features are disabled when empty.
	APIKey string

	// Model is the Gemini model name (default: "gemini-2.0-flash").
	Model string

	// Timeout bounds each generation request.
	Timeout time.Duration
}

// ImageHostConfig holds S3 image hosting settings.
type ImageHostConfig struct {
	// Bucket is the S3 bucket name for uploaded cover images.
	Bucket string

	// Region is the AWS region of the bucket.
	Region string

	// PublicBaseURL is the URL prefix under which uploaded objects are
	// publicly reachable (e.g. a CloudFront distribution or the bucket's
	// website endpoint).
	PublicBaseURL string

	// MaxSize is the maximum upload file size in bytes.
	MaxSize int64
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Env:     getEnv("ENV", "development"),
		Port:    getEnvInt("PORT", 8080),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost:3306"),
			User:            getEnv("DB_USER", "blog"),
			Password:        getEnv("DB_PASSWORD", "blog"),
			Name:            getEnv("DB_NAME", "blog"),
			MigrationsPath:  getEnv("DB_MIGRATIONS_PATH", "./migrations"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Auth: AuthConfig{
			SessionTTL:    getEnvDuration("SESSION_TTL", 720*time.Hour),
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},

		AI: AIConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout: getEnvDuration("GEMINI_TIMEOUT", 60*time.Second),
		},

		ImageHost: ImageHostConfig{
			Bucket:        getEnv("S3_BUCKET", ""),
			Region:        getEnv("S3_REGION", "us-east-1"),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
			MaxSize:       getEnvInt64("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		},
	}

	// Validate required fields in production. Case-insensitive check catches
	// common variants like "Production", "prod", etc.
	envLower := strings.ToLower(cfg.Env)
	if envLower == "production" || envLower == "prod" {
		if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPassword == "" {
			return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD are required in production")
		}
		if len(cfg.Auth.AdminPassword) < 12 {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be at least 12 characters in production")
		}
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvInt64 reads an int64 env var or returns the default.
func getEnvInt64(key string, defaultVal int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "720h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
