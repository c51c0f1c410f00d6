package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// devJWTSecret is only ever used outside production when JWT_SECRET is unset.
const devJWTSecret = "municipalink_development_secret_change_me"

// Config holds all application configuration
type Config struct {
	// Database config
	DBDriver    string `validate:"oneof=postgres sqlite sqlite3"`
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DBPath      string // SQLite database file path
	DatabaseURL string

	// Pool config
	DBMaxOpenConns           int `validate:"gte=0"`
	DBMaxIdleConns           int `validate:"gte=0"`
	DBConnMaxLifetimeMinutes int `validate:"gte=0"`

	// Auth config
	JWTSecret        string `validate:"required"`
	JWTExpiryHours   int    `validate:"gt=0"`
	DemoLoginEnabled bool
	AdminEmail       string `validate:"omitempty,email"`
	AdminPassword    string

	// App config
	Port          string `validate:"required,numeric"`
	Environment   string `validate:"oneof=development test staging production"`
	CORSOrigin    string `validate:"required,url"`
	SweepSchedule string
	LogLevel      string
}

var AppConfig Config

var validate = validator.New()

// InitConfig initializes the application configuration
func InitConfig() {
	env := strings.ToLower(getEnv("ENVIRONMENT", "development"))

	AppConfig = Config{
		DBDriver:                 strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:                   getEnv("DB_HOST", "localhost"),
		DBPort:                   getEnv("DB_PORT", "5432"),
		DBUser:                   getEnv("DB_USER", "postgres"),
		DBPassword:               getEnv("DB_PASSWORD", "postgres"),
		DBName:                   getEnv("DB_NAME", "municipal_link"),
		DBSSLMode:                getEnv("DB_SSLMODE", "disable"),
		DBPath:                   getEnv("DB_PATH", "./data/municipal_link.db"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		DBMaxOpenConns:           getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:           getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetimeMinutes: getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 30),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		JWTExpiryHours:           getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		DemoLoginEnabled:         getEnvAsBool("DEMO_LOGIN_ENABLED", false),
		AdminEmail:               getEnv("ADMIN_EMAIL", ""),
		AdminPassword:            getEnv("ADMIN_PASSWORD", ""),
		Port:                     getEnv("PORT", "5000"),
		Environment:              env,
		CORSOrigin:               getEnv("CORS_ORIGIN", "http://localhost:8080"),
		SweepSchedule:            getEnv("SWEEP_SCHEDULE", "@hourly"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
	}

	if AppConfig.JWTSecret == "" && env != "production" {
		AppConfig.JWTSecret = devJWTSecret
	}
}

// Validate checks the loaded configuration. Production refuses weak
// secrets and the demo login.
func Validate() error {
	if err := validate.Struct(AppConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if IsProduction() {
		if len(AppConfig.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if AppConfig.DemoLoginEnabled {
			return errors.New("DEMO_LOGIN_ENABLED cannot be set in production")
		}
	}
	return nil
}

// Helper function to get environment variable with fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get integer environment variable with fallback
func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// GetJWTExpiration returns JWT expiration time
func GetJWTExpiration() time.Duration {
	return time.Duration(AppConfig.JWTExpiryHours) * time.Hour
}

// GetConnMaxLifetime returns the pool connection lifetime
func GetConnMaxLifetime() time.Duration {
	return time.Duration(AppConfig.DBConnMaxLifetimeMinutes) * time.Minute
}

// IsDevelopment returns true if the application is running in development mode
func IsDevelopment() bool {
	return AppConfig.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func IsProduction() bool {
	return AppConfig.Environment == "production"
}

// DemoLoginAllowed reports whether the fixture credentials may bypass the
// user table.
func DemoLoginAllowed() bool {
	return AppConfig.DemoLoginEnabled && !IsProduction()
}
