package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                   string
	DatabaseURL            string
	RedisURL               string
	JWTSecret              string
	TokenTTL               time.Duration
	DataEncryptionKey      string
	Environment            string
	LogLevel               string
	MFAIssuer              string
	SeedAdminName          string
	SeedAdminEmail         string
	SeedAdminPassword      string
	SeedSuperAdminEmail    string
	SeedSuperAdminPassword string
	RunMigrations          bool
	RunSeed                bool
	MaxBodyBytes           int64
	RateLimitPerMinute     int
	RecordLockTTL          time.Duration
	ShutdownTimeout        time.Duration
	MetricsEnabled         bool
	MaintenanceInterval    time.Duration
	IdempotencyKeyTTL      time.Duration
	NotificationRetention  time.Duration
}

// Load reads an optional .env file (ENV_FILE, default ".env") and then the
// process environment. Variables already set in the environment win.
func Load() Config {
	envFile := getEnv("ENV_FILE", ".env")
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	return Config{
		Addr:                   getEnv("APP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		TokenTTL:               getEnvDuration("TOKEN_TTL", 8*time.Hour),
		DataEncryptionKey:      getEnv("DATA_ENCRYPTION_KEY", ""),
		Environment:            getEnv("APP_ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		MFAIssuer:              getEnv("MFA_ISSUER", "HR Portal"),
		SeedAdminName:          getEnv("SEED_ADMIN_NAME", "Administrator"),
		SeedAdminEmail:         getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:      getEnv("SEED_ADMIN_PASSWORD", ""),
		SeedSuperAdminEmail:    getEnv("SEED_SUPER_ADMIN_EMAIL", ""),
		SeedSuperAdminPassword: getEnv("SEED_SUPER_ADMIN_PASSWORD", ""),
		RunMigrations:          getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:                getEnvBool("RUN_SEED", true),
		MaxBodyBytes:           int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:     getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RecordLockTTL:          getEnvDuration("RECORD_LOCK_TTL", 10*time.Second),
		ShutdownTimeout:        getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		MetricsEnabled:         getEnvBool("METRICS_ENABLED", true),
		MaintenanceInterval:    getEnvDuration("MAINTENANCE_INTERVAL", time.Hour),
		IdempotencyKeyTTL:      getEnvDuration("IDEMPOTENCY_KEY_TTL", 24*time.Hour),
		NotificationRetention:  getEnvDuration("NOTIFICATION_RETENTION", 90*24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for MFA secret encryption")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
