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
	Session  SessionConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// SessionConfig holds the engine's session, schedule and resolution settings.
type SessionConfig struct {
	StorePath            string
	Timezone             string
	DefaultScheduleHours int
	LunchBreakMinutes    int
	OvertimePolicy       string
	StalePointThreshold  time.Duration
}

func Load() (*Config, error) {
	// A missing .env is fine; environment variables may be set directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "chronotrack"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Session engine configuration
	scheduleHours, err := strconv.Atoi(getEnv("DEFAULT_SCHEDULE_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_SCHEDULE_HOURS: %w", err)
	}

	lunchMinutes, err := strconv.Atoi(getEnv("LUNCH_BREAK_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid LUNCH_BREAK_MINUTES: %w", err)
	}

	staleThreshold, err := time.ParseDuration(getEnv("STALE_POINT_THRESHOLD", "4h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STALE_POINT_THRESHOLD: %w", err)
	}

	config.Session = SessionConfig{
		StorePath:            getEnv("SESSION_STORE_PATH", "./data/sessions"),
		Timezone:             getEnv("TIMEZONE", "UTC"),
		DefaultScheduleHours: scheduleHours,
		LunchBreakMinutes:    lunchMinutes,
		OvertimePolicy:       getEnv("OVERTIME_POLICY", "threshold"),
		StalePointThreshold:  staleThreshold,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Session.DefaultScheduleHours < 1 || c.Session.DefaultScheduleHours > 12 {
		return fmt.Errorf("DEFAULT_SCHEDULE_HOURS must be between 1 and 12")
	}
	if c.Session.OvertimePolicy != "threshold" && c.Session.OvertimePolicy != "continuation" {
		return fmt.Errorf("OVERTIME_POLICY must be threshold or continuation")
	}
	if _, err := time.LoadLocation(c.Session.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
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
