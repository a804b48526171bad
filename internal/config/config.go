package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken       string
	Location       *time.Location
	MigrationsPath string
	Database       DatabaseConfig
	Reminder       ReminderConfig
	Quiz           QuizConfig
	// VocabRetentionDays is how long soft-deleted vocabulary is kept
	VocabRetentionDays int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// ReminderConfig holds reminder scheduler settings
type ReminderConfig struct {
	Schedule      string
	MinDueItems   int
	MaxConcurrent int
}

// QuizConfig holds quiz session settings
type QuizConfig struct {
	// IdleTimeout force-ends quizzes without answers for this long; zero disables it
	IdleTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "lexibot"),
			User:     getEnv("DB_USER", "lexibot"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Reminder: ReminderConfig{
			Schedule: getEnv("REMINDER_SCHEDULE", "@every 1m"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	tz := getEnv("BOT_TIMEZONE", "Asia/Ho_Chi_Minh")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("BOT_TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	if cfg.Reminder.MinDueItems, err = getEnvInt("REMINDER_MIN_DUE_ITEMS", 4); err != nil {
		return nil, err
	}
	if cfg.Reminder.MaxConcurrent, err = getEnvInt("REMINDER_MAX_CONCURRENT", 10); err != nil {
		return nil, err
	}
	if cfg.VocabRetentionDays, err = getEnvInt("VOCAB_RETENTION_DAYS", 60); err != nil {
		return nil, err
	}

	idle := getEnv("QUIZ_IDLE_TIMEOUT", "0")
	if cfg.Quiz.IdleTimeout, err = time.ParseDuration(idle); err != nil {
		return nil, fmt.Errorf("QUIZ_IDLE_TIMEOUT %q: %w", idle, err)
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
