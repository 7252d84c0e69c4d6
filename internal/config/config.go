// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Storage drivers understood by storage.Open.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds all runtime settings.
type Config struct {
	TelegramToken string `validate:"required"`

	StorageDriver string `validate:"oneof=json sqlite3 postgres"`
	DataFile      string `validate:"required_if=StorageDriver json"`
	DatabaseDSN   string `validate:"required_unless=StorageDriver json"`

	LogMode  string `validate:"oneof=dev development prod production"`
	Timezone string `validate:"required"`

	SchedulerEnabled bool
	// Reminders go out only between these hours (inclusive) in Timezone.
	NotificationStartHour int           `validate:"min=0,max=23"`
	NotificationEndHour   int           `validate:"min=0,max=23,gtefield=NotificationStartHour"`
	ReminderInterval      time.Duration `validate:"min=1m"`

	location *time.Location
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		StorageDriver:         DriverJSON,
		DataFile:              "data/data.json",
		DatabaseDSN:           "data/reviewbot.db",
		LogMode:               "dev",
		Timezone:              "UTC",
		SchedulerEnabled:      true,
		NotificationStartHour: 8,
		NotificationEndHour:   22,
		ReminderInterval:      time.Hour,
		location:              time.UTC,
	}
}

// Load reads envFiles (".env" when none are given) into the process
// environment without overriding variables already set, then builds and
// validates a Config. Missing env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	cfg := Default()
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.StorageDriver = getEnv("STORAGE_DRIVER", cfg.StorageDriver)
	cfg.DataFile = getEnv("DATA_FILE", cfg.DataFile)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.LogMode = getEnv("LOG_MODE", cfg.LogMode)
	cfg.Timezone = getEnv("TIMEZONE", cfg.Timezone)

	var err error
	if cfg.SchedulerEnabled, err = getBool("ENABLE_SCHEDULER", cfg.SchedulerEnabled); err != nil {
		return nil, err
	}
	if cfg.NotificationStartHour, err = getInt("NOTIFICATION_START_HOUR", cfg.NotificationStartHour); err != nil {
		return nil, err
	}
	if cfg.NotificationEndHour, err = getInt("NOTIFICATION_END_HOUR", cfg.NotificationEndHour); err != nil {
		return nil, err
	}
	if cfg.ReminderInterval, err = getDuration("REMINDER_INTERVAL", cfg.ReminderInterval); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and resolves Timezone.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// Location is the zone in which calendar days are counted.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
