// Package config loads billminder settings from a YAML file, an optional .env
// file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Reminder notifiers.
const (
	NotifierLog      = "log"
	NotifierTelegram = "telegram"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig   `yaml:"server"`
	Storage   StorageConfig  `yaml:"storage"`
	Log       LogConfig      `yaml:"log"`
	Auth      AuthConfig     `yaml:"auth"`
	Billing   BillingConfig  `yaml:"billing"`
	Reminders ReminderConfig `yaml:"reminders"`
	Telegram  TelegramConfig `yaml:"telegram"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

// StorageConfig selects and configures the persistence backend
type StorageConfig struct {
	Driver        string `yaml:"driver"`         // "sqlite", "postgres", "mongo" or "memory"
	Path          string `yaml:"path"`           // SQLite database file
	DSN           string `yaml:"dsn"`            // PostgreSQL connection string
	MongoURI      string `yaml:"mongo_uri"`      // MongoDB connection string
	MongoDatabase string `yaml:"mongo_database"` // MongoDB database name
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// AuthConfig contains owner resolution settings
type AuthConfig struct {
	PrincipalHeader string `yaml:"principal_header"`
	JWTSecret       string `yaml:"jwt_secret"` // empty disables bearer tokens
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

// BillingConfig contains status evaluation settings
type BillingConfig struct {
	UTCOffsetHours int `yaml:"utc_offset_hours"`
	LookaheadDays  int `yaml:"lookahead_days"`
}

// ReminderConfig contains the scheduled reminder settings
type ReminderConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // cron spec with seconds, evaluated in the billing zone
	Notifier string `yaml:"notifier"` // "log" or "telegram"
}

// TelegramConfig contains Telegram bot settings for reminders
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                   8080,
			ShutdownTimeoutSeconds: 10,
		},
		Storage: StorageConfig{
			Driver:        DriverSQLite,
			Path:          "./data/billminder.db",
			MongoDatabase: "billminder",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Auth: AuthConfig{
			PrincipalHeader: "X-MS-CLIENT-PRINCIPAL",
			TokenTTLMinutes: 24 * 60,
		},
		Billing: BillingConfig{
			UTCOffsetHours: -5,
			LookaheadDays:  5,
		},
		Reminders: ReminderConfig{
			Schedule: "0 0 8 * * *",
			Notifier: NotifierLog,
		},
	}
}

// Load builds the configuration. configPath may be empty, in which case only
// defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		// Read config file
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse YAML over the defaults
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Override with environment variables if present
	if err := cfg.overrideWithEnv(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (".env" if none) into
// the process environment. Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() error {
	// Server
	if val := os.Getenv("HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}

	// Storage
	if val := os.Getenv("STORAGE_DRIVER"); val != "" {
		c.Storage.Driver = val
	}
	if val := os.Getenv("DB_PATH"); val != "" {
		c.Storage.Path = val
	}
	if val := os.Getenv("STORAGE_DSN"); val != "" {
		c.Storage.DSN = val
	}
	if val := os.Getenv("MONGODB_URI"); val != "" {
		c.Storage.MongoURI = val
	}
	if val := os.Getenv("MONGODB_DB"); val != "" {
		c.Storage.MongoDatabase = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Auth
	if val := os.Getenv("PRINCIPAL_HEADER"); val != "" {
		c.Auth.PrincipalHeader = val
	}
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.Auth.JWTSecret = val
	}

	// Billing
	if val := os.Getenv("BILLING_UTC_OFFSET_HOURS"); val != "" {
		offset, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("BILLING_UTC_OFFSET_HOURS: %w", err)
		}
		c.Billing.UTCOffsetHours = offset
	}

	// Reminders
	if val := os.Getenv("REMINDERS_ENABLED"); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("REMINDERS_ENABLED: %w", err)
		}
		c.Reminders.Enabled = enabled
	}
	if val := os.Getenv("REMINDER_SCHEDULE"); val != "" {
		c.Reminders.Schedule = val
	}
	if val := os.Getenv("REMINDER_NOTIFIER"); val != "" {
		c.Reminders.Notifier = val
	}

	// Telegram
	if val := os.Getenv("TELEGRAM_BOT_TOKEN"); val != "" {
		c.Telegram.Token = val
	}
	if val := os.Getenv("TELEGRAM_CHAT_ID"); val != "" {
		chatID, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = chatID
	}

	return nil
}

// ScheduleParser parses reminder schedules: six fields, seconds first, or a
// descriptor such as "@daily".
var ScheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Storage validation
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage path is required for sqlite")
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage dsn is required for postgres")
		}
	case DriverMongo:
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("mongo uri is required for mongo")
		}
		if c.Storage.MongoDatabase == "" {
			return fmt.Errorf("mongo database is required for mongo")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}

	// Log validation
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}

	// Auth validation
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("token ttl must be positive: %d", c.Auth.TokenTTLMinutes)
	}

	// Billing validation
	if c.Billing.UTCOffsetHours < -12 || c.Billing.UTCOffsetHours > 14 {
		return fmt.Errorf("invalid utc offset: %d", c.Billing.UTCOffsetHours)
	}
	if c.Billing.LookaheadDays < 0 {
		return fmt.Errorf("lookahead days must not be negative: %d", c.Billing.LookaheadDays)
	}

	// Reminder validation
	if c.Reminders.Enabled {
		if _, err := ScheduleParser.Parse(c.Reminders.Schedule); err != nil {
			return fmt.Errorf("invalid reminder schedule %q: %w", c.Reminders.Schedule, err)
		}
		switch c.Reminders.Notifier {
		case NotifierLog:
		case NotifierTelegram:
			if c.Telegram.Token == "" {
				return fmt.Errorf("telegram token is required for telegram reminders")
			}
			if c.Telegram.ChatID == 0 {
				return fmt.Errorf("telegram chat id is required for telegram reminders")
			}
		default:
			return fmt.Errorf("unknown reminder notifier: %q", c.Reminders.Notifier)
		}
	}

	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
