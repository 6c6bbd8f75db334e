package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"http_server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Insurance InsuranceConfig `mapstructure:"insurance"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	BaseURL      string        `mapstructure:"base_url"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	// Path of the sqlite file. The parent directory is created on startup.
	Path string `mapstructure:"path"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Configured reports whether real SMTP delivery can be attempted. Without
// credentials the mailer falls back to writing the message to disk.
func (c SMTPConfig) Configured() bool {
	return c.User != "" && c.Password != ""
}

type InsuranceConfig struct {
	// Address the batch export email is sent to.
	RecipientEmail string `mapstructure:"recipient_email"`
	MaxChildAge    int    `mapstructure:"max_child_age"`
	MaxChildren    int    `mapstructure:"max_children"`
	DataDir        string `mapstructure:"data_dir"`
	ExportsDir     string `mapstructure:"exports_dir"`
	// bcrypt hash of the admin panel password.
	AdminPasswordHash string        `mapstructure:"admin_password_hash"`
	SessionSecret     string        `mapstructure:"session_secret"`
	SessionDuration   time.Duration `mapstructure:"session_duration"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfigFromEnv builds the config from environment variables only,
// used for container deployments where no config.yml is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			BaseURL:      getEnv("SERVER_BASE_URL", "http://localhost:8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "data/seguro_complementario.db"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("FROM_EMAIL", ""),
		},
		Insurance: InsuranceConfig{
			RecipientEmail:    getEnv("INSURER_EMAIL", ""),
			MaxChildAge:       getEnvAsInt("MAX_CHILD_AGE", 25),
			MaxChildren:       getEnvAsInt("MAX_CHILDREN", 10),
			DataDir:           getEnv("DATA_DIR", "data"),
			ExportsDir:        getEnv("EXPORTS_DIR", "exports"),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			SessionSecret:     getEnv("SESSION_SECRET", ""),
			SessionDuration:   getEnvAsDuration("SESSION_DURATION", 8*time.Hour),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func (c *Config) Validate() error {
	var errs []string

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}
	if err := c.Insurance.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("insurance config: %v", err))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

// EnsureDir creates the directory holding the sqlite file.
func (c *DatabaseConfig) EnsureDir() error {
	return os.MkdirAll(filepath.Dir(c.Path), 0o755)
}

func (c *InsuranceConfig) Validate() error {
	if c.MaxChildAge <= 0 {
		return errors.New("max_child_age must be positive")
	}
	if c.SessionSecret != "" && len(c.SessionSecret) < 32 {
		return errors.New("session_secret must be at least 32 characters")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	switch c.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}
