package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Content modeling configuration
	Content ContentConfig

	// Scheduled publishing configuration
	Scheduler SchedulerConfig

	// Media library configuration
	Media MediaConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string        `env:"DB_HOST" env-default:"localhost"`
	Port           string        `env:"DB_PORT" env-default:"5432"`
	User           string        `env:"DB_USER" env-default:"postgres"`
	Password       string        `env:"DB_PASSWORD" env-default:"postgres"`
	Name           string        `env:"DB_NAME" env-default:"content_cms"`
	SSLMode        string        `env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns   int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns   int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxLifetime    time.Duration `env:"DB_MAX_LIFETIME" env-default:"5m"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" env-default:"./migrations"`
}

// ContentConfig holds entry listing and slug settings
type ContentConfig struct {
	DefaultPageSize int    `env:"CONTENT_DEFAULT_PAGE_SIZE" env-default:"10"`
	MaxPageSize     int    `env:"CONTENT_MAX_PAGE_SIZE" env-default:"100"`
	SlugMaxAttempts int    `env:"SLUG_MAX_ATTEMPTS" env-default:"5"`
	BulkActionsFile string `env:"BULK_ACTIONS_FILE"`
}

// SchedulerConfig holds scheduled publishing settings
type SchedulerConfig struct {
	Enabled  bool          `env:"SCHEDULER_ENABLED" env-default:"false"`
	Interval time.Duration `env:"SCHEDULER_INTERVAL" env-default:"30s"`
}

// MediaConfig holds blob storage settings
type MediaConfig struct {
	Backend       string `env:"MEDIA_BACKEND" env-default:"fs"` // "fs" or "s3"
	FSDir         string `env:"MEDIA_FS_DIR" env-default:"./data/media"`
	MaxUploadSize int64  `env:"MEDIA_MAX_UPLOAD_SIZE" env-default:"26214400"` // 25MB
	URLPrefix     string `env:"MEDIA_URL_PREFIX" env-default:"/v1/media"`

	S3 S3Config
}

// S3Config holds S3-compatible bucket settings
type S3Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION" env-default:"us-east-1"`
	Endpoint        string `env:"S3_ENDPOINT"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"` // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Content.DefaultPageSize <= 0 || c.Content.MaxPageSize < c.Content.DefaultPageSize {
		return fmt.Errorf("CONTENT_DEFAULT_PAGE_SIZE must be positive and not exceed CONTENT_MAX_PAGE_SIZE")
	}
	switch c.Media.Backend {
	case "fs":
		if c.Media.FSDir == "" {
			return fmt.Errorf("MEDIA_FS_DIR is required for the fs media backend")
		}
	case "s3":
		if c.Media.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 media backend")
		}
	default:
		return fmt.Errorf("MEDIA_BACKEND must be one of: fs, s3")
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		return fmt.Errorf("SCHEDULER_INTERVAL must be positive")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
