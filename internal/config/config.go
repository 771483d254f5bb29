// Package config loads daemon configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Manjussha/zhseg/internal/platform"
)

// Config holds all runtime configuration for zhseg.
type Config struct {
	Port    string
	AppEnv  string
	WorkDir string
	DBPath  string

	DictPath         string
	SegmentCacheSize int
	MaxTextChars     int

	LearningEnabled      bool
	LearningSnapshotCron string

	HistoryRetentionDays int
	HistoryMaxText       int

	AdminToken string

	TelegramToken  string
	TelegramChatID int64
}

// Load reads a .env file (if present) and environment variables and returns a Config.
// Uses sensible defaults for optional fields.
func Load() *Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	workDir := getEnv("WORK_DIR", platform.DefaultWorkDir())

	chatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)

	return &Config{
		Port:    getEnv("PORT", "5000"),
		AppEnv:  strings.ToLower(getEnv("APP_ENV", "development")),
		WorkDir: workDir,
		DBPath:  getEnv("DB_PATH", filepath.Join(workDir, "zhseg.db")),

		DictPath:         getEnv("DICT_PATH", filepath.Join("dictionaries", "MASTER_DICTIONARY.txt")),
		SegmentCacheSize: getEnvInt("SEGMENT_CACHE_SIZE", 1024),
		MaxTextChars:     getEnvInt("MAX_TEXT_CHARS", 100000),

		LearningEnabled:      getEnvBool("LEARNING_ENABLED", true),
		LearningSnapshotCron: getEnv("LEARNING_SNAPSHOT_CRON", "0 */5 * * * *"),

		HistoryRetentionDays: getEnvInt("HISTORY_RETENTION_DAYS", 30),
		HistoryMaxText:       getEnvInt("HISTORY_MAX_TEXT", 10000),

		AdminToken: os.Getenv("ADMIN_TOKEN"),

		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: chatID,
	}
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks values that would make the daemon misbehave.
func (c *Config) Validate() error {
	var errs []error
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT %q is not a valid port", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH is required"))
	}
	if c.DictPath == "" {
		errs = append(errs, errors.New("DICT_PATH is required"))
	}
	if c.MaxTextChars <= 0 {
		errs = append(errs, fmt.Errorf("MAX_TEXT_CHARS must be positive, got %d", c.MaxTextChars))
	}
	if c.SegmentCacheSize < 0 {
		errs = append(errs, fmt.Errorf("SEGMENT_CACHE_SIZE must not be negative, got %d", c.SegmentCacheSize))
	}
	if c.HistoryRetentionDays < 0 {
		errs = append(errs, fmt.Errorf("HISTORY_RETENTION_DAYS must not be negative, got %d", c.HistoryRetentionDays))
	}
	if c.HistoryMaxText < 0 {
		errs = append(errs, fmt.Errorf("HISTORY_MAX_TEXT must not be negative, got %d", c.HistoryMaxText))
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		errs = append(errs, errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
