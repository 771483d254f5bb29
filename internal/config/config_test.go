package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "APP_ENV", "DB_PATH", "DICT_PATH", "SEGMENT_CACHE_SIZE", "MAX_TEXT_CHARS",
		"LEARNING_ENABLED", "LEARNING_SNAPSHOT_CRON", "HISTORY_RETENTION_DAYS", "HISTORY_MAX_TEXT",
		"ADMIN_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("WORK_DIR", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, filepath.Join(cfg.WorkDir, "zhseg.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join("dictionaries", "MASTER_DICTIONARY.txt"), cfg.DictPath)
	assert.Equal(t, 1024, cfg.SegmentCacheSize)
	assert.Equal(t, 100000, cfg.MaxTextChars)
	assert.True(t, cfg.LearningEnabled)
	assert.Equal(t, "0 */5 * * * *", cfg.LearningSnapshotCron)
	assert.Equal(t, 30, cfg.HistoryRetentionDays)
	assert.Equal(t, 10000, cfg.HistoryMaxText)
	assert.Empty(t, cfg.AdminToken)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("LEARNING_ENABLED", "false")
	t.Setenv("SEGMENT_CACHE_SIZE", "not-a-number")
	t.Setenv("TELEGRAM_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")

	cfg := Load()
	assert.Equal(t, "8081", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.LearningEnabled)
	assert.Equal(t, 1024, cfg.SegmentCacheSize)
	assert.Equal(t, int64(12345), cfg.TelegramChatID)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	cfg.Port = "0"
	cfg.MaxTextChars = 0
	cfg.TelegramToken = "tok"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "MAX_TEXT_CHARS")
	assert.Contains(t, err.Error(), "TELEGRAM_CHAT_ID")
}
