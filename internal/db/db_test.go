package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "zhseg_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Migrate())
	return database
}

func TestMigrate_Idempotent(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, database.Migrate())

	v, err := database.Setting(context.Background(), "schema_version")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestSettings(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	v, err := database.Setting(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, database.SetSetting(ctx, SettingLastSnapshot, "a"))
	require.NoError(t, database.SetSetting(ctx, SettingLastSnapshot, "b"))
	v, err = database.Setting(ctx, SettingLastSnapshot)
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestWeights_SaveReplacesAll(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.SaveWeights(ctx, map[string]float64{"回答": 0.1, "问题": 0.25}))
	require.NoError(t, database.SaveWeights(ctx, map[string]float64{"问题": 0.3}))

	got, err := database.LoadWeights(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"问题": 0.3}, got)
}

func TestWeights_Empty(t *testing.T) {
	database := newTestDB(t)
	got, err := database.LoadWeights(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
