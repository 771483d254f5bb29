package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manjussha/zhseg/internal/db"
	"github.com/Manjussha/zhseg/internal/history"
	"github.com/Manjussha/zhseg/internal/learning"
	"github.com/Manjussha/zhseg/internal/metrics"
)

func newEngine(t *testing.T, table *learning.Table, retentionDays int) (*Engine, *db.DB, *history.Store) {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "zhseg_test_scheduler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Migrate())

	hist := history.New(database, 0)
	m := metrics.MustNewMetrics(prometheus.NewRegistry())
	return New(database, table, hist, m, retentionDays), database, hist
}

func TestEngine_SnapshotAndRestore(t *testing.T) {
	table := learning.NewTable()
	table.Observe([]string{"回答", "问题", "问题"})

	e, database, _ := newEngine(t, table, 0)
	ctx := context.Background()

	n, err := e.RunSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stamp, err := database.Setting(ctx, db.SettingLastSnapshot)
	require.NoError(t, err)
	assert.NotEmpty(t, stamp)

	fresh := learning.NewTable()
	e2 := New(database, fresh, nil, nil, 0)
	n, err = e2.RestoreLearning(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.InDelta(t, 0.10, fresh.Weight("问题"), 1e-12)
}

func TestEngine_NoTable(t *testing.T) {
	e, _, _ := newEngine(t, nil, 0)
	n, err := e.RunSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEngine_Prune(t *testing.T) {
	e, _, hist := newEngine(t, nil, 30)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := hist.Record(ctx, &db.Segmentation{Text: "old", CreatedAt: now.AddDate(0, 0, -40)})
	require.NoError(t, err)
	_, err = hist.Record(ctx, &db.Segmentation{Text: "new", CreatedAt: now})
	require.NoError(t, err)

	n, err := e.RunPrune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, total, err := hist.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestEngine_StartRegistersJobs(t *testing.T) {
	e, _, _ := newEngine(t, learning.NewTable(), 30)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, e.Start(ctx, "0 */5 * * * *"))
	assert.False(t, e.Next(JobSnapshot).IsZero())
	assert.False(t, e.Next(JobPrune).IsZero())
	assert.True(t, e.Next("unknown").IsZero())
}

func TestEngine_StartRejectsBadSpec(t *testing.T) {
	e, _, _ := newEngine(t, learning.NewTable(), 0)
	err := e.Start(context.Background(), "not a cron")
	assert.Error(t, err)
}
