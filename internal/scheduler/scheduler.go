// Package scheduler wraps robfig/cron to run periodic maintenance: learning-table snapshots
// and history retention.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Manjussha/zhseg/internal/db"
	"github.com/Manjussha/zhseg/internal/history"
	"github.com/Manjussha/zhseg/internal/learning"
	"github.com/Manjussha/zhseg/internal/metrics"
)

// Job names.
const (
	JobSnapshot = "learning_snapshot"
	JobPrune    = "history_prune"
)

// PruneSpec runs the retention job daily at 03:00.
const PruneSpec = "0 0 3 * * *"

// Engine manages the cron scheduler.
type Engine struct {
	cron      *cron.Cron
	database  *db.DB
	table     *learning.Table
	history   *history.Store
	metrics   *metrics.Metrics
	retention time.Duration
	entries   map[string]cron.EntryID
	now       func() time.Time
}

// New creates a new cron-based Engine. table may be nil when learning is disabled;
// retentionDays <= 0 disables pruning.
func New(database *db.DB, table *learning.Table, hist *history.Store, m *metrics.Metrics, retentionDays int) *Engine {
	return &Engine{
		cron:      cron.New(cron.WithSeconds()),
		database:  database,
		table:     table,
		history:   hist,
		metrics:   m,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		entries:   make(map[string]cron.EntryID),
		now:       time.Now,
	}
}

// Start registers the jobs and begins the cron engine. It stops when ctx ends; running jobs
// are allowed to finish.
func (e *Engine) Start(ctx context.Context, snapshotSpec string) error {
	if e.table != nil {
		if err := e.addJob(JobSnapshot, snapshotSpec, func(ctx context.Context) error {
			_, err := e.RunSnapshot(ctx)
			return err
		}); err != nil {
			return fmt.Errorf("scheduler.Start: %w", err)
		}
	}
	if e.retention > 0 {
		if err := e.addJob(JobPrune, PruneSpec, func(ctx context.Context) error {
			_, err := e.RunPrune(ctx)
			return err
		}); err != nil {
			return fmt.Errorf("scheduler.Start: %w", err)
		}
	}
	e.cron.Start()
	go func() {
		<-ctx.Done()
		<-e.cron.Stop().Done()
	}()
	return nil
}

func (e *Engine) addJob(name, spec string, run func(context.Context) error) error {
	entryID, err := e.cron.AddFunc(spec, func() {
		if err := run(context.Background()); err != nil {
			log.Printf("scheduler: job %s: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler.addJob %s: parse cron %q: %w", name, spec, err)
	}
	e.entries[name] = entryID
	return nil
}

// Next returns the next run time of a registered job, zero if it is not scheduled.
func (e *Engine) Next(name string) time.Time {
	entryID, ok := e.entries[name]
	if !ok {
		return time.Time{}
	}
	return e.cron.Entry(entryID).Next
}

// RestoreLearning loads the persisted learning table into memory.
func (e *Engine) RestoreLearning(ctx context.Context) (int, error) {
	if e.table == nil {
		return 0, nil
	}
	weights, err := e.database.LoadWeights(ctx)
	if err != nil {
		return 0, fmt.Errorf("scheduler.RestoreLearning: %w", err)
	}
	e.table.Restore(weights)
	e.metrics.SetLearnedWords(e.table.Len())
	return e.table.Len(), nil
}

// RunSnapshot persists the learning table and returns the number of words written.
func (e *Engine) RunSnapshot(ctx context.Context) (int, error) {
	if e.table == nil {
		return 0, nil
	}
	weights := e.table.Snapshot()
	err := e.database.SaveWeights(ctx, weights)
	if err == nil {
		err = e.database.SetSetting(ctx, db.SettingLastSnapshot, e.now().UTC().Format(time.RFC3339))
	}
	e.metrics.IncSnapshot(err)
	if err != nil {
		return 0, fmt.Errorf("scheduler.RunSnapshot: %w", err)
	}
	e.metrics.SetLearnedWords(len(weights))
	return len(weights), nil
}

// RunPrune deletes history older than the retention window.
func (e *Engine) RunPrune(ctx context.Context) (int64, error) {
	if e.retention <= 0 {
		return 0, nil
	}
	n, err := e.history.PruneBefore(ctx, e.now().Add(-e.retention))
	if err != nil {
		return 0, fmt.Errorf("scheduler.RunPrune: %w", err)
	}
	if err := e.database.SetSetting(ctx, db.SettingLastPrune, e.now().UTC().Format(time.RFC3339)); err != nil {
		return n, fmt.Errorf("scheduler.RunPrune: %w", err)
	}
	if n > 0 {
		log.Printf("scheduler: pruned %d history records", n)
	}
	return n, nil
}
