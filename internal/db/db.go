// Package db provides the SQLite database wrapper and model types for zhseg.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps *sql.DB and provides migration support.
type DB struct {
	*sql.DB
}

// New opens a SQLite connection with WAL mode and foreign keys enabled.
// Driver name is "sqlite" (modernc.org/sqlite, not mattn/go-sqlite3).
func New(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_journal=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("db.New: open: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("db.New: ping: %w", err)
	}
	// Limit to 1 writer at a time to avoid SQLITE_BUSY in WAL mode.
	sqlDB.SetMaxOpenConns(1)
	return &DB{sqlDB}, nil
}

// Migrate runs all CREATE TABLE IF NOT EXISTS migrations exactly once per schema version.
func (d *DB) Migrate() error {
	if _, err := d.Exec(ddlSettings); err != nil {
		return fmt.Errorf("db.Migrate: settings table: %w", err)
	}

	// INSERT OR IGNORE never overwrites existing values.
	defaults := []struct{ k, v string }{
		{SettingLastSnapshot, ""},
		{SettingLastPrune, ""},
	}
	for _, s := range defaults {
		if _, err := d.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, s.k, s.v); err != nil {
			return fmt.Errorf("db.Migrate: seed setting %q: %w", s.k, err)
		}
	}

	var version int
	row := d.QueryRow(`SELECT value FROM settings WHERE key='schema_version' LIMIT 1`)
	_ = row.Scan(&version) // row may not exist yet (version=0).

	if version >= schemaVersion {
		return nil
	}

	for _, ddl := range []string{ddlSegmentHistory, ddlHistoryCreatedIdx, ddlLearnedWeights} {
		if _, err := d.Exec(ddl); err != nil {
			return fmt.Errorf("db.Migrate: %w", err)
		}
	}

	_, err := d.Exec(`INSERT INTO settings (key, value) VALUES ('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, schemaVersion)
	if err != nil {
		return fmt.Errorf("db.Migrate: schema_version upsert: %w", err)
	}
	return nil
}

const schemaVersion = 1

// Setting keys written by the scheduler.
const (
	SettingLastSnapshot = "learning_last_snapshot"
	SettingLastPrune    = "history_last_prune"
)

// Setting returns the value stored under key, or "" when it is missing.
func (d *DB) Setting(ctx context.Context, key string) (string, error) {
	var v string
	err := d.QueryRowContext(ctx, `SELECT value FROM settings WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("db.Setting: %w", err)
	}
	return v, nil
}

// SetSetting upserts a setting.
func (d *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := d.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("db.SetSetting: %w", err)
	}
	return nil
}

// SaveWeights replaces the stored learning table with weights in one transaction.
func (d *DB) SaveWeights(ctx context.Context, weights map[string]float64) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.SaveWeights: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM learned_weights`); err != nil {
		return fmt.Errorf("db.SaveWeights: clear: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO learned_weights (word, weight, updated_at) VALUES (?,?,?)`)
	if err != nil {
		return fmt.Errorf("db.SaveWeights: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for word, w := range weights {
		if _, err := stmt.ExecContext(ctx, word, w, now); err != nil {
			return fmt.Errorf("db.SaveWeights: insert %q: %w", word, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db.SaveWeights: commit: %w", err)
	}
	return nil
}

// LoadWeights returns the stored learning table.
func (d *DB) LoadWeights(ctx context.Context) (map[string]float64, error) {
	rows, err := d.QueryContext(ctx, `SELECT word, weight FROM learned_weights`)
	if err != nil {
		return nil, fmt.Errorf("db.LoadWeights: %w", err)
	}
	defer rows.Close()

	weights := make(map[string]float64)
	for rows.Next() {
		var word string
		var w float64
		if err := rows.Scan(&word, &w); err != nil {
			return nil, fmt.Errorf("db.LoadWeights: scan: %w", err)
		}
		weights[word] = w
	}
	return weights, rows.Err()
}

// ── Model Types ──────────────────────────────────────────────────────────────

// Segmentation is one stored segmentation request.
type Segmentation struct {
	ID         int64     `json:"id"`
	RequestID  string    `json:"request_id"`
	Source     string    `json:"source"`
	Text       string    `json:"text"`
	Tokens     []string  `json:"tokens"`
	TokenCount int       `json:"token_count"`
	CharCount  int       `json:"char_count"`
	ElapsedUS  int64     `json:"elapsed_us"`
	CreatedAt  time.Time `json:"created_at"`
}

// ── DDL Statements ───────────────────────────────────────────────────────────

const ddlSettings = `CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);`

const ddlSegmentHistory = `CREATE TABLE IF NOT EXISTS segment_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id  TEXT    NOT NULL UNIQUE,
	source      TEXT    NOT NULL DEFAULT 'http',
	text        TEXT    NOT NULL,
	tokens      TEXT    NOT NULL DEFAULT '[]',
	token_count INTEGER NOT NULL DEFAULT 0,
	char_count  INTEGER NOT NULL DEFAULT 0,
	elapsed_us  INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);`

const ddlHistoryCreatedIdx = `CREATE INDEX IF NOT EXISTS idx_segment_history_created
	ON segment_history(created_at);`

const ddlLearnedWeights = `CREATE TABLE IF NOT EXISTS learned_weights (
	word       TEXT PRIMARY KEY,
	weight     REAL NOT NULL DEFAULT 0,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`
