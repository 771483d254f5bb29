// Package history stores segmentation requests in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Manjussha/zhseg/internal/db"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("history: not found")

// Store wraps the database and provides history operations.
type Store struct {
	database *db.DB
	maxText  int
}

// New creates a Store. Texts longer than maxText characters are truncated before they are
// written; maxText <= 0 stores texts whole.
func New(database *db.DB, maxText int) *Store {
	return &Store{database: database, maxText: maxText}
}

// Record inserts s and returns its row id. Empty RequestID and zero CreatedAt are filled in,
// and the counts are derived from Text and Tokens.
func (s *Store) Record(ctx context.Context, seg *db.Segmentation) (int64, error) {
	if seg.RequestID == "" {
		seg.RequestID = uuid.NewString()
	}
	if seg.CreatedAt.IsZero() {
		seg.CreatedAt = time.Now().UTC()
	}
	if seg.Source == "" {
		seg.Source = "http"
	}
	if seg.Tokens == nil {
		seg.Tokens = []string{}
	}
	seg.TokenCount = len(seg.Tokens)
	seg.CharCount = len([]rune(seg.Text))

	tokens, err := json.Marshal(seg.Tokens)
	if err != nil {
		return 0, fmt.Errorf("history.Record: marshal tokens: %w", err)
	}

	res, err := s.database.ExecContext(ctx, `
		INSERT INTO segment_history (request_id, source, text, tokens, token_count,
		                             char_count, elapsed_us, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		seg.RequestID, seg.Source, truncate(seg.Text, s.maxText), string(tokens),
		seg.TokenCount, seg.CharCount, seg.ElapsedUS, seg.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("history.Record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history.Record: last insert id: %w", err)
	}
	seg.ID = id
	return id, nil
}

// Get fetches a record by id.
func (s *Store) Get(ctx context.Context, id int64) (*db.Segmentation, error) {
	row := s.database.QueryRowContext(ctx, `
		SELECT id, request_id, source, text, tokens, token_count, char_count, elapsed_us, created_at
		FROM segment_history WHERE id=?`, id)
	seg, err := scanSegmentation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history.Get: %w", err)
	}
	return seg, nil
}

// List returns one page of records, newest first, and the total number of records.
// page starts at 1.
func (s *Store) List(ctx context.Context, page, limit int) ([]db.Segmentation, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int
	if err := s.database.QueryRowContext(ctx, `SELECT COUNT(*) FROM segment_history`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("history.List: count: %w", err)
	}

	rows, err := s.database.QueryContext(ctx, `
		SELECT id, request_id, source, text, tokens, token_count, char_count, elapsed_us, created_at
		FROM segment_history
		ORDER BY id DESC
		LIMIT ? OFFSET ?`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("history.List: %w", err)
	}
	defer rows.Close()

	out := []db.Segmentation{}
	for rows.Next() {
		seg, err := scanSegmentation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("history.List: %w", err)
		}
		out = append(out, *seg)
	}
	return out, total, rows.Err()
}

// Clear deletes every record and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.database.ExecContext(ctx, `DELETE FROM segment_history`)
	if err != nil {
		return 0, fmt.Errorf("history.Clear: %w", err)
	}
	return res.RowsAffected()
}

// PruneBefore deletes records created before cutoff.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.database.ExecContext(ctx,
		`DELETE FROM segment_history WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("history.PruneBefore: %w", err)
	}
	return res.RowsAffected()
}

func scanSegmentation(row interface{ Scan(...any) error }) (*db.Segmentation, error) {
	var seg db.Segmentation
	var tokens string
	if err := row.Scan(
		&seg.ID, &seg.RequestID, &seg.Source, &seg.Text, &tokens,
		&seg.TokenCount, &seg.CharCount, &seg.ElapsedUS, &seg.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tokens), &seg.Tokens); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	return &seg, nil
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
