// Package history records batch runs and per-item outcomes in SQLite.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vmunix/ytjar/internal/migrations"
)

// Run modes.
const (
	ModeVideo = "video"
	ModeAudio = "audio"
)

// Run is one batch invocation.
type Run struct {
	ID          string     `json:"id"`
	Mode        string     `json:"mode"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Total       int        `json:"total"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	Unavailable int        `json:"unavailable"`
	Interrupted int        `json:"interrupted"`
	Error       string     `json:"error,omitempty"` // set when the batch aborted
}

// Item is the outcome of one target within a run.
type Item struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	Position   int       `json:"position"`
	URL        string    `json:"url"`
	Status     string    `json:"status"`
	Title      string    `json:"title,omitempty"`
	Dest       string    `json:"dest,omitempty"`
	File       string    `json:"file,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store persists runs and items.
type Store struct {
	db *sql.DB
}

// NewStore creates a store on an open database. The schema must already be
// applied; see Migrate.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

// Migrate applies the embedded migrations newer than the database's
// user_version, each in its own transaction. It is idempotent.
func Migrate(db *sql.DB) error {
	ms, err := migrations.All()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var current int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&current); err != nil {
		return fmt.Errorf("migrate: read version: %w", err)
	}

	for _, m := range ms {
		if m.Version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migrate %03d_%s: %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migrate %03d_%s: %w", m.Version, m.Name, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migrate %03d_%s: %w", m.Version, m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migrate %03d_%s: %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun inserts a new run with a fresh ID.
func (s *Store) StartRun(mode string, total int) (*Run, error) {
	r := &Run{
		ID:        uuid.NewString(),
		Mode:      mode,
		StartedAt: time.Now().UTC(),
		Total:     total,
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (id, mode, started_at, total)
		VALUES (?, ?, ?, ?)`,
		r.ID, r.Mode, r.StartedAt, r.Total,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return r, nil
}

// AddItem records one item outcome.
func (s *Store) AddItem(it *Item) error {
	now := time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO items (run_id, position, url, status, title, dest, file, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.RunID, it.Position, it.URL, it.Status, it.Title, it.Dest, it.File, it.Error, it.DurationMS, now,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	it.ID = id
	it.CreatedAt = now
	return nil
}

// FinishRun stores the final counters of r and stamps it finished.
func (s *Store) FinishRun(r *Run) error {
	now := time.Now().UTC()
	result, err := s.db.Exec(`
		UPDATE runs
		SET finished_at = ?, total = ?, succeeded = ?, failed = ?, unavailable = ?, interrupted = ?, error = ?
		WHERE id = ?`,
		now, r.Total, r.Succeeded, r.Failed, r.Unavailable, r.Interrupted, r.Error, r.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	r.FinishedAt = &now
	return nil
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`
		SELECT id, mode, started_at, finished_at, total, succeeded, failed, unavailable, interrupted, error
		FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// ListRuns returns runs, most recent first. A limit <= 0 returns all.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	query := `SELECT id, mode, started_at, finished_at, total, succeeded, failed, unavailable, interrupted, error
		FROM runs ORDER BY started_at DESC, rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Items returns the items of a run in input order.
func (s *Store) Items(runID string) ([]*Item, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, position, url, status, title, dest, file, error, duration_ms, created_at
		FROM items WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*Item
	for rows.Next() {
		it := &Item{}
		if err := rows.Scan(&it.ID, &it.RunID, &it.Position, &it.URL, &it.Status, &it.Title,
			&it.Dest, &it.File, &it.Error, &it.DurationMS, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	r := &Run{}
	var finished sql.NullTime
	if err := row.Scan(&r.ID, &r.Mode, &r.StartedAt, &finished, &r.Total, &r.Succeeded,
		&r.Failed, &r.Unavailable, &r.Interrupted, &r.Error); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if finished.Valid {
		t := finished.Time
		r.FinishedAt = &t
	}
	return r, nil
}
