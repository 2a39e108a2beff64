package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps revisions in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ RevisionStore = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the revision database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating storage dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening revision db: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS workout_revisions (
		id          TEXT PRIMARY KEY,
		workout_id  TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		sets        TEXT NOT NULL,
		reason      TEXT NOT NULL,
		created_at  INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating revisions table: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_workout_revisions_workout
		ON workout_revisions (workout_id, created_at)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating revisions index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveRevision(ctx context.Context, rev *Revision) error {
	prepare(rev)
	sets, err := json.Marshal(rev.Sets)
	if err != nil {
		return fmt.Errorf("encoding revision sets: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO workout_revisions (id, workout_id, title, description, sets, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rev.ID.String(), rev.WorkoutID, rev.Title, rev.Description, string(sets), rev.Reason, rev.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting revision: %w", err)
	}
	return nil
}

const sqliteColumns = `id, workout_id, title, description, sets, reason, created_at`

func (s *SQLiteStore) ListRevisions(ctx context.Context, workoutID string, limit int) ([]Revision, error) {
	return s.query(ctx,
		`SELECT `+sqliteColumns+` FROM workout_revisions
		 WHERE workout_id = ? ORDER BY created_at DESC LIMIT ?`,
		workoutID, limit)
}

func (s *SQLiteStore) ListRevisionsByTitle(ctx context.Context, title string, limit int) ([]Revision, error) {
	return s.query(ctx,
		`SELECT `+sqliteColumns+` FROM workout_revisions
		 WHERE lower(title) = lower(?) ORDER BY created_at DESC LIMIT ?`,
		title, limit)
}

func (s *SQLiteStore) GetRevision(ctx context.Context, id uuid.UUID) (*Revision, error) {
	revs, err := s.query(ctx,
		`SELECT `+sqliteColumns+` FROM workout_revisions WHERE id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return nil, ErrRevisionNotFound
	}
	return &revs[0], nil
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying revisions: %w", err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var (
			rev     Revision
			id      string
			sets    string
			created int64
		)
		if err := rows.Scan(&id, &rev.WorkoutID, &rev.Title, &rev.Description, &sets, &rev.Reason, &created); err != nil {
			return nil, fmt.Errorf("scanning revision: %w", err)
		}
		if rev.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing revision id %q: %w", id, err)
		}
		if err := json.Unmarshal([]byte(sets), &rev.Sets); err != nil {
			return nil, fmt.Errorf("decoding revision sets: %w", err)
		}
		rev.CreatedAt = time.Unix(0, created).UTC()
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating revisions: %w", err)
	}
	return revs, nil
}

// Close closes the revision database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
