package storage

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore keeps revisions in PostgreSQL for shared deployments.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

var _ RevisionStore = (*PostgresStore)(nil)

// OpenPostgres creates a connection pool and checks it is reachable.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{Pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("opening migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveRevision(ctx context.Context, rev *Revision) error {
	prepare(rev)
	sets, err := json.Marshal(rev.Sets)
	if err != nil {
		return fmt.Errorf("encoding revision sets: %w", err)
	}
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO workout_revisions (id, workout_id, title, description, sets, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rev.ID, rev.WorkoutID, rev.Title, rev.Description, string(sets), rev.Reason, rev.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting revision: %w", err)
	}
	return nil
}

const pgColumns = `id, workout_id, title, description, sets, reason, created_at`

func (s *PostgresStore) ListRevisions(ctx context.Context, workoutID string, limit int) ([]Revision, error) {
	return s.query(ctx,
		`SELECT `+pgColumns+` FROM workout_revisions
		 WHERE workout_id = $1 ORDER BY created_at DESC LIMIT $2`,
		workoutID, limit)
}

func (s *PostgresStore) ListRevisionsByTitle(ctx context.Context, title string, limit int) ([]Revision, error) {
	return s.query(ctx,
		`SELECT `+pgColumns+` FROM workout_revisions
		 WHERE lower(title) = lower($1) ORDER BY created_at DESC LIMIT $2`,
		title, limit)
}

func (s *PostgresStore) GetRevision(ctx context.Context, id uuid.UUID) (*Revision, error) {
	var (
		rev  Revision
		sets []byte
	)
	err := s.Pool.QueryRow(ctx,
		`SELECT `+pgColumns+` FROM workout_revisions WHERE id = $1`, id,
	).Scan(&rev.ID, &rev.WorkoutID, &rev.Title, &rev.Description, &sets, &rev.Reason, &rev.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRevisionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying revision: %w", err)
	}
	if err := json.Unmarshal(sets, &rev.Sets); err != nil {
		return nil, fmt.Errorf("decoding revision sets: %w", err)
	}
	return &rev, nil
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]Revision, error) {
	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying revisions: %w", err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var (
			rev  Revision
			sets []byte
		)
		if err := rows.Scan(&rev.ID, &rev.WorkoutID, &rev.Title, &rev.Description, &sets, &rev.Reason, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning revision: %w", err)
		}
		if err := json.Unmarshal(sets, &rev.Sets); err != nil {
			return nil, fmt.Errorf("decoding revision sets: %w", err)
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}
