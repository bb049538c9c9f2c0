package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// PostgresStore persists runs in PostgreSQL, for teams sharing review
// history across machines.
type PostgresStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewPostgresStore connects to PostgreSQL with the given DSN.
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres storage requires a DSN")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	store := &PostgresStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS review_runs (
		id UUID PRIMARY KEY,
		author TEXT NOT NULL,
		since_date TEXT,
		until_date TEXT,
		commit_count INTEGER NOT NULL DEFAULT 0,
		snapshot BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_review_runs_author ON review_runs(author);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a run, assigning an ID and timestamp when unset.
func (s *PostgresStore) SaveRun(ctx context.Context, run *RunRecord) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO review_runs
		(id, author, since_date, until_date, commit_count, snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID.String(), run.Author, run.SinceDate, run.UntilDate,
		run.CommitCount, run.Snapshot, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id": run.ID,
		"author": run.Author,
	}).Debug("saved review run")

	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	var row runRow

	query := `SELECT id, author, since_date, until_date, commit_count, snapshot, created_at
		FROM review_runs WHERE id = $1`
	if err := s.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toRecord()
}

func (s *PostgresStore) ListRuns(ctx context.Context, author string, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, author, since_date, until_date, commit_count, snapshot, created_at
		FROM review_runs`
	args := []interface{}{}
	if author != "" {
		query += ` WHERE author = $1`
		args = append(args, author)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	var rows []runRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	runs := make([]*RunRecord, 0, len(rows))
	for _, row := range rows {
		run, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}
