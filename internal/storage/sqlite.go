package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteStore persists runs in a local SQLite file (the default).
type SQLiteStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSQLiteStore opens (creating if needed) the run database at path.
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}

	db.Exec("PRAGMA journal_mode = WAL")

	store := &SQLiteStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS review_runs (
		id TEXT PRIMARY KEY,
		author TEXT NOT NULL,
		since_date TEXT,
		until_date TEXT,
		commit_count INTEGER NOT NULL DEFAULT 0,
		snapshot BLOB NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_review_runs_author ON review_runs(author);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a run, assigning an ID and timestamp when unset.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *RunRecord) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO review_runs
		(id, author, since_date, until_date, commit_count, snapshot, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
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

func (s *SQLiteStore) GetRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	var row runRow

	query := `SELECT id, author, since_date, until_date, commit_count, snapshot, created_at
		FROM review_runs WHERE id = ?`
	if err := s.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toRecord()
}

func (s *SQLiteStore) ListRuns(ctx context.Context, author string, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, author, since_date, until_date, commit_count, snapshot, created_at
		FROM review_runs`
	args := []interface{}{}
	if author != "" {
		query += ` WHERE author = ?`
		args = append(args, author)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
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

// runRow is the scan target shared by both stores; run IDs are stored
// as text.
type runRow struct {
	ID          string    `db:"id"`
	Author      string    `db:"author"`
	SinceDate   string    `db:"since_date"`
	UntilDate   string    `db:"until_date"`
	CommitCount int       `db:"commit_count"`
	Snapshot    []byte    `db:"snapshot"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r runRow) toRecord() (*RunRecord, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt run id %q: %w", r.ID, err)
	}
	return &RunRecord{
		ID:          id,
		Author:      r.Author,
		SinceDate:   r.SinceDate,
		UntilDate:   r.UntilDate,
		CommitCount: r.CommitCount,
		Snapshot:    r.Snapshot,
		CreatedAt:   r.CreatedAt,
	}, nil
}
