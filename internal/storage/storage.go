package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/commitlens/commitlens-go/internal/config"
)

// ErrNotFound is returned when a requested run does not exist
var ErrNotFound = fmt.Errorf("not found")

// RunRecord is one saved review run: identifying metadata plus the full
// result structure as a JSON snapshot. The snapshot is opaque to the
// store; the report package owns its encoding.
type RunRecord struct {
	ID          uuid.UUID `db:"id"`
	Author      string    `db:"author"`
	SinceDate   string    `db:"since_date"`
	UntilDate   string    `db:"until_date"`
	CommitCount int       `db:"commit_count"`
	Snapshot    []byte    `db:"snapshot"`
	CreatedAt   time.Time `db:"created_at"`
}

// Store persists review runs.
type Store interface {
	SaveRun(ctx context.Context, run *RunRecord) error
	GetRun(ctx context.Context, id uuid.UUID) (*RunRecord, error)
	ListRuns(ctx context.Context, author string, limit int) ([]*RunRecord, error)
	Close() error
}

// New creates a Store from storage configuration.
func New(cfg config.StorageConfig, logger *logrus.Logger) (Store, error) {
	switch cfg.Type {
	case "postgres":
		return NewPostgresStore(cfg.PostgresDSN, logger)
	case "", "sqlite":
		return NewSQLiteStore(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
