package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/rasticrookie/portfolio"
)

const createSlotsTable = `
	CREATE TABLE IF NOT EXISTS slots (
		name       TEXT PRIMARY KEY,
		data       BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)
`

// Postgres stores slots as rows of the 'slots' table.
type Postgres struct {
	db     *sqlx.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewPostgres connects to the database at dsn and creates the slots table if
// it does not exist.
func NewPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	p, err := NewPostgresFromDB(ctx, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgresFromDB uses an already opened database.
func NewPostgresFromDB(ctx context.Context, db *sqlx.DB, logger *zap.Logger) (*Postgres, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.ExecContext(ctx, createSlotsTable); err != nil {
		return nil, fmt.Errorf("failed to create slots table: %w", err)
	}
	return &Postgres{db: db, logger: logger, now: time.Now}, nil
}

func (p *Postgres) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := p.db.GetContext(ctx, &data, `SELECT data FROM slots WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portfolio.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", name, err)
	}
	return data, nil
}

func (p *Postgres) Put(ctx context.Context, name string, data []byte) error {
	query := `
		INSERT INTO slots (name, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`
	if _, err := p.db.ExecContext(ctx, query, name, data, p.now().UTC()); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", name, err)
	}
	p.logger.Debug("slot written", zap.String("name", name), zap.Int("bytes", len(data)))
	return nil
}

// Close closes the database.
func (p *Postgres) Close() error { return p.db.Close() }
