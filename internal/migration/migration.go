package migration

import (
	"context"

	"winesense/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createPredictionsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create predictions table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createPredictionsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS predictions (
			id UUID PRIMARY KEY,
			fixed_acidity DOUBLE PRECISION NOT NULL,
			volatile_acidity DOUBLE PRECISION NOT NULL,
			citric_acid DOUBLE PRECISION NOT NULL,
			residual_sugar DOUBLE PRECISION NOT NULL,
			chlorides DOUBLE PRECISION NOT NULL,
			free_sulfur_dioxide DOUBLE PRECISION NOT NULL,
			total_sulfur_dioxide DOUBLE PRECISION NOT NULL,
			density DOUBLE PRECISION NOT NULL,
			ph DOUBLE PRECISION NOT NULL,
			sulphates DOUBLE PRECISION NOT NULL,
			alcohol DOUBLE PRECISION NOT NULL,
			label TEXT NOT NULL,
			p_good DOUBLE PRECISION NOT NULL,
			p_not_good DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_predictions_created_at
		ON predictions (created_at DESC)
	`)
	return err
}
