package dedupe

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresIndex stores seen fingerprints in a Postgres table.
type PostgresIndex struct {
	db *sql.DB
}

// NewPostgresIndex wires a sql.DB implementation.
func NewPostgresIndex(db *sql.DB) *PostgresIndex {
	return &PostgresIndex{db: db}
}

// Migrate creates the fingerprint table if it does not exist.
func (i *PostgresIndex) Migrate(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS seen_fingerprints (
		fingerprint TEXT PRIMARY KEY,
		seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if _, err := i.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create seen_fingerprints table: %w", err)
	}
	return nil
}

// IsNew reports whether the fingerprint is absent from the table.
func (i *PostgresIndex) IsNew(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM seen_fingerprints WHERE fingerprint = $1)`
	if err := i.db.QueryRowContext(ctx, query, fingerprint).Scan(&exists); err != nil {
		return false, fmt.Errorf("check fingerprint: %w", err)
	}
	return !exists, nil
}

// MarkSeen inserts the fingerprint; concurrent duplicate marks are harmless.
func (i *PostgresIndex) MarkSeen(ctx context.Context, fingerprint string) error {
	query := `INSERT INTO seen_fingerprints (fingerprint) VALUES ($1)
	          ON CONFLICT (fingerprint) DO NOTHING`
	if _, err := i.db.ExecContext(ctx, query, fingerprint); err != nil {
		return fmt.Errorf("mark fingerprint seen: %w", err)
	}
	return nil
}
