package resultstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in the SQLite user_version header. Bump it when
// schema.sql changes shape.
const schemaVersion = 1

// ErrSchemaMismatch is returned by Open when the database was written by a
// different schema version.
var ErrSchemaMismatch = errors.New("result store schema mismatch")

// ensureSchema creates the results table in a fresh database (user_version 0)
// and refuses databases stamped with any other version.
func ensureSchema(ctx context.Context, db *sql.DB, dbPath string) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version of %s: %w", dbPath, err)
	}
	switch version {
	case schemaVersion:
		return nil
	case 0:
		return createSchema(ctx, db, dbPath)
	default:
		return fmt.Errorf("%w: %s has version %d, this build expects %d; move it aside and re-import with `fpexport import`",
			ErrSchemaMismatch, dbPath, version, schemaVersion)
	}
}

func createSchema(ctx context.Context, db *sql.DB, dbPath string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create schema in %s: %w", dbPath, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create results table in %s: %w", dbPath, err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version in %s: %w", dbPath, err)
	}
	return tx.Commit()
}
