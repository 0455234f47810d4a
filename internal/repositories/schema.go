package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type contextQueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// HasTable reports whether table exists in the connected database.
func HasTable(ctx context.Context, q contextQueryRower, table string) (bool, error) {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	return name.Valid && name.String != "", nil
}

// PendingMigrations lists embedded migration files not yet recorded in
// schema_migrations. A database without the ledger table has everything pending.
func PendingMigrations(ctx context.Context, db *sql.DB) ([]string, error) {
	files, err := migrationFiles()
	if err != nil {
		return nil, err
	}

	ok, err := HasTable(ctx, db, "schema_migrations")
	if err != nil {
		return nil, err
	}
	if !ok {
		return files, nil
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return nil, err
	}

	pending := make([]string, 0, len(files))
	for _, f := range files {
		if !applied[f] {
			pending = append(pending, f)
		}
	}
	return pending, nil
}
