package repositories

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/config"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// wrap turns a driver error into a domain error. sql.ErrNoRows becomes NotFoundError.
func wrap(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: resource, Err: err}
	}
	return domain.StorageError{Op: op, Err: err}
}

func connOrDefault(db *sql.DB) (*sql.DB, error) {
	if db != nil {
		return db, nil
	}
	if config.DB != nil {
		return config.DB, nil
	}
	return nil, domain.StorageError{Op: "connect", Err: errors.New("database not connected")}
}

func nullableInt64(v int64, ok bool) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: ok}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	out := v.Int64
	return &out
}
