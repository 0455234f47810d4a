package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPendingMigrations_NoLedgerTable(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

	pending, err := PendingMigrations(context.Background(), db)
	if err != nil {
		t.Fatalf("PendingMigrations error: %v", err)
	}
	files, _ := migrationFiles()
	if len(pending) != len(files) {
		t.Fatalf("pending = %v, want all of %v", pending, files)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPendingMigrations_SkipsApplied(t *testing.T) {
	db, mock := newMockDB(t)

	files, _ := migrationFiles()
	applied := sqlmock.NewRows([]string{"filename"})
	for _, f := range files[1:] {
		applied.AddRow(f)
	}

	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("schema_migrations"))
	mock.ExpectQuery("SELECT filename FROM schema_migrations").WillReturnRows(applied)

	pending, err := PendingMigrations(context.Background(), db)
	if err != nil {
		t.Fatalf("PendingMigrations error: %v", err)
	}
	if len(pending) != 1 || pending[0] != files[0] {
		t.Fatalf("pending = %v, want [%s]", pending, files[0])
	}
}
