package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRunMigrations_AppliesOnlyPending(t *testing.T) {
	db, mock := newMockDB(t)

	files, err := migrationFiles()
	if err != nil {
		t.Fatalf("migrationFiles error: %v", err)
	}
	if len(files) < 2 {
		t.Fatalf("expected embedded migrations, got %v", files)
	}
	last := files[len(files)-1]

	applied := sqlmock.NewRows([]string{"filename"})
	for _, f := range files[:len(files)-1] {
		applied.AddRow(f)
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT filename FROM schema_migrations").WillReturnRows(applied)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(last).WillReturnResult(sqlmock.NewResult(1, 1))

	ran, err := RunMigrations(context.Background(), db)
	if err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if len(ran) != 1 || ran[0] != last {
		t.Fatalf("ran = %v, want [%s]", ran, last)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrationFiles_Sorted(t *testing.T) {
	files, err := migrationFiles()
	if err != nil {
		t.Fatalf("migrationFiles error: %v", err)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Fatalf("migrations out of order: %v", files)
		}
	}
}
