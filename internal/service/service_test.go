package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dermadesk/dermadesk/internal/database"
	"github.com/dermadesk/dermadesk/internal/database/repository"
)

// openTestDB migrates a throwaway sqlite database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, role, name string) repository.User {
	t.Helper()
	u := repository.User{
		ID:       uuid.NewString(),
		Role:     role,
		FullName: name,
		Email:    uuid.NewString() + "@test.local",
	}
	require.NoError(t, repository.NewUserRepo(db).Upsert(context.Background(), u))
	return u
}
