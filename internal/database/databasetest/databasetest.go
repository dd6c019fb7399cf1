// Package databasetest opens throwaway in-memory SQLite catalogs for tests.
package databasetest

import (
	"fmt"
	"testing"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// Open returns a migrated catalog seeded with genres. Each call gets its own
// database which is closed when the test finishes.
func Open(t testing.TB, atomicWrites bool, genres ...string) *database.Database {
	t.Helper()

	if len(genres) == 0 {
		genres = config.DefaultGenres
	}

	// A single connection keeps the shared in-memory database alive and
	// serialises access the way SQLite expects.
	cfg := config.DatabaseConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		QueryTimeout: 5 * time.Second,
		AtomicWrites: atomicWrites,
	}

	dsn := fmt.Sprintf("file:catalog-%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), cfg, genres)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
