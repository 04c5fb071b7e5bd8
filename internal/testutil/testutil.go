package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/cardrank/internal/db"
	"github.com/vytor/cardrank/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// It holds a single connection, so every caller shares the same in-memory schema.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertCard writes a card row directly and returns its identifier.
func InsertCard(t *testing.T, sqlDB *sql.DB, name string, rating float64, createdAt time.Time) models.CardID {
	t.Helper()

	id := models.NewCardID()
	_, err := sqlDB.Exec(`
INSERT INTO cards (id, name, image_url, description, rating, created_at, schema_version)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, id.String(), name, fmt.Sprintf("https://cards.example/%s.png", name), models.DefaultDescription, rating, createdAt.UTC(), models.SchemaVersion)
	require.NoError(t, err)
	return id
}

// CardRating reads a card's stored rating.
func CardRating(t *testing.T, sqlDB *sql.DB, id models.CardID) float64 {
	t.Helper()

	var r float64
	require.NoError(t, sqlDB.QueryRow(`SELECT rating FROM cards WHERE id = ?`, id.String()).Scan(&r))
	return r
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, sqlDB *sql.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
