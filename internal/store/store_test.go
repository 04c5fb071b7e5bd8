package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/cardrank/internal/config"
	"github.com/vytor/cardrank/internal/models"
)

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{StoreDriver: config.DriverSQLite, DBPath: "file:" + filepath.Join(t.TempDir(), "cards.db")}

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close(ctx)) }()

	require.NoError(t, s.Cards.Ping(ctx))
	_, err = s.Cards.Insert(ctx, models.NewCard("Joker", "joker.png", "", time.Now()))
	require.NoError(t, err)

	n, err := s.Cards.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{StoreDriver: "redis"})
	assert.ErrorContains(t, err, `unknown store driver "redis"`)
}

func TestCloseNilStore(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close(context.Background()))
}
