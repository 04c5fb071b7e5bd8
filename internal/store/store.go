package store

import (
	"context"
	"fmt"

	"github.com/vytor/cardrank/internal/config"
	"github.com/vytor/cardrank/internal/db"
	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/repository"
	"github.com/vytor/cardrank/internal/repository/mongostore"
	"github.com/vytor/cardrank/internal/repository/sqlite"
)

// Store bundles the repositories for the configured backend.
type Store struct {
	Driver      string
	Cards       repository.CardRepository
	Comparisons repository.ComparisonRepository
	close       func(context.Context) error
}

// Open connects to the backend named by cfg.StoreDriver. The caller owns Close.
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	log := logger.FromContext(ctx).WithPrefix("store")
	log.Info("opening %s store", cfg.StoreDriver)

	switch cfg.StoreDriver {
	case config.DriverSQLite:
		database, err := db.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:      cfg.StoreDriver,
			Cards:       sqlite.NewCardRepository(database.DB),
			Comparisons: sqlite.NewComparisonRepository(database.DB),
			close:       func(context.Context) error { return database.Close() },
		}, nil

	case config.DriverMongo:
		ms, err := mongostore.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:      cfg.StoreDriver,
			Cards:       mongostore.NewCardRepository(ms),
			Comparisons: mongostore.NewComparisonRepository(ms),
			close:       ms.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}
