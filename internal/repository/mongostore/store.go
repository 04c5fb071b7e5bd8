package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CardsCollection       = "Cards"
	ComparisonsCollection = "Comparisons"
)

// Store owns the client connection shared by the card and comparison repositories.
type Store struct {
	client      *mongo.Client
	cards       *mongo.Collection
	comparisons *mongo.Collection
	log         *logger.Logger
}

// Connect dials the server, pings the primary and ensures the required indexes exist.
// Any failure here is returned to the caller; the process must not start without a store.
func Connect(ctx context.Context, url, database string) (*Store, error) {
	log := logger.Default().WithPrefix("mongo")
	log.Info("connecting to mongodb: database=%s", database)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		log.Error("failed to connect: %v", err)
		return nil, classify(err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		log.Error("ping failed: %v", err)
		return nil, fmt.Errorf("ping mongodb: %w", classify(err))
	}

	db := client.Database(database)
	s := &Store{
		client:      client,
		cards:       db.Collection(CardsCollection),
		comparisons: db.Collection(ComparisonsCollection),
		log:         log,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		log.Error("failed to create indexes: %v", err)
		return nil, err
	}

	log.Info("mongodb ready")
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.cards.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "rating", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("card indexes: %w", classify(err))
	}

	_, err = s.comparisons.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "winner_id", Value: 1}}},
		{Keys: bson.D{{Key: "loser_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("comparison indexes: %w", classify(err))
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	s.log.Debug("disconnecting from mongodb")
	return s.client.Disconnect(ctx)
}

// classify maps driver errors onto the repository sentinels. Unknown errors pass through.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
		errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	return err
}
