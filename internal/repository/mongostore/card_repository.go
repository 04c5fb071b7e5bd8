package mongostore

import (
	"context"
	"errors"

	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/models"
	"github.com/vytor/cardrank/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type cardRepository struct {
	store *Store
}

// NewCardRepository creates a CardRepository backed by the Cards collection.
func NewCardRepository(store *Store) repository.CardRepository {
	return &cardRepository{store: store}
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: name=%s", c.Name)

	if c.ID.IsZero() {
		c.ID = models.NewCardID()
	}
	if _, err := r.store.cards.InsertOne(ctx, c); err != nil {
		err = classify(err)
		log.Warn("failed to insert card %q: %v", c.Name, err)
		return nil, err
	}
	log.Debug("card inserted: id=%s", c.ID)
	return &c, nil
}

func (r *cardRepository) Get(ctx context.Context, id models.CardID) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%s", id)

	var c models.Card
	if err := r.store.cards.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		err = classify(err)
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("card not found: id=%s", id)
		} else {
			log.Error("failed to get card: %v", err)
		}
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) List(ctx context.Context) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards")

	return r.find(ctx, log, listOptions())
}

func (r *cardRepository) TopRated(ctx context.Context, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching top rated cards: limit=%d", limit)

	opts := options.Find().SetSort(bson.D{
		{Key: "rating", Value: -1},
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, log, opts)
}

func (r *cardRepository) Count(ctx context.Context) (int, error) {
	n, err := r.store.cards.CountDocuments(ctx, bson.D{})
	if err != nil {
		err = classify(err)
		logger.FromContext(ctx).WithPrefix("card_repo").Error("failed to count cards: %v", err)
		return 0, err
	}
	return int(n), nil
}

// Sample uses $sample, which can repeat a document when the collection is large.
// Callers must de-duplicate.
func (r *cardRepository) Sample(ctx context.Context, n int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("sampling %d cards", n)

	pipeline := mongo.Pipeline{{{Key: "$sample", Value: bson.D{{Key: "size", Value: n}}}}}
	cur, err := r.store.cards.Aggregate(ctx, pipeline)
	if err != nil {
		err = classify(err)
		log.Error("failed to sample cards: %v", err)
		return nil, err
	}
	var cards []models.Card
	if err := cur.All(ctx, &cards); err != nil {
		return nil, classify(err)
	}
	return cards, nil
}

func (r *cardRepository) Ping(ctx context.Context) error {
	return classify(r.store.client.Ping(ctx, readpref.Primary()))
}

func (r *cardRepository) find(ctx context.Context, log *logger.Logger, opts *options.FindOptions) ([]models.Card, error) {
	cur, err := r.store.cards.Find(ctx, bson.D{}, opts)
	if err != nil {
		err = classify(err)
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	var cards []models.Card
	if err := cur.All(ctx, &cards); err != nil {
		err = classify(err)
		log.Error("failed to decode cards: %v", err)
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, nil
}

// listOptions returns cards in insertion order. Card ids are random UUIDs and BSON
// dates stop at milliseconds, so neither can order cards created together.
func listOptions() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})
}
