package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/models"
	"github.com/vytor/cardrank/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type comparisonRepository struct {
	store *Store
}

// NewComparisonRepository creates a ComparisonRepository backed by the Comparisons collection.
// Record runs inside a multi-document transaction, so the server must be a replica set member.
func NewComparisonRepository(store *Store) repository.ComparisonRepository {
	return &comparisonRepository{store: store}
}

func (r *comparisonRepository) Record(ctx context.Context, winnerID, loserID models.CardID, fn repository.RatingFunc) (*models.Comparison, error) {
	log := logger.FromContext(ctx).WithPrefix("comparison_repo")
	log.Debug("recording comparison: winner_id=%s, loser_id=%s", winnerID, loserID)

	sess, err := r.store.client.StartSession()
	if err != nil {
		return nil, classify(err)
	}
	defer sess.EndSession(ctx)

	// WithTransaction may run the callback more than once; each attempt re-reads both ratings.
	// Errors stay unclassified inside the callback so transient-transaction labels survive.
	res, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		winnerOld, err := r.ratingFor(sc, winnerID)
		if err != nil {
			return nil, missing(err, winnerID)
		}
		loserOld, err := r.ratingFor(sc, loserID)
		if err != nil {
			return nil, missing(err, loserID)
		}

		winnerNew, loserNew := fn(winnerOld, loserOld)

		if err := r.setRating(sc, winnerID, winnerNew); err != nil {
			return nil, err
		}
		if err := r.setRating(sc, loserID, loserNew); err != nil {
			return nil, err
		}

		cmp := models.Comparison{
			ID:              models.NewComparisonID(),
			WinnerID:        winnerID,
			LoserID:         loserID,
			WinnerOldRating: winnerOld,
			LoserOldRating:  loserOld,
			WinnerNewRating: winnerNew,
			LoserNewRating:  loserNew,
			CreatedAt:       time.Now().UTC(),
			SchemaVersion:   models.SchemaVersion,
		}
		if _, err := r.store.comparisons.InsertOne(sc, cmp); err != nil {
			return nil, err
		}
		return &cmp, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("comparison rejected: %v", err)
		} else {
			err = classify(err)
			log.Error("failed to record comparison: %v", err)
		}
		return nil, err
	}

	cmp := res.(*models.Comparison)
	log.Debug("comparison recorded: id=%s", cmp.ID)
	return cmp, nil
}

func (r *comparisonRepository) Recent(ctx context.Context, limit int) ([]models.Comparison, error) {
	return r.find(ctx, bson.D{}, limit)
}

func (r *comparisonRepository) ForCard(ctx context.Context, cardID models.CardID, limit int) ([]models.Comparison, error) {
	filter := bson.M{"$or": bson.A{bson.M{"winner_id": cardID}, bson.M{"loser_id": cardID}}}
	return r.find(ctx, filter, limit)
}

func (r *comparisonRepository) find(ctx context.Context, filter any, limit int) ([]models.Comparison, error) {
	log := logger.FromContext(ctx).WithPrefix("comparison_repo")

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.store.comparisons.Find(ctx, filter, opts)
	if err != nil {
		err = classify(err)
		log.Error("failed to query comparisons: %v", err)
		return nil, err
	}
	var out []models.Comparison
	if err := cur.All(ctx, &out); err != nil {
		return nil, classify(err)
	}
	log.Debug("found %d comparisons", len(out))
	return out, nil
}

func (r *comparisonRepository) ratingFor(ctx context.Context, id models.CardID) (float64, error) {
	var doc struct {
		Rating float64 `bson:"rating"`
	}
	opts := options.FindOne().SetProjection(bson.M{"rating": 1})
	if err := r.store.cards.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc); err != nil {
		return 0, notFound(err)
	}
	return doc.Rating, nil
}

func (r *comparisonRepository) setRating(ctx context.Context, id models.CardID, rating float64) error {
	res, err := r.store.cards.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"rating": rating}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// notFound translates a missing document while keeping every other driver error intact.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

func missing(err error, id models.CardID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &repository.MissingCardError{ID: id}
	}
	return err
}
