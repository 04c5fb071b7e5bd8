package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vytor/cardrank/internal/models"
)

// Sentinel errors returned by every store implementation. Services map them onto
// application errors.
var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("duplicate unique field")
	ErrUnavailable = errors.New("store unavailable")
)

// MissingCardError names a card a comparison referenced but the store could not find.
// It matches ErrNotFound under errors.Is.
type MissingCardError struct {
	ID models.CardID
}

func (e *MissingCardError) Error() string {
	return fmt.Sprintf("card %s: %v", e.ID, ErrNotFound)
}

func (e *MissingCardError) Unwrap() error {
	return ErrNotFound
}

// RatingFunc computes new ratings from the current winner and loser ratings.
type RatingFunc func(winner, loser float64) (newWinner, newLoser float64)

// CardRepository handles card data access
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) (*models.Card, error)
	Get(ctx context.Context, id models.CardID) (*models.Card, error)
	List(ctx context.Context) ([]models.Card, error)
	TopRated(ctx context.Context, limit int) ([]models.Card, error)
	Count(ctx context.Context) (int, error)
	Sample(ctx context.Context, n int) ([]models.Card, error)
	Ping(ctx context.Context) error
}

// ComparisonRepository is the append-only comparison log.
type ComparisonRepository interface {
	// Record loads both cards, applies fn to their ratings, stores the new ratings and
	// appends the comparison as one atomic unit.
	Record(ctx context.Context, winnerID, loserID models.CardID, fn RatingFunc) (*models.Comparison, error)
	Recent(ctx context.Context, limit int) ([]models.Comparison, error)
	ForCard(ctx context.Context, cardID models.CardID, limit int) ([]models.Comparison, error)
}
