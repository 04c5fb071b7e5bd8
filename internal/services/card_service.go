package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/vytor/cardrank/internal/errors"
	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/models"
	"github.com/vytor/cardrank/internal/rating"
	"github.com/vytor/cardrank/internal/repository"
)

const (
	// MinCardsForPair is the population needed before a pair can be drawn.
	MinCardsForPair = 2

	maxSampleAttempts = 5
)

// CardService is the rating engine: card creation, pair sampling, outcome recording
// and the leaderboard/listing projections.
type CardService interface {
	CreateCard(ctx context.Context, name, imageURL, description string) (*models.Card, error)
	GetCard(ctx context.Context, id models.CardID) (*models.Card, error)
	CountCards(ctx context.Context) (int, error)
	SamplePair(ctx context.Context) (*models.CardPair, error)
	RecordOutcome(ctx context.Context, winnerID, loserID models.CardID) (*models.Comparison, error)
	Leaderboard(ctx context.Context, limit int) ([]models.CardResponse, error)
	ListCards(ctx context.Context) ([]models.CardResponse, error)
	RecentComparisons(ctx context.Context, limit int) ([]models.Comparison, error)
	CardHistory(ctx context.Context, id models.CardID, limit int) ([]models.Comparison, error)
	Ready(ctx context.Context) error
}

type cardService struct {
	cardRepo       repository.CardRepository
	comparisonRepo repository.ComparisonRepository
	cfg            CardServiceConfig
	now            func() time.Time
}

// NewCardService creates a new CardService
func NewCardService(cardRepo repository.CardRepository, comparisonRepo repository.ComparisonRepository, cfg CardServiceConfig) CardService {
	if cfg.LeaderboardLimit <= 0 {
		cfg.LeaderboardLimit = DefaultCardServiceConfig().LeaderboardLimit
	}
	return &cardService{
		cardRepo:       cardRepo,
		comparisonRepo: comparisonRepo,
		cfg:            cfg,
		now:            time.Now,
	}
}

func (s *cardService) CreateCard(ctx context.Context, name, imageURL, description string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: name=%s", name)

	card := models.NewCard(name, imageURL, description, s.now())
	if card.Name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if card.ImageURL == "" {
		return nil, errors.NewValidationError("image_url", "cannot be empty")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	created, err := s.cardRepo.Insert(ctx, card)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewConflictError("card", "name", card.Name)
		}
		log.Error("failed to create card: %v", err)
		return nil, storeError(err)
	}

	log.Info("card created: id=%s, name=%s", created.ID, created.Name)
	return created, nil
}

func (s *cardService) GetCard(ctx context.Context, id models.CardID) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting card: id=%s", id)

	if id.IsZero() {
		return nil, errors.NewValidationError("id", "cannot be empty")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	card, err := s.cardRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("card", id)
		}
		log.Error("failed to get card: %v", err)
		return nil, storeError(err)
	}
	return card, nil
}

func (s *cardService) CountCards(ctx context.Context) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.cardRepo.Count(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count cards: %v", err)
		return 0, storeError(err)
	}
	return n, nil
}

func (s *cardService) SamplePair(ctx context.Context) (*models.CardPair, error) {
	log := logger.FromContext(ctx)
	log.Debug("sampling card pair")

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.cardRepo.Count(ctx)
	if err != nil {
		log.Error("failed to count cards: %v", err)
		return nil, storeError(err)
	}
	if n < MinCardsForPair {
		return nil, errors.NewInsufficientDataError(n, MinCardsForPair)
	}

	for attempt := 1; attempt <= maxSampleAttempts; attempt++ {
		cards, err := s.cardRepo.Sample(ctx, MinCardsForPair)
		if err != nil {
			log.Error("failed to sample cards: %v", err)
			return nil, storeError(err)
		}
		if len(cards) < MinCardsForPair {
			return nil, errors.NewInsufficientDataError(len(cards), MinCardsForPair)
		}
		if cards[0].ID != cards[1].ID {
			return &models.CardPair{First: cards[0].Response(), Second: cards[1].Response()}, nil
		}
		log.Debug("sample drew card %s twice, redrawing (attempt %d)", cards[0].ID, attempt)
	}

	return nil, errors.NewInternalError(fmt.Errorf("no distinct pair after %d draws", maxSampleAttempts))
}

func (s *cardService) RecordOutcome(ctx context.Context, winnerID, loserID models.CardID) (*models.Comparison, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"winner_id": winnerID,
		"loser_id":  loserID,
	})
	log.Debug("recording outcome")

	if winnerID.IsZero() {
		return nil, errors.NewValidationError("winner_id", "cannot be empty")
	}
	if loserID.IsZero() {
		return nil, errors.NewValidationError("loser_id", "cannot be empty")
	}
	if winnerID == loserID {
		return nil, errors.NewValidationError("loser_id", "a card cannot be compared with itself")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cmp, err := s.comparisonRepo.Record(ctx, winnerID, loserID, rating.Update)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			log.Warn("outcome references a missing card: %v", err)
			var missing *repository.MissingCardError
			if stderrors.As(err, &missing) {
				return nil, errors.NewNotFoundError("card", missing.ID)
			}
			return nil, errors.NewNotFoundError("card", fmt.Sprintf("%s or %s", winnerID, loserID))
		}
		log.Error("failed to record outcome: %v", err)
		return nil, storeError(err)
	}

	log.Info("outcome recorded: winner %.1f -> %.1f, loser %.1f -> %.1f",
		cmp.WinnerOldRating, cmp.WinnerNewRating, cmp.LoserOldRating, cmp.LoserNewRating)
	return cmp, nil
}

func (s *cardService) Leaderboard(ctx context.Context, limit int) ([]models.CardResponse, error) {
	log := logger.FromContext(ctx)
	if limit <= 0 {
		limit = s.cfg.LeaderboardLimit
	}
	log.Debug("building leaderboard: limit=%d", limit)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cards, err := s.cardRepo.TopRated(ctx, limit)
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, storeError(err)
	}
	return models.CardResponses(cards), nil
}

func (s *cardService) ListCards(ctx context.Context) ([]models.CardResponse, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards")

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cards, err := s.cardRepo.List(ctx)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, storeError(err)
	}
	return models.CardResponses(cards), nil
}

func (s *cardService) RecentComparisons(ctx context.Context, limit int) ([]models.Comparison, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	comparisons, err := s.comparisonRepo.Recent(ctx, limit)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list comparisons: %v", err)
		return nil, storeError(err)
	}
	return comparisons, nil
}

func (s *cardService) CardHistory(ctx context.Context, id models.CardID, limit int) ([]models.Comparison, error) {
	// Resolve the card first so an unknown id is a 404 rather than an empty history.
	if _, err := s.GetCard(ctx, id); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	comparisons, err := s.comparisonRepo.ForCard(ctx, id, limit)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load card history: %v", err)
		return nil, storeError(err)
	}
	return comparisons, nil
}

func (s *cardService) Ready(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.cardRepo.Ping(ctx); err != nil {
		return errors.NewStoreUnavailableError(err)
	}
	return nil
}

func (s *cardService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}

// storeError converts a repository failure into an application error. Timeouts and
// connectivity problems are retryable; everything else is internal.
func storeError(err error) error {
	if stderrors.Is(err, repository.ErrUnavailable) ||
		stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewStoreUnavailableError(err)
	}
	return errors.NewInternalError(err)
}
