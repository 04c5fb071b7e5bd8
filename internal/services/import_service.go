package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/vytor/cardrank/internal/errors"
	"github.com/vytor/cardrank/internal/importer"
	"github.com/vytor/cardrank/internal/logger"
	"github.com/vytor/cardrank/internal/worker"
)

// ErrStorePopulated is returned when an import without Append finds existing cards.
var ErrStorePopulated = stderrors.New("store already holds cards")

// ImportOptions controls a bulk import.
type ImportOptions struct {
	// Append imports even when the store already holds cards.
	Append bool
}

// ImportFailure is a row the store rejected.
type ImportFailure struct {
	Line int
	Name string
	Err  error
}

// ImportSummary reports the outcome of ImportCards.
type ImportSummary struct {
	Existing int
	Total    int
	Created  int
	Failed   []ImportFailure
}

// ImportService handles card import business logic
type ImportService interface {
	ImportCards(ctx context.Context, rows []importer.Row, pool *worker.Pool, opts ImportOptions) (*ImportSummary, error)
}

type importService struct {
	cards CardService
}

// NewImportService creates a new ImportService
func NewImportService(cards CardService) ImportService {
	return &importService{cards: cards}
}

// ImportCards creates one card per row on the pool and waits for all of them. The pool
// must be started; it is left running for the caller to stop.
func (s *importService) ImportCards(ctx context.Context, rows []importer.Row, pool *worker.Pool, opts ImportOptions) (*ImportSummary, error) {
	log := logger.FromContext(ctx)

	existing, err := s.cards.CountCards(ctx)
	if err != nil {
		return nil, err
	}
	summary := &ImportSummary{Existing: existing, Total: len(rows)}
	if existing > 0 && !opts.Append {
		log.Info("store already has %d cards, skipping import", existing)
		return summary, fmt.Errorf("%w: %d cards", ErrStorePopulated, existing)
	}

	log.Info("queueing %d card imports", len(rows))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, row := range rows {
		row := row
		wg.Add(1)
		job := worker.JobFunc{Label: "create_card", Fn: func(jobCtx context.Context) error {
			defer wg.Done()
			card, err := s.cards.CreateCard(jobCtx, row.Name, row.ImageURL, row.Description)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed = append(summary.Failed, ImportFailure{Line: row.Line, Name: row.Name, Err: err})
				return err
			}
			summary.Created++
			logger.FromContext(jobCtx).Debug("created card: %s", card.Name)
			return nil
		}}
		if err := pool.Submit(ctx, job); err != nil {
			wg.Done()
			log.Error("failed to queue card %q: %v", row.Name, err)
			return snapshot(&mu, summary), errors.NewInternalError(err)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("import cancelled: %v", ctx.Err())
		return snapshot(&mu, summary), ctx.Err()
	}

	log.Info("imported %d of %d cards (%d failed)", summary.Created, summary.Total, len(summary.Failed))
	return summary, nil
}

func snapshot(mu *sync.Mutex, s *ImportSummary) *ImportSummary {
	mu.Lock()
	defer mu.Unlock()
	out := *s
	out.Failed = append([]ImportFailure(nil), s.Failed...)
	return &out
}
