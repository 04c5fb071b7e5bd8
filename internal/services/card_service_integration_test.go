package services_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/cardrank/internal/errors"
	"github.com/vytor/cardrank/internal/models"
	"github.com/vytor/cardrank/internal/rating"
	"github.com/vytor/cardrank/internal/repository/sqlite"
	"github.com/vytor/cardrank/internal/services"
	"github.com/vytor/cardrank/internal/testutil"
)

// CardServiceSuite runs the engine against a real in-memory SQLite store.
type CardServiceSuite struct {
	suite.Suite
	db  *sql.DB
	svc services.CardService
}

func (s *CardServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.svc = services.NewCardService(
		sqlite.NewCardRepository(s.db),
		sqlite.NewComparisonRepository(s.db),
		services.DefaultCardServiceConfig(),
	)
}

func (s *CardServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardServiceSuite) create(name string) *models.Card {
	c, err := s.svc.CreateCard(context.Background(), name, name+".png", "")
	s.Require().NoError(err)
	return c
}

func (s *CardServiceSuite) setRating(id models.CardID, r float64) {
	_, err := s.db.Exec(`UPDATE cards SET rating = ? WHERE id = ?`, r, id.String())
	s.Require().NoError(err)
}

func (s *CardServiceSuite) TestEqualRatingsScenario() {
	ctx := context.Background()
	a := s.create("A")
	b := s.create("B")

	cmp, err := s.svc.RecordOutcome(ctx, a.ID, b.ID)
	s.Require().NoError(err)
	s.Assert().InDelta(1216.0, cmp.WinnerNewRating, 1e-9)
	s.Assert().InDelta(1184.0, cmp.LoserNewRating, 1e-9)

	gotA, err := s.svc.GetCard(ctx, a.ID)
	s.Require().NoError(err)
	gotB, err := s.svc.GetCard(ctx, b.ID)
	s.Require().NoError(err)
	s.Assert().InDelta(1216.0, gotA.Rating, 1e-9)
	s.Assert().InDelta(1184.0, gotB.Rating, 1e-9)
}

func (s *CardServiceSuite) TestFavouriteAndUpsetScenarios() {
	ctx := context.Background()
	a := s.create("A")
	b := s.create("B")

	s.setRating(a.ID, 1400)
	s.setRating(b.ID, 1000)
	cmp, err := s.svc.RecordOutcome(ctx, a.ID, b.ID)
	s.Require().NoError(err)
	s.Assert().Less(cmp.WinnerDelta(), 16.0)
	s.Assert().Greater(cmp.WinnerDelta(), 0.0)
	s.Assert().Greater(cmp.LoserDelta(), -16.0)

	s.setRating(a.ID, 1000)
	s.setRating(b.ID, 1400)
	cmp, err = s.svc.RecordOutcome(ctx, a.ID, b.ID)
	s.Require().NoError(err)
	s.Assert().Greater(cmp.WinnerDelta(), 16.0)
	s.Assert().LessOrEqual(cmp.WinnerDelta(), rating.K)
	s.Assert().Less(cmp.LoserDelta(), -16.0)
}

func (s *CardServiceSuite) TestDuplicateNameLeavesOriginal() {
	ctx := context.Background()
	orig, err := s.svc.CreateCard(ctx, "Joker", "joker.png", "the original")
	s.Require().NoError(err)

	_, err = s.svc.CreateCard(ctx, "Joker", "other.png", "copy")
	s.Assert().True(errors.HasCode(err, errors.ErrCodeConflict))

	got, err := s.svc.GetCard(ctx, orig.ID)
	s.Require().NoError(err)
	s.Assert().Equal("joker.png", got.ImageURL)
	s.Assert().Equal("the original", got.Description)
	s.Assert().Equal(models.DefaultRating, got.Rating)
}

func (s *CardServiceSuite) TestMissingLoserChangesNothing() {
	ctx := context.Background()
	a := s.create("A")
	b := s.create("B")

	_, err := s.svc.RecordOutcome(ctx, a.ID, models.CardID("does-not-exist"))
	s.Assert().True(errors.HasCode(err, errors.ErrCodeNotFound))

	for _, id := range []models.CardID{a.ID, b.ID} {
		got, err := s.svc.GetCard(ctx, id)
		s.Require().NoError(err)
		s.Assert().Equal(models.DefaultRating, got.Rating)
	}
	history, err := s.svc.RecentComparisons(ctx, 10)
	s.Require().NoError(err)
	s.Assert().Empty(history)
}

func (s *CardServiceSuite) TestSamplingBoundaries() {
	ctx := context.Background()

	_, err := s.svc.SamplePair(ctx)
	s.Assert().True(errors.HasCode(err, errors.ErrCodeInsufficientData))

	a := s.create("A")
	_, err = s.svc.SamplePair(ctx)
	s.Assert().True(errors.HasCode(err, errors.ErrCodeInsufficientData))

	b := s.create("B")
	for i := 0; i < 25; i++ {
		pair, err := s.svc.SamplePair(ctx)
		s.Require().NoError(err)
		s.Assert().ElementsMatch([]string{a.ID.String(), b.ID.String()}, []string{pair.First.ID, pair.Second.ID})
	}
}

func (s *CardServiceSuite) TestLeaderboardReadsAreIdempotent() {
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		c := s.create(fmt.Sprintf("card-%d", i))
		s.setRating(c.ID, 1000+float64(i%3)*100)
	}

	first, err := s.svc.Leaderboard(ctx, 0)
	s.Require().NoError(err)
	second, err := s.svc.Leaderboard(ctx, 0)
	s.Require().NoError(err)
	s.Assert().Equal(first, second)

	s.Require().Len(first, 6)
	for i := 1; i < len(first); i++ {
		s.Assert().GreaterOrEqual(first[i-1].Rating, first[i].Rating)
	}

	top, err := s.svc.Leaderboard(ctx, 2)
	s.Require().NoError(err)
	s.Assert().Equal(first[:2], top)
}

func (s *CardServiceSuite) TestListCardsInsertionOrder() {
	ctx := context.Background()
	names := []string{"Mime", "Blueprint", "Baron"}
	for _, n := range names {
		s.create(n)
	}

	cards, err := s.svc.ListCards(ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 3)
	for i, c := range cards {
		s.Assert().Equal(names[i], c.Name)
		s.Assert().Equal(models.DefaultRating, c.Rating)
		s.Assert().Equal(models.DefaultDescription, c.Description)
	}

	n, err := s.svc.CountCards(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(3, n)
}

func (s *CardServiceSuite) TestCardHistory() {
	ctx := context.Background()
	a := s.create("A")
	b := s.create("B")
	c := s.create("C")

	_, err := s.svc.RecordOutcome(ctx, a.ID, b.ID)
	s.Require().NoError(err)
	_, err = s.svc.RecordOutcome(ctx, c.ID, b.ID)
	s.Require().NoError(err)

	history, err := s.svc.CardHistory(ctx, b.ID, 0)
	s.Require().NoError(err)
	s.Assert().Len(history, 2)

	history, err = s.svc.CardHistory(ctx, a.ID, 0)
	s.Require().NoError(err)
	s.Assert().Len(history, 1)

	_, err = s.svc.CardHistory(ctx, "nobody", 0)
	s.Assert().True(errors.HasCode(err, errors.ErrCodeNotFound))
}

// Concurrent outcomes sharing a card must not lose updates: replaying the log must
// reproduce the stored ratings exactly.
func (s *CardServiceSuite) TestConcurrentOutcomesDoNotLoseUpdates() {
	ctx := context.Background()
	hub := s.create("hub")
	others := make([]*models.Card, 8)
	for i := range others {
		others[i] = s.create(fmt.Sprintf("spoke-%d", i))
	}

	const rounds = 5
	var wg sync.WaitGroup
	errs := make(chan error, len(others)*rounds)
	for _, o := range others {
		wg.Add(1)
		go func(o *models.Card) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				winner, loser := hub.ID, o.ID
				if r%2 == 1 {
					winner, loser = loser, winner
				}
				cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
				_, err := s.svc.RecordOutcome(cctx, winner, loser)
				cancel()
				if err != nil {
					errs <- err
				}
			}
		}(o)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	log, err := s.svc.RecentComparisons(ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(log, len(others)*rounds)

	// Walk the log oldest-first; each entry must start from the previous entry's result.
	current := map[models.CardID]float64{}
	for i := len(log) - 1; i >= 0; i-- {
		cmp := log[i]
		for id, old := range map[models.CardID]float64{cmp.WinnerID: cmp.WinnerOldRating, cmp.LoserID: cmp.LoserOldRating} {
			if prev, ok := current[id]; ok {
				s.Require().InDelta(prev, old, 1e-9, "comparison %s started from a stale rating", cmp.ID)
			}
		}
		current[cmp.WinnerID] = cmp.WinnerNewRating
		current[cmp.LoserID] = cmp.LoserNewRating
	}

	stored, err := s.svc.GetCard(ctx, hub.ID)
	s.Require().NoError(err)
	s.Assert().InDelta(current[hub.ID], stored.Rating, 1e-9)
}

func TestCardServiceSuite(t *testing.T) {
	suite.Run(t, new(CardServiceSuite))
}
