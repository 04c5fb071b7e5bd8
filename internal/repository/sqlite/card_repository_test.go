package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/cardrank/internal/models"
	"github.com/vytor/cardrank/internal/repository"
	"github.com/vytor/cardrank/internal/repository/sqlite"
	"github.com/vytor/cardrank/internal/testutil"
)

type CardRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.CardRepository
	base time.Time
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db)
	s.base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *CardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	card := models.NewCard("Joker", "https://cards.example/joker.png", "", s.base)
	created, err := s.repo.Insert(ctx, card)
	s.Require().NoError(err)
	s.Assert().False(created.ID.IsZero(), "store should assign an id")

	got, err := s.repo.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Assert().Equal("Joker", got.Name)
	s.Assert().Equal(models.DefaultDescription, got.Description)
	s.Assert().Equal(models.DefaultRating, got.Rating)
	s.Assert().Equal(models.SchemaVersion, got.SchemaVersion)
	s.Assert().True(s.base.Equal(got.CreatedAt), "created_at should round-trip, got %v", got.CreatedAt)
}

func (s *CardRepositorySuite) TestInsertDuplicateName() {
	ctx := context.Background()

	first, err := s.repo.Insert(ctx, models.NewCard("Joker", "a.png", "original", s.base))
	s.Require().NoError(err)

	_, err = s.repo.Insert(ctx, models.NewCard("Joker", "b.png", "impostor", s.base.Add(time.Minute)))
	s.Require().Error(err)
	s.Assert().ErrorIs(err, repository.ErrDuplicate)

	got, err := s.repo.Get(ctx, first.ID)
	s.Require().NoError(err)
	s.Assert().Equal("a.png", got.ImageURL)
	s.Assert().Equal("original", got.Description)
	s.Assert().Equal(1, testutil.CountRows(s.T(), s.db, "cards"))
}

func (s *CardRepositorySuite) TestGetMissing() {
	_, err := s.repo.Get(context.Background(), models.CardID("nope"))
	s.Assert().ErrorIs(err, repository.ErrNotFound)
}

func (s *CardRepositorySuite) TestListInInsertionOrder() {
	ctx := context.Background()
	names := []string{"Mime", "Abstract Joker", "Zany Joker"}
	for i, name := range names {
		// Timestamps run backwards to show that order follows insertion, not created_at.
		testutil.InsertCard(s.T(), s.db, name, 1200+float64(i), s.base.Add(-time.Duration(i)*time.Hour))
	}

	cards, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 3)
	for i, c := range cards {
		s.Assert().Equal(names[i], c.Name)
	}
}

func (s *CardRepositorySuite) TestTopRated() {
	ctx := context.Background()
	testutil.InsertCard(s.T(), s.db, "low", 1100, s.base)
	testutil.InsertCard(s.T(), s.db, "high", 1300, s.base)
	testutil.InsertCard(s.T(), s.db, "tie-later", 1200, s.base.Add(time.Minute))
	testutil.InsertCard(s.T(), s.db, "tie-earlier", 1200, s.base)

	cards, err := s.repo.TopRated(ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(cards, 3)
	s.Assert().Equal("high", cards[0].Name)
	s.Assert().Equal("tie-earlier", cards[1].Name, "ties fall back to creation time")
	s.Assert().Equal("tie-later", cards[2].Name)

	all, err := s.repo.TopRated(ctx, 100)
	s.Require().NoError(err)
	s.Assert().Len(all, 4)

	unlimited, err := s.repo.TopRated(ctx, 0)
	s.Require().NoError(err)
	s.Assert().Len(unlimited, 4)
}

func (s *CardRepositorySuite) TestCountAndSample() {
	ctx := context.Background()

	n, err := s.repo.Count(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(0, n)

	a := testutil.InsertCard(s.T(), s.db, "a", 1200, s.base)
	b := testutil.InsertCard(s.T(), s.db, "b", 1200, s.base)

	n, err = s.repo.Count(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(2, n)

	for i := 0; i < 20; i++ {
		cards, err := s.repo.Sample(ctx, 2)
		s.Require().NoError(err)
		s.Require().Len(cards, 2)
		s.Assert().NotEqual(cards[0].ID, cards[1].ID)
		s.Assert().ElementsMatch([]models.CardID{a, b}, []models.CardID{cards[0].ID, cards[1].ID})
	}
}

func (s *CardRepositorySuite) TestPing() {
	s.Assert().NoError(s.repo.Ping(context.Background()))
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
