package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/cardrank/internal/models"
	"github.com/vytor/cardrank/internal/repository"
)

// MockComparisonRepository is a mock implementation of repository.ComparisonRepository
type MockComparisonRepository struct {
	mock.Mock
}

func (m *MockComparisonRepository) Record(ctx context.Context, winnerID, loserID models.CardID, fn repository.RatingFunc) (*models.Comparison, error) {
	args := m.Called(ctx, winnerID, loserID, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comparison), args.Error(1)
}

func (m *MockComparisonRepository) Recent(ctx context.Context, limit int) ([]models.Comparison, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comparison), args.Error(1)
}

func (m *MockComparisonRepository) ForCard(ctx context.Context, cardID models.CardID, limit int) ([]models.Comparison, error) {
	args := m.Called(ctx, cardID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comparison), args.Error(1)
}
