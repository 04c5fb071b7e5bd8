package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/cardrank/internal/models"
)

// MockCardService is a mock implementation of services.CardService
type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) CreateCard(ctx context.Context, name, imageURL, description string) (*models.Card, error) {
	args := m.Called(ctx, name, imageURL, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) GetCard(ctx context.Context, id models.CardID) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) CountCards(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCardService) SamplePair(ctx context.Context) (*models.CardPair, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardPair), args.Error(1)
}

func (m *MockCardService) RecordOutcome(ctx context.Context, winnerID, loserID models.CardID) (*models.Comparison, error) {
	args := m.Called(ctx, winnerID, loserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comparison), args.Error(1)
}

func (m *MockCardService) Leaderboard(ctx context.Context, limit int) ([]models.CardResponse, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CardResponse), args.Error(1)
}

func (m *MockCardService) ListCards(ctx context.Context) ([]models.CardResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CardResponse), args.Error(1)
}

func (m *MockCardService) RecentComparisons(ctx context.Context, limit int) ([]models.Comparison, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comparison), args.Error(1)
}

func (m *MockCardService) CardHistory(ctx context.Context, id models.CardID, limit int) ([]models.Comparison, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comparison), args.Error(1)
}

func (m *MockCardService) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
