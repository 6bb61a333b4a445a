package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/pageza/reciperoulette/backend/internal/recipestate"
	"github.com/pageza/reciperoulette/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockRecipeStateService is a mock implementation of the recipe state engine
type MockRecipeStateService struct {
	mock.Mock
}

func (m *MockRecipeStateService) ApplyRecipeEvent(ctx context.Context, userID uuid.UUID, recipe models.Recipe) (*recipestate.EventResult, error) {
	args := m.Called(ctx, userID, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipestate.EventResult), args.Error(1)
}

func (m *MockRecipeStateService) recipes(args mock.Arguments) ([]models.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeStateService) GetHistory(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	return m.recipes(m.Called(ctx, userID))
}

func (m *MockRecipeStateService) GetFavorites(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	return m.recipes(m.Called(ctx, userID))
}

func (m *MockRecipeStateService) SearchHistory(ctx context.Context, userID uuid.UUID, query string) ([]models.Recipe, error) {
	return m.recipes(m.Called(ctx, userID, query))
}

// MockGeneratorService is a mock implementation of the GeneratorService interface
type MockGeneratorService struct {
	mock.Mock
}

func (m *MockGeneratorService) Generate(ctx context.Context, userID uuid.UUID, req *types.GenerateRecipesRequest) (*types.SuggestionBatch, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SuggestionBatch), args.Error(1)
}

func (m *MockGeneratorService) GetBatch(ctx context.Context, id string) (*types.SuggestionBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SuggestionBatch), args.Error(1)
}

// MockExportService is a mock implementation of the ExportService interface
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportHistory(ctx context.Context, userID uuid.UUID) (*types.ExportResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ExportResponse), args.Error(1)
}
