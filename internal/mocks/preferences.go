package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/pageza/reciperoulette/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockPreferencesService is a mock implementation of the PreferencesService interface
type MockPreferencesService struct {
	mock.Mock
}

func (m *MockPreferencesService) result(args mock.Arguments) (*models.Preferences, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Preferences), args.Error(1)
}

func (m *MockPreferencesService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.Preferences, error) {
	return m.result(m.Called(ctx, userID))
}

func (m *MockPreferencesService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req *types.UpdatePreferencesRequest) (*models.Preferences, error) {
	return m.result(m.Called(ctx, userID, req))
}

func (m *MockPreferencesService) SetBlacklisted(ctx context.Context, userID uuid.UUID, ingredientID int64, blacklisted bool) (*models.Preferences, error) {
	return m.result(m.Called(ctx, userID, ingredientID, blacklisted))
}

func (m *MockPreferencesService) SetPreparationTime(ctx context.Context, userID uuid.UUID, minutes int) (*models.Preferences, error) {
	return m.result(m.Called(ctx, userID, minutes))
}

func (m *MockPreferencesService) SetCaloricApport(ctx context.Context, userID uuid.UUID, calories int) (*models.Preferences, error) {
	return m.result(m.Called(ctx, userID, calories))
}

// MockIngredientService is a mock implementation of the IngredientService interface
type MockIngredientService struct {
	mock.Mock
}

func (m *MockIngredientService) ListIngredients(ctx context.Context, query string) ([]models.Ingredient, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientService) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}
