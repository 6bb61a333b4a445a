package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/pageza/reciperoulette/backend/internal/recipestate"
	"github.com/pageza/reciperoulette/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Signup(ctx context.Context, req *types.SignupRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(token string) (*types.TokenClaims, error)
	ListUsers(ctx context.Context) ([]types.UserSummary, error)
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// IPreferencesService defines the interface for food preference operations
type IPreferencesService interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (*models.Preferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, req *types.UpdatePreferencesRequest) (*models.Preferences, error)
	SetBlacklisted(ctx context.Context, userID uuid.UUID, ingredientID int64, blacklisted bool) (*models.Preferences, error)
	SetPreparationTime(ctx context.Context, userID uuid.UUID, minutes int) (*models.Preferences, error)
	SetCaloricApport(ctx context.Context, userID uuid.UUID, calories int) (*models.Preferences, error)
}

// IIngredientService defines the interface for the ingredient catalog
type IIngredientService interface {
	ListIngredients(ctx context.Context, query string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error)
}

// IRecipeStateService defines the interface for history and favorites.
// It is implemented by recipestate.Engine.
type IRecipeStateService interface {
	ApplyRecipeEvent(ctx context.Context, userID uuid.UUID, recipe models.Recipe) (*recipestate.EventResult, error)
	GetHistory(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	GetFavorites(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	SearchHistory(ctx context.Context, userID uuid.UUID, query string) ([]models.Recipe, error)
}

// IGeneratorService defines the interface for LLM recipe generation
type IGeneratorService interface {
	Generate(ctx context.Context, userID uuid.UUID, req *types.GenerateRecipesRequest) (*types.SuggestionBatch, error)
	GetBatch(ctx context.Context, id string) (*types.SuggestionBatch, error)
}

// IExportService defines the interface for history snapshots
type IExportService interface {
	ExportHistory(ctx context.Context, userID uuid.UUID) (*types.ExportResponse, error)
}

// IEmailService defines the interface for email operations
type IEmailService interface {
	SendEmail(to, subject, body string) error
	SendWelcomeEmail(user *models.User) error
}

var _ IRecipeStateService = (*recipestate.Engine)(nil)
