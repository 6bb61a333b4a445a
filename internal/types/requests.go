package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/reciperoulette/backend/internal/models"
)

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Token    string    `json:"token"`
}

// UserSummary is the public view of an account
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdatePreferencesRequest replaces the dietary flags and preferred cuisines.
// Omitted fields are left unchanged.
type UpdatePreferencesRequest struct {
	DietaryPreferences *models.DietaryFlags `json:"dietaryPreferences"`
	PreferredCuisines  []string             `json:"preferredCuisines"`
}

// BlacklistRequest adds or removes an ingredient from the blacklist
type BlacklistRequest struct {
	IngredientID  int64 `json:"ingredientId" binding:"required"`
	IsBlacklisted *bool `json:"isBlacklisted" binding:"required"`
}

type PrepTimeRequest struct {
	PrepTime int `json:"prepTime" binding:"required,gt=0"`
}

type CaloricApportRequest struct {
	CaloricApport int `json:"caloricApport" binding:"required,gt=0"`
}

// GenerateRecipesRequest represents the request body for recipe generation
type GenerateRecipesRequest struct {
	Ingredients      []string `json:"ingredients" binding:"required,min=1"`
	PrepTime         int      `json:"prepTime" binding:"required,gt=0"`
	CaloricApport    int      `json:"caloricApport" binding:"required,gt=0"`
	CuisineEthnicity []string `json:"cuisineEthnicity" binding:"required,min=1"`
	Preferences      string   `json:"preferences"`
	Difficulty       string   `json:"difficulty" binding:"required,oneof=easy medium hard"`
}

// SuggestionBatch is one generated set of recipes, fetchable by ID while cached
type SuggestionBatch struct {
	ID        string          `json:"id"`
	Recipes   []models.Recipe `json:"recipes"`
	CreatedAt time.Time       `json:"created_at"`
}

// ExportResponse points at an uploaded history snapshot
type ExportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Count     int       `json:"count"`
	ExpiresAt time.Time `json:"expires_at"`
}
