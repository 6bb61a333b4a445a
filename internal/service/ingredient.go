package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pageza/reciperoulette/backend/internal/database"
	"github.com/pageza/reciperoulette/backend/internal/models"
	"gorm.io/gorm"
)

const ingredientCacheSize = 1024

// IngredientService serves the ingredient catalog. The catalog only changes
// when it is reseeded, so lookups are cached in memory.
type IngredientService struct {
	db    *gorm.DB
	byID  *lru.Cache
	lists *lru.Cache
}

func NewIngredientService(db *gorm.DB) (*IngredientService, error) {
	byID, err := lru.New(ingredientCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient cache: %w", err)
	}
	lists, err := lru.New(ingredientCacheSize / 8)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient list cache: %w", err)
	}
	return &IngredientService{db: db, byID: byID, lists: lists}, nil
}

// ListIngredients returns the catalog sorted by name, filtered by a
// case-insensitive substring when query is not empty
func (s *IngredientService) ListIngredients(ctx context.Context, query string) ([]models.Ingredient, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if cached, ok := s.lists.Get(query); ok {
		return slices.Clone(cached.([]models.Ingredient)), nil
	}

	dbQuery := s.db.WithContext(ctx).Order("name")
	if query != "" {
		dbQuery = dbQuery.Where("LOWER(name) LIKE ? "+database.LikeEscape, database.ContainsPattern(query))
	}

	var ingredients []models.Ingredient
	if err := dbQuery.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	// callers own the returned slice
	s.lists.Add(query, slices.Clone(ingredients))
	for _, ing := range ingredients {
		s.byID.Add(ing.ID, ing)
	}
	return ingredients, nil
}

// GetIngredient returns one catalog entry
func (s *IngredientService) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	if cached, ok := s.byID.Get(id); ok {
		ing := cached.(models.Ingredient)
		return &ing, nil
	}

	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}

	s.byID.Add(id, ing)
	return &ing, nil
}

// Purge drops every cached lookup, used after reseeding
func (s *IngredientService) Purge() {
	s.byID.Purge()
	s.lists.Purge()
}
