package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/pageza/reciperoulette/backend/internal/types"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferencesService struct {
	db          *gorm.DB
	ingredients IIngredientService
}

func NewPreferencesService(db *gorm.DB, ingredients IIngredientService) *PreferencesService {
	return &PreferencesService{
		db:          db,
		ingredients: ingredients,
	}
}

func (s *PreferencesService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return &prefs, nil
}

func (s *PreferencesService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req *types.UpdatePreferencesRequest) (*models.Preferences, error) {
	return s.modify(ctx, userID, func(prefs *models.Preferences) {
		if req.DietaryPreferences != nil {
			prefs.DietaryPreferences = *req.DietaryPreferences
		}
		if req.PreferredCuisines != nil {
			prefs.PreferredCuisines = models.JSONBStringArray(req.PreferredCuisines)
		}
	})
}

// SetBlacklisted adds or removes an ingredient from the user's blacklist.
// Adding an ingredient already listed is a no-op.
func (s *PreferencesService) SetBlacklisted(ctx context.Context, userID uuid.UUID, ingredientID int64, blacklisted bool) (*models.Preferences, error) {
	if _, err := s.ingredients.GetIngredient(ctx, ingredientID); err != nil {
		return nil, err
	}

	return s.modify(ctx, userID, func(prefs *models.Preferences) {
		if blacklisted {
			if !prefs.BlacklistedIngredients.Contains(ingredientID) {
				prefs.BlacklistedIngredients = append(prefs.BlacklistedIngredients, ingredientID)
			}
			return
		}
		prefs.BlacklistedIngredients = prefs.BlacklistedIngredients.Without(ingredientID)
	})
}

func (s *PreferencesService) SetPreparationTime(ctx context.Context, userID uuid.UUID, minutes int) (*models.Preferences, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("%w: preparation time must be positive, got %d", ErrInvalidValue, minutes)
	}
	return s.modify(ctx, userID, func(prefs *models.Preferences) {
		prefs.PreferredPreparationTime = minutes
	})
}

func (s *PreferencesService) SetCaloricApport(ctx context.Context, userID uuid.UUID, calories int) (*models.Preferences, error) {
	if calories <= 0 {
		return nil, fmt.Errorf("%w: caloric apport must be positive, got %d", ErrInvalidValue, calories)
	}
	return s.modify(ctx, userID, func(prefs *models.Preferences) {
		prefs.PreferredCaloricApport = calories
	})
}

// modify loads the row under lock, applies change and saves it
func (s *PreferencesService) modify(ctx context.Context, userID uuid.UUID, change func(*models.Preferences)) (*models.Preferences, error) {
	var prefs models.Preferences
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ?", userID)
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&prefs).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPreferencesNotFound
			}
			return err
		}

		change(&prefs)
		return tx.Save(&prefs).Error
	})
	if err != nil {
		if errors.Is(err, ErrPreferencesNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	logrus.WithField("user_id", userID).Debug("preferences updated")
	return &prefs, nil
}
