package recipestate

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pageza/reciperoulette/backend/internal/models"
)

// UserDirectory answers whether a user account exists.
type UserDirectory interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Action describes what an event did to the user's history.
type Action string

const (
	// ActionInserted means the recipe was new and was put at the front.
	ActionInserted Action = "inserted"
	// ActionUpdated means only the favorite flag changed; position kept.
	ActionUpdated Action = "updated"
	// ActionMoved means the recipe was revisited and moved to the front.
	ActionMoved Action = "moved"
)

// EventResult acknowledges an applied event.
type EventResult struct {
	Action      Action `json:"action"`
	IdentityKey string `json:"identityKey"`
}

// Engine applies viewed/favorited/unfavorited events to users' history.
type Engine struct {
	store       *Store
	coordinator *Coordinator
	users       UserDirectory
	now         func() time.Time
}

// NewEngine creates a new Engine
func NewEngine(store *Store, coordinator *Coordinator, users UserDirectory) *Engine {
	return &Engine{
		store:       store,
		coordinator: coordinator,
		users:       users,
		now:         time.Now,
	}
}

// ApplyRecipeEvent merges one recipe event into the user's history:
//
//   - unknown key: the recipe is inserted at the front;
//   - known key, favorite flag changed: the flag is updated in place;
//   - known key, flag unchanged: the entry is replaced and moved to the front.
//
// Favorites are the entries whose flag is set, so a favorited recipe is listed
// exactly once and an unfavorited one disappears from favorites while staying
// in history.
func (e *Engine) ApplyRecipeEvent(ctx context.Context, userID uuid.UUID, recipe models.Recipe) (*EventResult, error) {
	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}
	if err := e.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	result := &EventResult{IdentityKey: IdentityKey(recipe)}
	err := e.coordinator.WithTransaction(ctx, userID, func(ctx context.Context, store *Store) error {
		existing, err := store.FindByKey(ctx, userID, result.IdentityKey)
		if err != nil {
			return err
		}
		now := e.now().UTC()

		if existing != nil && existing.IsFavorited != recipe.IsFavorited {
			setFavorited(existing, recipe.IsFavorited, now)
			existing.VisitedAt = now
			result.Action = ActionUpdated
			return store.Update(ctx, existing)
		}

		front, err := store.MaxRank(ctx, userID)
		if err != nil {
			return err
		}

		if existing == nil {
			entry := &models.RecipeHistoryEntry{
				UserID:      userID,
				IdentityKey: result.IdentityKey,
				RecipeID:    recipe.ID,
				Title:       recipe.Title,
				Rank:        front + 1,
				VisitedAt:   now,
				Payload:     recipe,
				Embedding:   embedRecipe(recipe),
			}
			setFavorited(entry, recipe.IsFavorited, now)
			result.Action = ActionInserted
			return store.Insert(ctx, entry)
		}

		existing.RecipeID = recipe.ID
		existing.Title = recipe.Title
		existing.Payload = recipe
		existing.Embedding = embedRecipe(recipe)
		existing.Rank = front + 1
		existing.VisitedAt = now
		result.Action = ActionMoved
		return store.Update(ctx, existing)
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"key":     result.IdentityKey,
		}).WithError(err).Warn("recipe event rejected")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"key":     result.IdentityKey,
		"action":  result.Action,
	}).Debug("recipe event applied")
	return result, nil
}

// GetHistory returns the user's recipes, most recently touched first.
func (e *Engine) GetHistory(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	if err := e.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	entries, err := e.store.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toRecipes(entries), nil
}

// GetFavorites returns the user's favorited recipes. Order carries no meaning.
func (e *Engine) GetFavorites(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	if err := e.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	entries, err := e.store.Favorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toRecipes(entries), nil
}

// SearchHistory returns the user's history entries matching query.
func (e *Engine) SearchHistory(ctx context.Context, userID uuid.UUID, query string) ([]models.Recipe, error) {
	if strings.TrimSpace(query) == "" {
		return nil, invalidArgument("search query is required")
	}
	if err := e.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	entries, err := e.store.Search(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return toRecipes(entries), nil
}

func (e *Engine) ensureUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := e.users.UserExists(ctx, userID)
	if err != nil {
		return storageError("look up user", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func validateRecipe(r models.Recipe) error {
	if r.ID == 0 {
		return invalidArgument("recipe id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return invalidArgument("recipe title is required")
	}
	return nil
}

func setFavorited(entry *models.RecipeHistoryEntry, favorited bool, now time.Time) {
	entry.IsFavorited = favorited
	entry.Payload.IsFavorited = favorited
	if favorited {
		entry.FavoritedAt = &now
	} else {
		entry.FavoritedAt = nil
	}
}

func toRecipes(entries []models.RecipeHistoryEntry) []models.Recipe {
	recipes := make([]models.Recipe, len(entries))
	for i := range entries {
		recipes[i] = entries[i].AsRecipe()
	}
	return recipes
}
