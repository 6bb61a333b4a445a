package recipestate

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/pageza/reciperoulette/backend/internal/testhelpers"
)

func TestPostgresStore(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	ctx := context.Background()

	t.Run("favorite lifecycle", func(t *testing.T) {
		engine := newTestEngine(t, db)
		user := testhelpers.CreateTestUser(t, db, "pg_chef")

		mustApply(t, engine, user.ID, recipe(7, "Chili", true))
		favorites, err := engine.GetFavorites(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Chili"}, titles(favorites))

		mustApply(t, engine, user.ID, recipe(7, "Chili", false))
		favorites, err = engine.GetFavorites(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, favorites)

		history, err := engine.GetHistory(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.False(t, history[0].IsFavorited)
	})

	t.Run("row lock serializes separate coordinators", func(t *testing.T) {
		user := testhelpers.CreateTestUser(t, db, "pg_racer")
		store := NewStore(db)

		// Two coordinators share no in-process lock, as with two API replicas.
		engines := []*Engine{
			NewEngine(store, NewCoordinator(store, 0), dbDirectory{db: db}),
			NewEngine(store, NewCoordinator(store, 0), dbDirectory{db: db}),
		}

		const n = 30
		var g errgroup.Group
		for i := 1; i <= n; i++ {
			id := int64(i)
			engine := engines[i%2]
			g.Go(func() error {
				_, err := engine.ApplyRecipeEvent(ctx, user.ID, models.Recipe{
					ID:    id,
					Title: fmt.Sprintf("Recipe %d", id),
				})
				return err
			})
		}
		require.NoError(t, g.Wait())

		history, err := engines[0].GetHistory(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, history, n)

		var distinct int64
		require.NoError(t, db.Model(&models.RecipeHistoryEntry{}).
			Where("user_id = ?", user.ID).
			Distinct("rank").
			Count(&distinct).Error)
		assert.Equal(t, int64(n), distinct)
	})

	t.Run("search matches ingredients", func(t *testing.T) {
		engine := newTestEngine(t, db)
		user := testhelpers.CreateTestUser(t, db, "pg_searcher")

		stew := recipe(1, "Winter stew", false)
		stew.Ingredients = []string{"beef", "carrot"}
		mustApply(t, engine, user.ID, stew)
		mustApply(t, engine, user.ID, recipe(2, "Carrot cake", false))
		mustApply(t, engine, user.ID, recipe(3, "Pancakes", false))

		results, err := engine.SearchHistory(ctx, user.ID, "carrot")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Winter stew", "Carrot cake"}, titles(results))
	})
}
