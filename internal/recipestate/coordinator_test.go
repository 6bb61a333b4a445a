package recipestate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/reciperoulette/backend/internal/models"
	"github.com/pageza/reciperoulette/backend/internal/testhelpers"
)

func TestWithTransactionReturnsFnErrorUnchanged(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	store := NewStore(db)
	coord := NewCoordinator(store, 0)
	user := testhelpers.CreateTestUser(t, db, "chef")
	ctx := context.Background()

	boom := errors.New("boom")
	err := coord.WithTransaction(ctx, user.ID, func(ctx context.Context, tx *Store) error {
		entry := &models.RecipeHistoryEntry{
			UserID:      user.ID,
			IdentityKey: "7Chili",
			RecipeID:    7,
			Title:       "Chili",
			Rank:        1,
			VisitedAt:   time.Now().UTC(),
			Payload:     models.Recipe{ID: 7, Title: "Chili"},
			Embedding:   Embed("Chili"),
		}
		require.NoError(t, tx.Insert(ctx, entry))
		return boom
	})
	assert.Equal(t, boom, err)

	// the insert was rolled back
	entry, err := store.FindByKey(ctx, user.ID, "7Chili")
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Zero(t, coord.locks.size())
}

func TestWithTransactionUnknownUser(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	coord := NewCoordinator(NewStore(db), 0)

	called := false
	err := coord.WithTransaction(context.Background(), uuid.New(), func(ctx context.Context, tx *Store) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, called)
}

func TestWithTransactionTimesOutWaitingForLock(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	coord := NewCoordinator(NewStore(db), 100*time.Millisecond)
	user := testhelpers.CreateTestUser(t, db, "chef")
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		// This scope outlives its own deadline; its result is irrelevant here.
		_ = coord.WithTransaction(ctx, user.ID, func(ctx context.Context, tx *Store) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := coord.WithTransaction(ctx, user.ID, func(ctx context.Context, tx *Store) error {
		return errors.New("must not run while the user is locked")
	})
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-done
	assert.Zero(t, coord.locks.size())
}

func TestConcurrentEventsForOneUser(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	store := NewStore(db)
	engine := NewEngine(store, NewCoordinator(store, 0), dbDirectory{db: db})
	user := testhelpers.CreateTestUser(t, db, "chef")
	ctx := context.Background()

	const n = 20
	var g errgroup.Group
	for i := 1; i <= n; i++ {
		id := int64(i)
		g.Go(func() error {
			_, err := engine.ApplyRecipeEvent(ctx, user.ID, models.Recipe{
				ID:          id,
				Title:       fmt.Sprintf("Recipe %d", id),
				IsFavorited: id%2 == 0,
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	history, err := engine.GetHistory(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, history, n)

	favorites, err := engine.GetFavorites(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, n/2)

	// ranks stay unique under contention
	var ranks []int64
	require.NoError(t, db.Model(&models.RecipeHistoryEntry{}).Pluck("rank", &ranks).Error)
	seen := make(map[int64]bool, len(ranks))
	for _, rank := range ranks {
		assert.False(t, seen[rank], "rank %d assigned twice", rank)
		seen[rank] = true
	}
	assert.Len(t, seen, n)
	assert.Zero(t, engine.coordinator.locks.size())
}

func TestConcurrentFavoriteToggles(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	store := NewStore(db)
	engine := NewEngine(store, NewCoordinator(store, 0), dbDirectory{db: db})
	user := testhelpers.CreateTestUser(t, db, "chef")
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		favorited := i%2 == 0
		g.Go(func() error {
			_, err := engine.ApplyRecipeEvent(ctx, user.ID, models.Recipe{ID: 7, Title: "Chili", IsFavorited: favorited})
			return err
		})
	}
	require.NoError(t, g.Wait())

	history, err := engine.GetHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	favorites, err := engine.GetFavorites(ctx, user.ID)
	require.NoError(t, err)
	// whichever event ran last, favorites agrees with the history flag
	if history[0].IsFavorited {
		assert.Len(t, favorites, 1)
	} else {
		assert.Empty(t, favorites)
	}
}

func TestUserLocks(t *testing.T) {
	locks := newUserLocks()
	alice, bob := uuid.New(), uuid.New()

	releaseAlice, err := locks.acquire(context.Background(), alice)
	require.NoError(t, err)

	t.Run("other users are not blocked", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		releaseBob, err := locks.acquire(ctx, bob)
		require.NoError(t, err)
		releaseBob()
	})

	t.Run("same user waits until released", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := locks.acquire(ctx, alice)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	assert.Equal(t, 1, locks.size())
	releaseAlice()
	assert.Zero(t, locks.size())

	releaseAgain, err := locks.acquire(context.Background(), alice)
	require.NoError(t, err)
	releaseAgain()
	assert.Zero(t, locks.size())
}
