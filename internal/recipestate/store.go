package recipestate

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/reciperoulette/backend/internal/database"
	"github.com/pageza/reciperoulette/backend/internal/models"
)

// Store reads and writes history rows. A Store returned by a Coordinator
// transaction is bound to that transaction; the Store built with NewStore
// reads the latest committed rows.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store over the given database handle
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) withTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

func (s *Store) isPostgres() bool {
	return s.db.Dialector.Name() == "postgres"
}

// LockUser takes the row lock on the user. On postgres this is
// SELECT ... FOR UPDATE and blocks until concurrent holders commit; other
// dialects only check that the user exists.
func (s *Store) LockUser(ctx context.Context, userID uuid.UUID) error {
	query := s.db.WithContext(ctx).Model(&models.User{}).Select("id").Where("id = ?", userID)
	if s.isPostgres() {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var user models.User
	if err := query.Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return storageError("lock user", err)
	}
	return nil
}

// FindByKey returns the user's entry with the given identity key, or nil.
func (s *Store) FindByKey(ctx context.Context, userID uuid.UUID, key string) (*models.RecipeHistoryEntry, error) {
	var entry models.RecipeHistoryEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND identity_key = ?", userID, key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("find history entry", err)
	}
	return &entry, nil
}

// MaxRank returns the rank of the user's most recent entry, 0 when empty.
func (s *Store) MaxRank(ctx context.Context, userID uuid.UUID) (int64, error) {
	var rank int64
	err := s.db.WithContext(ctx).
		Model(&models.RecipeHistoryEntry{}).
		Select("COALESCE(MAX(rank), 0)").
		Where("user_id = ?", userID).
		Scan(&rank).Error
	if err != nil {
		return 0, storageError("read max rank", err)
	}
	return rank, nil
}

// Insert writes a new entry.
func (s *Store) Insert(ctx context.Context, entry *models.RecipeHistoryEntry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return storageError("insert history entry", err)
	}
	return nil
}

// Update overwrites every column of an existing entry.
func (s *Store) Update(ctx context.Context, entry *models.RecipeHistoryEntry) error {
	result := s.db.WithContext(ctx).Model(entry).Select("*").Omit("id", "user_id").Updates(entry)
	if result.Error != nil {
		return storageError("update history entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return storageError("update history entry", gorm.ErrRecordNotFound)
	}
	return nil
}

// History returns the user's entries, most recent first.
func (s *Store) History(ctx context.Context, userID uuid.UUID) ([]models.RecipeHistoryEntry, error) {
	var entries []models.RecipeHistoryEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("rank DESC").
		Find(&entries).Error; err != nil {
		return nil, storageError("read history", err)
	}
	return entries, nil
}

// Favorites returns the user's favorited entries, newest favorite first.
func (s *Store) Favorites(ctx context.Context, userID uuid.UUID) ([]models.RecipeHistoryEntry, error) {
	var entries []models.RecipeHistoryEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_favorited = ?", userID, true).
		Order("favorited_at DESC").
		Order("rank DESC").
		Find(&entries).Error; err != nil {
		return nil, storageError("read favorites", err)
	}
	return entries, nil
}

// Search returns the user's entries whose title contains query literally,
// ignoring case. On postgres ingredients match too, and the matches are
// ordered by embedding distance to the query.
func (s *Store) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.RecipeHistoryEntry, error) {
	like := database.ContainsPattern(strings.ToLower(query))
	dbQuery := s.db.WithContext(ctx).Where("user_id = ?", userID)

	if s.isPostgres() {
		dbQuery = dbQuery.
			Where("LOWER(title) LIKE ? "+database.LikeEscape+" OR LOWER(payload->>'ingredients') LIKE ? "+database.LikeEscape, like, like).
			Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{Embed(query)}},
			})
	} else {
		dbQuery = dbQuery.Where("LOWER(title) LIKE ? "+database.LikeEscape, like).Order("rank DESC")
	}

	var entries []models.RecipeHistoryEntry
	if err := dbQuery.Find(&entries).Error; err != nil {
		return nil, storageError("search history", err)
	}
	return entries, nil
}
