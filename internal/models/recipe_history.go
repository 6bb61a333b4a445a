package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// RecipeHistoryEntry is one recipe a user has seen. The user's history is the
// set of their entries ordered by Rank, and their favorites are the entries
// with IsFavorited set; there is no separate favorites table.
type RecipeHistoryEntry struct {
	ID          uuid.UUID       `gorm:"type:uuid;primarykey" json:"-"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_history_user_key,priority:1;index:idx_history_user_rank,priority:1" json:"-"`
	User        *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	IdentityKey string          `gorm:"type:text;not null;uniqueIndex:idx_history_user_key,priority:2" json:"-"`
	RecipeID    int64           `gorm:"not null" json:"-"`
	Title       string          `gorm:"type:text;not null" json:"-"`
	IsFavorited bool            `gorm:"not null;default:false" json:"-"`
	Rank        int64           `gorm:"not null;index:idx_history_user_rank,priority:2" json:"-"`
	VisitedAt   time.Time       `gorm:"not null" json:"visited_at"`
	FavoritedAt *time.Time      `json:"favorited_at,omitempty"`
	Payload     Recipe          `gorm:"type:jsonb;not null" json:"recipe"`
	Embedding   pgvector.Vector `gorm:"type:vector(3)" json:"-"`
}

func (RecipeHistoryEntry) TableName() string {
	return "recipe_history_entries"
}

// BeforeCreate assigns the primary key when the caller did not.
func (e *RecipeHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// AsRecipe returns the stored recipe with the favorite flag taken from the row.
func (e *RecipeHistoryEntry) AsRecipe() Recipe {
	r := e.Payload
	r.IsFavorited = e.IsFavorited
	return r
}
