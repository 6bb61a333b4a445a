package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DietaryFlags is stored as a single JSONB document on the preferences row.
type DietaryFlags struct {
	IsGlutenFree bool `json:"isGlutenFree"`
	IsVegan      bool `json:"isVegan"`
	IsVegetarian bool `json:"isVegetarian"`
}

// Value implements the driver.Valuer interface
func (d DietaryFlags) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (d *DietaryFlags) Scan(value interface{}) error {
	bytes, err := jsonBytes(value)
	if err != nil || bytes == nil {
		*d = DietaryFlags{}
		return err
	}
	return json.Unmarshal(bytes, d)
}

// Preferences holds a user's food preferences. One row per user, created at signup.
type Preferences struct {
	ID                       uuid.UUID        `gorm:"type:uuid;primarykey" json:"id"`
	UserID                   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	BlacklistedIngredients   JSONBIntArray    `gorm:"type:jsonb;not null" json:"blacklistedIngredients"`
	PreferredCuisines        JSONBStringArray `gorm:"type:jsonb;not null" json:"preferredCuisines"`
	DietaryPreferences       DietaryFlags     `gorm:"type:jsonb;not null" json:"dietaryPreferences"`
	PreferredPreparationTime int              `json:"preferredPreparationTime"`
	PreferredCaloricApport   int              `json:"preferredCaloricApport"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
}

func (Preferences) TableName() string {
	return "preferences"
}

// BeforeCreate assigns the primary key when the caller did not.
func (p *Preferences) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewPreferences returns the empty preferences a fresh account starts with.
func NewPreferences(userID uuid.UUID) *Preferences {
	return &Preferences{
		UserID:                 userID,
		BlacklistedIngredients: JSONBIntArray{},
		PreferredCuisines:      JSONBStringArray{},
	}
}
