package models

// Ingredient is an entry of the ingredient catalog users pick from.
type Ingredient struct {
	ID       int64  `gorm:"primarykey" json:"id"`
	Name     string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category string `gorm:"size:50" json:"category"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
