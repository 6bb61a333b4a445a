package models

import (
	"database/sql/driver"
	"encoding/json"
)

// Recipe is a recipe as produced by the generator and echoed back by clients.
// Only ID, Title and IsFavorited carry meaning for history bookkeeping; the
// remaining fields are stored as given.
type Recipe struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Attributes       []string   `json:"attributes,omitempty"`
	Ingredients      []string   `json:"ingredients,omitempty"`
	IngQuantities    []string   `json:"ingQuantities,omitempty"`
	Preparation      [][]string `json:"preparation,omitempty"`
	IsFavorited      bool       `json:"isFavorited"`
	IsVegan          bool       `json:"isVegan"`
	IsGlutenFree     bool       `json:"isGlutenFree"`
	IsVegetarian     bool       `json:"isVegetarian"`
	CuisineEthnicity string     `json:"cuisineEthnicity,omitempty"`
	CaloricApport    int        `json:"caloricApport,omitempty"`
	PreparationTime  int        `json:"preparationTime,omitempty"`
	Difficulty       string     `json:"difficulty,omitempty"`
}

// Value implements the driver.Valuer interface
func (r Recipe) Value() (driver.Value, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (r *Recipe) Scan(value interface{}) error {
	bytes, err := jsonBytes(value)
	if err != nil || bytes == nil {
		*r = Recipe{}
		return err
	}
	return json.Unmarshal(bytes, r)
}
