package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// GroceryItem is one stocked ingredient.
type GroceryItem struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Quantity  float64   `db:"quantity" json:"quantity"`
	Unit      string    `db:"unit" json:"unit"`
	MinStock  float64   `db:"min_stock" json:"minStock"`
	ToBuy     bool      `db:"to_buy" json:"toBuy"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NeedsRestock reports whether the item belongs on the shopping list.
func (g GroceryItem) NeedsRestock() bool {
	return g.ToBuy || (g.MinStock > 0 && g.Quantity <= g.MinStock)
}

// GroceryUsage is an ingredient consumed by a sabha meal.
type GroceryUsage struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Unit     string  `json:"unit" validate:"required"`
}

// GroceryUsages is persisted as a JSONB column.
type GroceryUsages []GroceryUsage

// Value implements driver.Valuer.
func (u GroceryUsages) Value() (driver.Value, error) {
	if u == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(u)
}

// Scan implements sql.Scanner.
func (u *GroceryUsages) Scan(src interface{}) error {
	return scanJSON(src, u)
}

// SabhaGroceryRecord logs the menu cooked for a sabha and what it used up.
type SabhaGroceryRecord struct {
	ID            string        `db:"id" json:"id"`
	Date          time.Time     `db:"date" json:"date"`
	Menu          string        `db:"menu" json:"menu"`
	GroceriesUsed GroceryUsages `db:"groceries_used" json:"groceriesUsed"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}
