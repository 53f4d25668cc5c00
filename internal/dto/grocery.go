package dto

import (
	"time"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
)

// GroceryItemsResponse lists inventory items.
type GroceryItemsResponse struct {
	Items []models.GroceryItem `json:"items"`
}

// GroceryItemResponse wraps one item.
type GroceryItemResponse struct {
	Item models.GroceryItem `json:"item"`
}

// SabhaRecordView renders a sabha record with a calendar date.
type SabhaRecordView struct {
	ID            string                `json:"id"`
	Date          string                `json:"date"`
	Menu          string                `json:"menu"`
	GroceriesUsed []models.GroceryUsage `json:"groceriesUsed"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// NewSabhaRecordView renders a record.
func NewSabhaRecordView(r models.SabhaGroceryRecord) SabhaRecordView {
	used := []models.GroceryUsage(r.GroceriesUsed)
	if used == nil {
		used = []models.GroceryUsage{}
	}
	return SabhaRecordView{
		ID:            r.ID,
		Date:          query.FormatDay(r.Date),
		Menu:          r.Menu,
		GroceriesUsed: used,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// SabhaRecordsResponse lists sabha records.
type SabhaRecordsResponse struct {
	Records []SabhaRecordView `json:"records"`
}

// SabhaRecordResponse wraps a created record and the number of inventory items it drew down.
type SabhaRecordResponse struct {
	Record        SabhaRecordView `json:"record"`
	ItemsAdjusted int64           `json:"itemsAdjusted"`
}
