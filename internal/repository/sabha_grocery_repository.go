package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sabha-admin-api/internal/models"
)

// SabhaGroceryRepository persists sabha menu records.
type SabhaGroceryRepository struct {
	db *sqlx.DB
}

// NewSabhaGroceryRepository constructs the repository.
func NewSabhaGroceryRepository(db *sqlx.DB) *SabhaGroceryRepository {
	return &SabhaGroceryRepository{db: db}
}

// List returns records newest first.
func (r *SabhaGroceryRepository) List(ctx context.Context) ([]models.SabhaGroceryRecord, error) {
	const q = `SELECT id, date, menu, groceries_used, created_at, updated_at FROM sabha_grocery_records ORDER BY date DESC, created_at DESC`
	var records []models.SabhaGroceryRecord
	if err := r.db.SelectContext(ctx, &records, q); err != nil {
		return nil, fmt.Errorf("list sabha grocery records: %w", err)
	}
	return records, nil
}

// CreateWithDeduction inserts the record and draws its groceries down from stock in one transaction.
// A failed deduction leaves neither the record nor any stock change behind.
func (r *SabhaGroceryRepository) CreateWithDeduction(ctx context.Context, record *models.SabhaGroceryRecord) (touched int64, err error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create sabha grocery record: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO sabha_grocery_records (id, date, menu, groceries_used, created_at, updated_at)
        VALUES (:id, :date, :menu, :groceries_used, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, q, record); err != nil {
		return 0, fmt.Errorf("create sabha grocery record: %w", err)
	}
	if touched, err = deductStock(ctx, tx, record.GroceriesUsed, now); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sabha grocery record: %w", err)
	}
	return touched, nil
}

// Delete removes a record.
func (r *SabhaGroceryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sabha_grocery_records WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete sabha grocery record: %w", err)
	}
	return requireAffected(res)
}
