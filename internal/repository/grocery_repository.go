package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sabha-admin-api/internal/models"
)

const groceryColumns = "id, name, quantity, unit, min_stock, to_buy, note, created_at, updated_at"

// GroceryRepository persists grocery inventory.
type GroceryRepository struct {
	db *sqlx.DB
}

// NewGroceryRepository constructs the repository.
func NewGroceryRepository(db *sqlx.DB) *GroceryRepository {
	return &GroceryRepository{db: db}
}

// List returns every item sorted by name.
func (r *GroceryRepository) List(ctx context.Context) ([]models.GroceryItem, error) {
	var items []models.GroceryItem
	if err := r.db.SelectContext(ctx, &items, fmt.Sprintf("SELECT %s FROM grocery_items ORDER BY name ASC", groceryColumns)); err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}
	return items, nil
}

// FindByID fetches a single item.
func (r *GroceryRepository) FindByID(ctx context.Context, id string) (*models.GroceryItem, error) {
	var item models.GroceryItem
	if err := r.db.GetContext(ctx, &item, fmt.Sprintf("SELECT %s FROM grocery_items WHERE id = $1", groceryColumns), id); err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// Create inserts an item.
func (r *GroceryRepository) Create(ctx context.Context, item *models.GroceryItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	const q = `INSERT INTO grocery_items (id, name, quantity, unit, min_stock, to_buy, note, created_at, updated_at)
        VALUES (:id, :name, :quantity, :unit, :min_stock, :to_buy, :note, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, item); err != nil {
		return fmt.Errorf("create grocery item: %w", err)
	}
	return nil
}

// Update rewrites an item.
func (r *GroceryRepository) Update(ctx context.Context, item *models.GroceryItem) error {
	item.UpdatedAt = time.Now().UTC()
	const q = `UPDATE grocery_items SET name = :name, quantity = :quantity, unit = :unit, min_stock = :min_stock,
        to_buy = :to_buy, note = :note, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, item)
	if err != nil {
		return fmt.Errorf("update grocery item: %w", err)
	}
	return requireAffected(res)
}

// Delete removes an item.
func (r *GroceryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM grocery_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete grocery item: %w", err)
	}
	return requireAffected(res)
}

// deductStock subtracts used quantities from items with matching names inside tx, never going below
// zero. It returns how many items were touched.
func deductStock(ctx context.Context, tx *sqlx.Tx, used []models.GroceryUsage, now time.Time) (int64, error) {
	const q = `UPDATE grocery_items SET quantity = GREATEST(quantity - $1, 0), updated_at = $2 WHERE name = $3`
	var touched int64
	for _, u := range used {
		res, err := tx.ExecContext(ctx, q, u.Quantity, now, u.Name)
		if err != nil {
			return 0, fmt.Errorf("deduct %s: %w", u.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		touched += n
	}
	return touched, nil
}
