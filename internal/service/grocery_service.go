package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

// GroceryItemRequest creates an inventory item.
type GroceryItemRequest struct {
	Name     string   `json:"name" validate:"required"`
	Quantity *float64 `json:"quantity" validate:"required,gte=0"`
	Unit     string   `json:"unit" validate:"required"`
	MinStock float64  `json:"minStock" validate:"gte=0"`
	ToBuy    bool     `json:"toBuy"`
	Note     string   `json:"note"`
}

// GroceryItemPatch changes the provided fields of an item.
type GroceryItemPatch struct {
	Name     *string  `json:"name" validate:"omitempty,min=1"`
	Quantity *float64 `json:"quantity" validate:"omitempty,gte=0"`
	Unit     *string  `json:"unit" validate:"omitempty,min=1"`
	MinStock *float64 `json:"minStock" validate:"omitempty,gte=0"`
	ToBuy    *bool    `json:"toBuy"`
	Note     *string  `json:"note"`
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// GroceryService manages the grocery inventory.
type GroceryService struct {
	repo      GroceryStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGroceryService constructs the service.
func NewGroceryService(repo GroceryStore, validate *validator.Validate, logger *zap.Logger) *GroceryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroceryService{repo: repo, validator: validate, logger: logger}
}

// List returns every item by name.
func (s *GroceryService) List(ctx context.Context) ([]models.GroceryItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grocery items")
	}
	return items, nil
}

// ShoppingList returns the items that need buying.
func (s *GroceryService) ShoppingList(ctx context.Context) ([]models.GroceryItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.GroceryItem, 0, len(items))
	for _, item := range items {
		if item.NeedsRestock() {
			out = append(out, item)
		}
	}
	return out, nil
}

// Create adds an item.
func (s *GroceryService) Create(ctx context.Context, req GroceryItemRequest) (*models.GroceryItem, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Unit = strings.TrimSpace(req.Unit)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, quantity and unit are required")
	}
	item := &models.GroceryItem{
		Name:     req.Name,
		Quantity: *req.Quantity,
		Unit:     req.Unit,
		MinStock: req.MinStock,
		ToBuy:    req.ToBuy,
		Note:     strings.TrimSpace(req.Note),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grocery item")
	}
	return item, nil
}

// Update applies a patch to an item.
func (s *GroceryService) Update(ctx context.Context, id string, patch GroceryItemPatch) (*models.GroceryItem, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Validation("Item ID is required")
	}
	patch.Name, patch.Unit, patch.Note = trimmed(patch.Name), trimmed(patch.Unit), trimmed(patch.Note)
	if err := s.validator.Struct(patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grocery item payload")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Item not found", "failed to load grocery item")
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		item.Unit = *patch.Unit
	}
	if patch.MinStock != nil {
		item.MinStock = *patch.MinStock
	}
	if patch.ToBuy != nil {
		item.ToBuy = *patch.ToBuy
	}
	if patch.Note != nil {
		item.Note = *patch.Note
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, storeError(err, "Item not found", "failed to update grocery item")
	}
	return item, nil
}

// Delete removes an item.
func (s *GroceryService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Validation("Item ID is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "Item not found", "failed to delete grocery item")
	}
	return nil
}
