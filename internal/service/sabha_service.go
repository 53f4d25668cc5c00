package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

// SabhaRecordRequest logs a sabha menu.
type SabhaRecordRequest struct {
	Date          string                `json:"date" validate:"required"`
	Menu          string                `json:"menu" validate:"required"`
	GroceriesUsed []models.GroceryUsage `json:"groceriesUsed" validate:"dive"`
}

// SabhaService records sabha menus and draws down the inventory they used.
type SabhaService struct {
	records   SabhaStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSabhaService constructs the service.
func NewSabhaService(records SabhaStore, validate *validator.Validate, logger *zap.Logger) *SabhaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SabhaService{records: records, validator: validate, logger: logger}
}

// List returns records newest first.
func (s *SabhaService) List(ctx context.Context) ([]models.SabhaGroceryRecord, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sabha grocery records")
	}
	return records, nil
}

// Create stores the record and deducts each used quantity from the item of the same name in one
// store call. It returns how many inventory items were adjusted.
func (s *SabhaService) Create(ctx context.Context, req SabhaRecordRequest) (*models.SabhaGroceryRecord, int64, error) {
	req.Menu = strings.TrimSpace(req.Menu)
	for i := range req.GroceriesUsed {
		req.GroceriesUsed[i].Name = strings.TrimSpace(req.GroceriesUsed[i].Name)
		req.GroceriesUsed[i].Unit = strings.TrimSpace(req.GroceriesUsed[i].Unit)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date, menu and complete grocery entries are required")
	}
	day, err := query.ParseDay(req.Date)
	if err != nil {
		return nil, 0, err
	}

	record := &models.SabhaGroceryRecord{Date: day.Start, Menu: req.Menu, GroceriesUsed: req.GroceriesUsed}
	if record.GroceriesUsed == nil {
		record.GroceriesUsed = models.GroceryUsages{}
	}
	touched, err := s.records.CreateWithDeduction(ctx, record)
	if err != nil {
		s.logger.Error("sabha grocery record not stored", zap.String("menu", record.Menu), zap.Error(err))
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sabha grocery record")
	}
	s.logger.Info("sabha grocery recorded", zap.String("record_id", record.ID), zap.Int64("items_adjusted", touched))
	return record, touched, nil
}

// Delete removes a record. Stock is not restored.
func (s *SabhaService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Validation("Record ID is required")
	}
	if err := s.records.Delete(ctx, id); err != nil {
		return storeError(err, "Record not found", "failed to delete sabha grocery record")
	}
	return nil
}
