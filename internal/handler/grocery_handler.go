package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sabha-admin-api/internal/dto"
	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/service"
	"github.com/noah-isme/sabha-admin-api/pkg/response"
)

type groceryService interface {
	List(ctx context.Context) ([]models.GroceryItem, error)
	ShoppingList(ctx context.Context) ([]models.GroceryItem, error)
	Create(ctx context.Context, req service.GroceryItemRequest) (*models.GroceryItem, error)
	Update(ctx context.Context, id string, patch service.GroceryItemPatch) (*models.GroceryItem, error)
	Delete(ctx context.Context, id string) error
}

type sabhaService interface {
	List(ctx context.Context) ([]models.SabhaGroceryRecord, error)
	Create(ctx context.Context, req service.SabhaRecordRequest) (*models.SabhaGroceryRecord, int64, error)
	Delete(ctx context.Context, id string) error
}

// GroceryHandler exposes the grocery inventory and sabha menu records.
type GroceryHandler struct {
	items   groceryService
	records sabhaService
}

// NewGroceryHandler constructs GroceryHandler.
func NewGroceryHandler(items groceryService, records sabhaService) *GroceryHandler {
	return &GroceryHandler{items: items, records: records}
}

func itemsOrEmpty(items []models.GroceryItem) []models.GroceryItem {
	if items == nil {
		return []models.GroceryItem{}
	}
	return items
}

// ListItems godoc
// @Summary List grocery items by name
// @Tags Grocery
// @Produce json
// @Success 200 {object} dto.GroceryItemsResponse
// @Router /grocery [get]
func (h *GroceryHandler) ListItems(c *gin.Context) {
	items, err := h.items.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.GroceryItemsResponse{Items: itemsOrEmpty(items)})
}

// ShoppingList godoc
// @Summary Items flagged to buy or at or below minimum stock
// @Tags Grocery
// @Produce json
// @Success 200 {object} dto.GroceryItemsResponse
// @Router /grocery/shopping-list [get]
func (h *GroceryHandler) ShoppingList(c *gin.Context) {
	items, err := h.items.ShoppingList(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.GroceryItemsResponse{Items: itemsOrEmpty(items)})
}

// CreateItem godoc
// @Summary Add a grocery item
// @Tags Grocery
// @Accept json
// @Produce json
// @Param payload body service.GroceryItemRequest true "Item"
// @Success 201 {object} dto.GroceryItemResponse
// @Failure 400 {object} response.ErrorBody
// @Router /grocery [post]
func (h *GroceryHandler) CreateItem(c *gin.Context) {
	var req service.GroceryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.items.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.GroceryItemResponse{Item: *item})
}

// UpdateItem godoc
// @Summary Update a grocery item
// @Tags Grocery
// @Accept json
// @Produce json
// @Param id query string true "Item ID"
// @Param payload body service.GroceryItemPatch true "Fields to change"
// @Success 200 {object} dto.GroceryItemResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /grocery [put]
func (h *GroceryHandler) UpdateItem(c *gin.Context) {
	id, ok := requireQuery(c, "id", "Item ID is required")
	if !ok {
		return
	}
	var patch service.GroceryItemPatch
	if !bindJSON(c, &patch) {
		return
	}
	item, err := h.items.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.GroceryItemResponse{Item: *item})
}

// DeleteItem godoc
// @Summary Delete a grocery item
// @Tags Grocery
// @Produce json
// @Param id query string true "Item ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /grocery [delete]
func (h *GroceryHandler) DeleteItem(c *gin.Context) {
	id, ok := requireQuery(c, "id", "Item ID is required")
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Item deleted successfully", nil)
}

// ListRecords godoc
// @Summary List sabha menu records, newest first
// @Tags Grocery
// @Produce json
// @Success 200 {object} dto.SabhaRecordsResponse
// @Router /sabha-grocery [get]
func (h *GroceryHandler) ListRecords(c *gin.Context) {
	records, err := h.records.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	views := make([]dto.SabhaRecordView, 0, len(records))
	for _, r := range records {
		views = append(views, dto.NewSabhaRecordView(r))
	}
	response.OK(c, dto.SabhaRecordsResponse{Records: views})
}

// CreateRecord godoc
// @Summary Record a sabha menu and deduct the groceries it used
// @Tags Grocery
// @Accept json
// @Produce json
// @Param payload body service.SabhaRecordRequest true "Sabha record"
// @Success 201 {object} dto.SabhaRecordResponse
// @Failure 400 {object} response.ErrorBody
// @Router /sabha-grocery [post]
func (h *GroceryHandler) CreateRecord(c *gin.Context) {
	var req service.SabhaRecordRequest
	if !bindJSON(c, &req) {
		return
	}
	record, adjusted, err := h.records.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.SabhaRecordResponse{Record: dto.NewSabhaRecordView(*record), ItemsAdjusted: adjusted})
}

// DeleteRecord godoc
// @Summary Delete a sabha menu record
// @Tags Grocery
// @Produce json
// @Param id query string true "Record ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /sabha-grocery [delete]
func (h *GroceryHandler) DeleteRecord(c *gin.Context) {
	id, ok := requireQuery(c, "id", "Record ID is required")
	if !ok {
		return
	}
	if err := h.records.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Record deleted successfully", nil)
}
