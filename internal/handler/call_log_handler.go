package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sabha-admin-api/internal/dto"
	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	"github.com/noah-isme/sabha-admin-api/internal/service"
	"github.com/noah-isme/sabha-admin-api/pkg/response"
)

type callLogService interface {
	List(ctx context.Context, filter query.CallLogFilter) ([]models.CallLogDetail, int, error)
	Create(ctx context.Context, req service.CallLogRequest) (*models.CallLogDetail, error)
}

// CallLogHandler exposes call log endpoints.
type CallLogHandler struct {
	logs callLogService
}

// NewCallLogHandler constructs CallLogHandler.
func NewCallLogHandler(logs callLogService) *CallLogHandler {
	return &CallLogHandler{logs: logs}
}

// List godoc
// @Summary List call logs, newest first
// @Tags CallLogs
// @Produce json
// @Param studentId query string false "Student"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size, 0 for all"
// @Success 200 {object} dto.CallLogListResponse
// @Router /call-logs [get]
func (h *CallLogHandler) List(c *gin.Context) {
	filter, err := query.NewCallLogFilter(c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	logs, total, err := h.logs.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	views := make([]dto.CallLogView, 0, len(logs))
	for _, l := range logs {
		views = append(views, dto.NewCallLogView(l))
	}
	response.OK(c, dto.CallLogListResponse{CallLogs: views, Total: total, Page: filter.Page.Page})
}

// Create godoc
// @Summary Record a call
// @Tags CallLogs
// @Accept json
// @Produce json
// @Param payload body service.CallLogRequest true "Call log"
// @Success 201 {object} dto.CallLogResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /call-logs [post]
func (h *CallLogHandler) Create(c *gin.Context) {
	var req service.CallLogRequest
	if !bindJSON(c, &req) {
		return
	}
	log, err := h.logs.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CallLogResponse{CallLog: dto.NewCallLogView(*log)})
}
