package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sabha-admin-api/internal/dto"
	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, bool, error)
}

// DashboardHandler serves the home page counters.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Stats godoc
// @Summary Dashboard counters
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.DashboardStatsResponse
// @Router /dashboard-stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, cached, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	response.OK(c, dto.DashboardStatsResponse{Success: true, Stats: *stats})
}
