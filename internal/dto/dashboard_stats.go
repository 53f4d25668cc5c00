package dto

import "github.com/noah-isme/sabha-admin-api/internal/models"

// DashboardStatsResponse is the GET /dashboard-stats payload.
type DashboardStatsResponse struct {
	Success bool                  `json:"success"`
	Stats   models.DashboardStats `json:"stats"`
}
