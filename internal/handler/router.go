package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler served by the API.
type Handlers struct {
	Attendance *AttendanceHandler
	Students   *StudentHandler
	CallLogs   *CallLogHandler
	Grocery    *GroceryHandler
	Dashboard  *DashboardHandler
	Birthdays  *BirthdayHandler
	Auth       *AuthHandler
	Metrics    *MetricsHandler
}

// RouterConfig controls how the API group is mounted.
type RouterConfig struct {
	Prefix string
	// Guard protects every API route except login. Nil leaves the API open.
	Guard gin.HandlerFunc
	Audit gin.HandlerFunc
}

// Register mounts the health endpoints at the root and the API under cfg.Prefix.
func Register(r *gin.Engine, h Handlers, cfg RouterConfig) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(cfg.Prefix)
	Resource(api, "/auth/login", Verbs{http.MethodPost: h.Auth.Login})

	protected := api.Group("")
	if cfg.Guard != nil {
		protected.Use(cfg.Guard)
	}
	if cfg.Audit != nil {
		protected.Use(cfg.Audit)
	}
	if cfg.Guard != nil {
		Resource(protected, "/auth/me", Verbs{http.MethodGet: h.Auth.Me})
	}

	Resource(protected, "/attendance", Verbs{
		http.MethodGet:    h.Attendance.List,
		http.MethodPost:   h.Attendance.Create,
		http.MethodPut:    h.Attendance.Update,
		http.MethodDelete: h.Attendance.Delete,
	})
	Resource(protected, "/attendance/dates", Verbs{http.MethodGet: h.Attendance.Dates})
	Resource(protected, "/attendance/roster", Verbs{http.MethodGet: h.Attendance.Roster})
	Resource(protected, "/attendance/percentages", Verbs{http.MethodGet: h.Attendance.Percentages})
	Resource(protected, "/attendance/history", Verbs{http.MethodGet: h.Attendance.History})
	Resource(protected, "/attendance/scan", Verbs{http.MethodPost: h.Attendance.Scan})

	Resource(protected, "/dashboard-stats", Verbs{http.MethodGet: h.Dashboard.Stats})

	Resource(protected, "/students", Verbs{
		http.MethodGet:  h.Students.List,
		http.MethodPost: h.Students.Create,
	})
	Resource(protected, "/students/:id", Verbs{
		http.MethodGet:    h.Students.Get,
		http.MethodPut:    h.Students.Update,
		http.MethodDelete: h.Students.Delete,
	})
	Resource(protected, "/students/:id/qrcode", Verbs{http.MethodGet: h.Students.QRCode})

	Resource(protected, "/call-logs", Verbs{
		http.MethodGet:  h.CallLogs.List,
		http.MethodPost: h.CallLogs.Create,
	})

	Resource(protected, "/grocery", Verbs{
		http.MethodGet:    h.Grocery.ListItems,
		http.MethodPost:   h.Grocery.CreateItem,
		http.MethodPut:    h.Grocery.UpdateItem,
		http.MethodDelete: h.Grocery.DeleteItem,
	})
	Resource(protected, "/grocery/shopping-list", Verbs{http.MethodGet: h.Grocery.ShoppingList})
	Resource(protected, "/sabha-grocery", Verbs{
		http.MethodGet:    h.Grocery.ListRecords,
		http.MethodPost:   h.Grocery.CreateRecord,
		http.MethodDelete: h.Grocery.DeleteRecord,
	})

	Resource(protected, "/notifications/birthdays", Verbs{http.MethodGet: h.Birthdays.Today})
}
