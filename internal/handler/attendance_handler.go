package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sabha-admin-api/internal/dto"
	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	"github.com/noah-isme/sabha-admin-api/internal/service"
	"github.com/noah-isme/sabha-admin-api/pkg/response"
)

type attendanceService interface {
	List(ctx context.Context, filter query.AttendanceFilter) ([]models.AttendanceDetail, int, error)
	Create(ctx context.Context, req service.AttendanceCreateRequest) (*models.AttendanceDetail, error)
	BulkSave(ctx context.Context, updates []service.AttendanceUpdate) (models.BulkWriteResult, error)
	Update(ctx context.Context, id string, patch service.AttendancePatch) (*models.AttendanceDetail, error)
	Delete(ctx context.Context, del query.AttendanceDeletion) (int64, error)
	Dates(ctx context.Context) ([]models.DateSummary, error)
	Roster(ctx context.Context, day query.DayRange) (*service.Roster, error)
	Percentages(ctx context.Context) (map[string]int, error)
	History(ctx context.Context, studentID string) ([]models.AttendanceDetail, models.HistoryStats, error)
	Scan(ctx context.Context, req service.ScanRequest) (*models.AttendanceDetail, error)
}

// AttendanceHandler exposes assembly attendance endpoints.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List godoc
// @Summary List attendance
// @Tags Attendance
// @Produce json
// @Param assemblyDate query string false "Single day (YYYY-MM-DD)"
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Param studentId query string false "Student"
// @Param page query int false "Page"
// @Param limit query int false "Page size, 0 for all"
// @Success 200 {object} dto.AttendanceListResponse
// @Failure 400 {object} response.ErrorBody
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter, err := query.NewAttendanceFilter(query.AttendanceParamsFromValues(c.Request.URL.Query()))
	if err != nil {
		response.Error(c, err)
		return
	}
	records, total, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AttendanceListResponse{
		Attendances: dto.NewAttendanceViews(records),
		Total:       total,
		Page:        filter.Page.Page,
	})
}

// Create godoc
// @Summary Create one record or bulk save a day
// @Description A body carrying `updates` upserts every entry; otherwise a single record is created.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.AttendanceWriteRequest true "Attendance payload"
// @Success 200 {object} dto.BulkSaveResponse
// @Success 201 {object} dto.AttendanceResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /attendance [post]
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req service.AttendanceWriteRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if req.Updates != nil {
		result, err := h.attendance.BulkSave(ctx, *req.Updates)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, dto.BulkSaveResponse{Success: true, Result: result})
		return
	}

	rec, err := h.attendance.Create(ctx, req.AttendanceCreateRequest)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.AttendanceResponse{Attendance: dto.NewAttendanceView(*rec)})
}

// Update godoc
// @Summary Update an attendance record
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id query string true "Attendance ID"
// @Param payload body service.AttendancePatch true "Fields to change"
// @Success 200 {object} dto.AttendanceResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /attendance [put]
func (h *AttendanceHandler) Update(c *gin.Context) {
	id, ok := requireQuery(c, "id", "Attendance ID is required")
	if !ok {
		return
	}
	var patch service.AttendancePatch
	if !bindJSON(c, &patch) {
		return
	}
	rec, err := h.attendance.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AttendanceResponse{Attendance: dto.NewAttendanceView(*rec)})
}

// Delete godoc
// @Summary Delete attendance
// @Description Deletes by id, by student and date, by date, or everything when no parameter is given.
// @Tags Attendance
// @Produce json
// @Param id query string false "Attendance ID"
// @Param studentId query string false "Student (requires date)"
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} dto.DeleteResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /attendance [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	del, err := query.NewAttendanceDeletion(c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	n, err := h.attendance.Delete(c.Request.Context(), del)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "Attendance records deleted successfully"
	if del.Scope == query.DeleteByID {
		message = "Attendance record deleted successfully"
	}
	response.OK(c, dto.DeleteResponse{Message: message, DeletedCount: n})
}

// Dates godoc
// @Summary Attendance grouped by day
// @Tags Attendance
// @Produce json
// @Success 200 {object} dto.DatesResponse
// @Router /attendance/dates [get]
func (h *AttendanceHandler) Dates(c *gin.Context) {
	dates, err := h.attendance.Dates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if dates == nil {
		dates = []models.DateSummary{}
	}
	response.OK(c, dto.DatesResponse{Dates: dates})
}

// Roster godoc
// @Summary Reconciled roster for one day
// @Tags Attendance
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} service.Roster
// @Failure 400 {object} response.ErrorBody
// @Router /attendance/roster [get]
func (h *AttendanceHandler) Roster(c *gin.Context) {
	var day query.DayRange
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := query.ParseDay(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		day = parsed
	}
	roster, err := h.attendance.Roster(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	if roster.Students == nil {
		roster.Students = []models.Student{}
	}
	response.OK(c, roster)
}

// Percentages godoc
// @Summary Friday attendance percentage per student
// @Tags Attendance
// @Produce json
// @Success 200 {object} dto.PercentagesResponse
// @Router /attendance/percentages [get]
func (h *AttendanceHandler) Percentages(c *gin.Context) {
	percentages, err := h.attendance.Percentages(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.PercentagesResponse{Percentages: percentages})
}

// History godoc
// @Summary One student's attendance history
// @Tags Attendance
// @Produce json
// @Param studentId query string true "Student"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} response.ErrorBody
// @Router /attendance/history [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	studentID, ok := requireQuery(c, "studentId", "studentId is required")
	if !ok {
		return
	}
	records, stats, err := h.attendance.History(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.HistoryResponse{Records: dto.NewAttendanceViews(records), Stats: stats})
}

// Scan godoc
// @Summary Check a student in from their QR code
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.ScanRequest true "Scanned code"
// @Success 200 {object} dto.AttendanceResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /attendance/scan [post]
func (h *AttendanceHandler) Scan(c *gin.Context) {
	var req service.ScanRequest
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.attendance.Scan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AttendanceResponse{Attendance: dto.NewAttendanceView(*rec)})
}
