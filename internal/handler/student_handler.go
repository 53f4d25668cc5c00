package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/noah-isme/sabha-admin-api/internal/dto"
	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	"github.com/noah-isme/sabha-admin-api/internal/service"
	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
	"github.com/noah-isme/sabha-admin-api/pkg/response"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, req service.StudentRequest) (*models.Student, error)
	Update(ctx context.Context, id string, req service.StudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) (*models.StudentDeletion, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Search by name, phone or e-mail"
// @Param movedOut query bool false "Filter by moved-out state"
// @Param page query int false "Page"
// @Param limit query int false "Page size, 0 for all"
// @Success 200 {object} dto.StudentListResponse
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	page, err := query.ParsePage(c.Query("page"), c.Query("limit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.StudentFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Page:   page.Page,
		Limit:  page.Limit,
	}
	if raw := c.Query("movedOut"); raw != "" {
		movedOut, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Validation("movedOut must be true or false"))
			return
		}
		filter.MovedOut = &movedOut
	}

	students, total, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	response.OK(c, dto.StudentListResponse{Students: students, Total: total, Page: page.Page})
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.StudentResponse
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.StudentResponse{Student: *student})
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.StudentRequest true "Student payload"
// @Success 201 {object} dto.StudentResponse
// @Failure 400 {object} response.ErrorBody
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.StudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.StudentResponse{Student: *student})
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.StudentRequest true "Student payload"
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.StudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.StudentResponse{Student: *student})
}

// Delete godoc
// @Summary Delete student with attendance and call logs
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} dto.StudentDeletedResponse
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	result, err := h.students.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.StudentDeletedResponse{Message: "Student deleted successfully", StudentDeletion: *result})
}

// QRCode godoc
// @Summary Check-in QR code for a student
// @Tags Students
// @Produce png
// @Param id path string true "Student ID"
// @Param size query int false "Edge length in pixels"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id}/qrcode [get]
func (h *StudentHandler) QRCode(c *gin.Context) {
	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			response.Error(c, appErrors.Validation("size must be between 64 and 1024"))
			return
		}
		size = n
	}
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	png, err := qrcode.Encode(service.StudentCode(student.ID), qrcode.Medium, size)
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to render QR code"))
		return
	}
	c.Header("Cache-Control", "private, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
