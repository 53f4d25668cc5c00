package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sabha-admin-api/internal/dto"
	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/pkg/response"
)

type birthdayService interface {
	Today(ctx context.Context) ([]models.Birthday, error)
}

// BirthdayHandler lists today's birthdays.
type BirthdayHandler struct {
	birthdays birthdayService
}

// NewBirthdayHandler constructs BirthdayHandler.
func NewBirthdayHandler(birthdays birthdayService) *BirthdayHandler {
	return &BirthdayHandler{birthdays: birthdays}
}

// Today godoc
// @Summary Students whose birthday is today
// @Tags Notifications
// @Produce json
// @Success 200 {object} dto.BirthdaysResponse
// @Router /notifications/birthdays [get]
func (h *BirthdayHandler) Today(c *gin.Context) {
	birthdays, err := h.birthdays.Today(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BirthdaysResponse{Birthdays: dto.NewBirthdayViews(birthdays)})
}
