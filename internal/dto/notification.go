package dto

import (
	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
)

// BirthdayView is one birthday with a calendar date of birth.
type BirthdayView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Grade       string `json:"grade"`
	DateOfBirth string `json:"dateOfBirth"`
	Age         int    `json:"age"`
}

// NewBirthdayViews renders a birthday list.
func NewBirthdayViews(birthdays []models.Birthday) []BirthdayView {
	out := make([]BirthdayView, 0, len(birthdays))
	for _, b := range birthdays {
		out = append(out, BirthdayView{
			ID:          b.ID,
			Name:        b.Name,
			Grade:       b.Grade,
			DateOfBirth: query.FormatDay(b.DateOfBirth),
			Age:         b.Age,
		})
	}
	return out
}

// BirthdaysResponse is the GET /notifications/birthdays payload.
type BirthdaysResponse struct {
	Birthdays []BirthdayView `json:"birthdays"`
}
