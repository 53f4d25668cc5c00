package dto

import "github.com/noah-isme/sabha-admin-api/internal/models"

// StudentListResponse is the GET /students payload.
type StudentListResponse struct {
	Students []models.Student `json:"students"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
}

// StudentResponse wraps one student.
type StudentResponse struct {
	Student models.Student `json:"student"`
}

// StudentDeletedResponse reports a cascading delete.
type StudentDeletedResponse struct {
	Message string `json:"message"`
	models.StudentDeletion
}
