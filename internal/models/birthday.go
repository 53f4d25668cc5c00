package models

import "time"

// Birthday is a student whose birthday falls on the requested day.
type Birthday struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Grade       string    `json:"grade"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Age         int       `json:"age"`
}
