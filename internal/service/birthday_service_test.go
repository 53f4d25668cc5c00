package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sabha-admin-api/internal/models"
)

func dob(y int, m time.Month, d int) *time.Time {
	t := utcDay(y, m, d)
	return &t
}

func TestBirthdaysOnComputesAge(t *testing.T) {
	students := []models.Student{
		{ID: "a", FirstName: "Asha", LastName: "Patel", Grade: "10", DateOfBirth: dob(2008, 3, 1)},
		{ID: "b", FirstName: "Bhavin", DateOfBirth: dob(2010, 3, 2)},
		{ID: "c", FirstName: "Chirag"},
	}

	got := BirthdaysOn(students, time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC))
	require.Len(t, got, 1)
	assert.Equal(t, models.Birthday{ID: "a", Name: "Asha Patel", Grade: "10", DateOfBirth: utcDay(2008, 3, 1), Age: 16}, got[0])
}

func TestBirthdayServiceTodayUsesLocation(t *testing.T) {
	students := newFakeStudentStore(
		models.Student{ID: "a", FirstName: "Asha", DateOfBirth: dob(2008, 3, 1)},
		models.Student{ID: "b", FirstName: "Bhavin", DateOfBirth: dob(2010, 3, 2)},
	)
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := func() time.Time { return time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC) }

	svc := NewBirthdayService(students, now, loc, nil)
	got, err := svc.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, 14, got[0].Age)

	utc := NewBirthdayService(students, now, nil, nil)
	got, err = utc.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}
