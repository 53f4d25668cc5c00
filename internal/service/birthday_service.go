package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

type birthdaySource interface {
	ListByBirthday(ctx context.Context, month time.Month, day int) ([]models.Student, error)
}

// BirthdayService finds students celebrating today.
type BirthdayService struct {
	students birthdaySource
	now      func() time.Time
	loc      *time.Location
	logger   *zap.Logger
}

// NewBirthdayService constructs the service. Today is evaluated in loc.
func NewBirthdayService(students birthdaySource, now func() time.Time, loc *time.Location, logger *zap.Logger) *BirthdayService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BirthdayService{students: students, now: now, loc: loc, logger: logger}
}

// BirthdaysOn projects the students born on today's month and day. Age is the difference in
// calendar years.
func BirthdaysOn(students []models.Student, today time.Time) []models.Birthday {
	out := make([]models.Birthday, 0, len(students))
	for _, s := range students {
		if s.DateOfBirth == nil {
			continue
		}
		dob := s.DateOfBirth.UTC()
		if dob.Month() != today.Month() || dob.Day() != today.Day() {
			continue
		}
		out = append(out, models.Birthday{
			ID:          s.ID,
			Name:        s.FullName(),
			Grade:       s.Grade,
			DateOfBirth: dob,
			Age:         today.Year() - dob.Year(),
		})
	}
	return out
}

// Today returns today's birthdays.
func (s *BirthdayService) Today(ctx context.Context) ([]models.Birthday, error) {
	return s.On(ctx, s.now())
}

// On returns the birthdays of the local calendar day containing at.
func (s *BirthdayService) On(ctx context.Context, at time.Time) ([]models.Birthday, error) {
	today := at.In(s.loc)
	students, err := s.students.ListByBirthday(ctx, today.Month(), today.Day())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load birthdays")
	}
	return BirthdaysOn(students, today), nil
}
