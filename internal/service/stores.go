package service

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	"github.com/noah-isme/sabha-admin-api/internal/repository"
	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

// StudentStore persists students. Implemented by repository.StudentRepository and
// mongostore.StudentStore.
type StudentStore interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ListActive(ctx context.Context) ([]models.Student, error)
	ListByBirthday(ctx context.Context, month time.Month, day int) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) (*models.StudentDeletion, error)
}

// AttendanceStore persists assembly attendance.
type AttendanceStore interface {
	List(ctx context.Context, filter query.AttendanceFilter) ([]models.AttendanceDetail, int, error)
	ListJoined(ctx context.Context) ([]models.AttendanceDetail, error)
	ListByWeekday(ctx context.Context, weekday time.Weekday) ([]models.AttendanceRecord, error)
	FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error)
	Create(ctx context.Context, rec *models.AttendanceRecord) error
	Update(ctx context.Context, rec *models.AttendanceRecord) error
	BulkUpsert(ctx context.Context, entries []models.AttendanceUpsert) (models.BulkWriteResult, error)
	Delete(ctx context.Context, del query.AttendanceDeletion) (int64, error)
}

// CallLogStore persists call logs.
type CallLogStore interface {
	List(ctx context.Context, filter query.CallLogFilter) ([]models.CallLogDetail, int, error)
	Create(ctx context.Context, log *models.CallLog) error
	Counters(ctx context.Context, windows query.DashboardWindows) (*models.CallCounters, error)
	NotesBetween(ctx context.Context, window query.Window) ([]models.NoteCount, error)
}

// GroceryStore persists grocery inventory.
type GroceryStore interface {
	List(ctx context.Context) ([]models.GroceryItem, error)
	FindByID(ctx context.Context, id string) (*models.GroceryItem, error)
	Create(ctx context.Context, item *models.GroceryItem) error
	Update(ctx context.Context, item *models.GroceryItem) error
	Delete(ctx context.Context, id string) error
}

// SabhaStore persists sabha menu records. CreateWithDeduction stores a record and deducts its
// groceries from inventory as one unit: on error neither change remains.
type SabhaStore interface {
	List(ctx context.Context) ([]models.SabhaGroceryRecord, error)
	CreateWithDeduction(ctx context.Context, record *models.SabhaGroceryRecord) (int64, error)
	Delete(ctx context.Context, id string) error
}

// storeError maps store sentinels onto API errors.
func storeError(err error, notFound, internal string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return appErrors.NotFound(notFound)
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "record already exists")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
	}
}
