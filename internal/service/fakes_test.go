package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	"github.com/noah-isme/sabha-admin-api/internal/repository"
	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

type fakeStudentStore struct {
	students map[string]models.Student
	deletion *models.StudentDeletion
	created  []*models.Student
	err      error
}

func newFakeStudentStore(students ...models.Student) *fakeStudentStore {
	f := &fakeStudentStore{students: make(map[string]models.Student)}
	for _, s := range students {
		f.students[s.ID] = s
	}
	return f
}

func (f *fakeStudentStore) sorted() []models.Student {
	out := make([]models.Student, 0, len(f.students))
	for _, s := range f.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStudentStore) List(context.Context, models.StudentFilter) ([]models.Student, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	all := f.sorted()
	return all, len(all), nil
}

func (f *fakeStudentStore) ListActive(context.Context) ([]models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Student
	for _, s := range f.sorted() {
		if !s.MovedOut {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudentStore) ListByBirthday(_ context.Context, month time.Month, day int) ([]models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Student
	for _, s := range f.sorted() {
		if s.DateOfBirth != nil && s.DateOfBirth.Month() == month && s.DateOfBirth.Day() == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudentStore) FindByID(_ context.Context, id string) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *fakeStudentStore) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []string
	for _, id := range ids {
		if _, ok := f.students[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeStudentStore) Count(context.Context) (int64, error) {
	return int64(len(f.students)), f.err
}

func (f *fakeStudentStore) Create(_ context.Context, s *models.Student) error {
	if f.err != nil {
		return f.err
	}
	if s.ID == "" {
		s.ID = "stu-new"
	}
	f.students[s.ID] = *s
	f.created = append(f.created, s)
	return nil
}

func (f *fakeStudentStore) Update(_ context.Context, s *models.Student) error {
	if _, ok := f.students[s.ID]; !ok {
		return repository.ErrNotFound
	}
	f.students[s.ID] = *s
	return nil
}

func (f *fakeStudentStore) Delete(_ context.Context, id string) (*models.StudentDeletion, error) {
	if _, ok := f.students[id]; !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.students, id)
	if f.deletion != nil {
		return f.deletion, nil
	}
	return &models.StudentDeletion{}, nil
}

type fakeAttendanceStore struct {
	details   []models.AttendanceDetail
	friday    []models.AttendanceRecord
	byID      map[string]models.AttendanceRecord
	filters   []query.AttendanceFilter
	upserts   [][]models.AttendanceUpsert
	created   *models.AttendanceRecord
	updated   *models.AttendanceRecord
	deleted   int64
	createErr error
	err       error
}

func (f *fakeAttendanceStore) List(_ context.Context, filter query.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []models.AttendanceDetail
	for _, d := range f.details {
		if filter.StudentID != "" && d.StudentID != filter.StudentID {
			continue
		}
		if !filter.Window.From.IsZero() && d.AssemblyDate.Before(filter.Window.From) {
			continue
		}
		if !filter.Window.To.IsZero() && !d.AssemblyDate.Before(filter.Window.To) {
			continue
		}
		out = append(out, d)
	}
	return out, len(out), nil
}

func (f *fakeAttendanceStore) ListJoined(context.Context) ([]models.AttendanceDetail, error) {
	return f.details, f.err
}

func (f *fakeAttendanceStore) ListByWeekday(_ context.Context, wd time.Weekday) ([]models.AttendanceRecord, error) {
	if wd != time.Friday {
		return nil, nil
	}
	return f.friday, f.err
}

func (f *fakeAttendanceStore) FindByID(_ context.Context, id string) (*models.AttendanceRecord, error) {
	rec, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeAttendanceStore) Create(_ context.Context, rec *models.AttendanceRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	rec.ID = "att-new"
	f.created = rec
	return nil
}

func (f *fakeAttendanceStore) Update(_ context.Context, rec *models.AttendanceRecord) error {
	f.updated = rec
	return nil
}

// BulkUpsert keys records by (student, assembly day) like the unique index does, so repeated
// submissions update in place.
func (f *fakeAttendanceStore) BulkUpsert(_ context.Context, entries []models.AttendanceUpsert) (models.BulkWriteResult, error) {
	if f.err != nil {
		return models.BulkWriteResult{}, f.err
	}
	f.upserts = append(f.upserts, entries)
	var result models.BulkWriteResult
	for _, e := range entries {
		existing := -1
		for i, d := range f.details {
			if d.StudentID == e.StudentID && d.AssemblyDate.Equal(e.AssemblyDate) {
				existing = i
				break
			}
		}
		if existing >= 0 {
			result.MatchedCount++
			if f.details[existing].Attended != e.Attended {
				result.ModifiedCount++
				f.details[existing].Attended = e.Attended
			}
			continue
		}
		result.UpsertedCount++
		f.details = append(f.details, models.AttendanceDetail{
			AttendanceRecord: models.AttendanceRecord{
				ID:           fmt.Sprintf("att-%s-%s", e.StudentID, query.FormatDay(e.AssemblyDate)),
				StudentID:    e.StudentID,
				AssemblyDate: e.AssemblyDate,
				Attended:     e.Attended,
			},
		})
	}
	return result, nil
}

func (f *fakeAttendanceStore) Delete(context.Context, query.AttendanceDeletion) (int64, error) {
	return f.deleted, f.err
}

type fakeCallLogStore struct {
	logs     []models.CallLogDetail
	created  *models.CallLog
	counters models.CallCounters
	notes    []models.NoteCount
	windows  []query.DashboardWindows
	calls    int
	err      error
}

func (f *fakeCallLogStore) List(context.Context, query.CallLogFilter) ([]models.CallLogDetail, int, error) {
	return f.logs, len(f.logs), f.err
}

func (f *fakeCallLogStore) Create(_ context.Context, log *models.CallLog) error {
	if f.err != nil {
		return f.err
	}
	log.ID = "call-new"
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	f.created = log
	return nil
}

func (f *fakeCallLogStore) Counters(_ context.Context, w query.DashboardWindows) (*models.CallCounters, error) {
	f.calls++
	f.windows = append(f.windows, w)
	if f.err != nil {
		return nil, f.err
	}
	c := f.counters
	return &c, nil
}

func (f *fakeCallLogStore) NotesBetween(context.Context, query.Window) ([]models.NoteCount, error) {
	return f.notes, f.err
}

type fakeGroceryStore struct {
	items map[string]models.GroceryItem
	err   error
}

func (f *fakeGroceryStore) List(context.Context) ([]models.GroceryItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.GroceryItem, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (f *fakeGroceryStore) FindByID(_ context.Context, id string) (*models.GroceryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (f *fakeGroceryStore) Create(_ context.Context, item *models.GroceryItem) error {
	if f.err != nil {
		return f.err
	}
	item.ID = "item-new"
	if f.items == nil {
		f.items = make(map[string]models.GroceryItem)
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeGroceryStore) Update(_ context.Context, item *models.GroceryItem) error {
	f.items[item.ID] = *item
	return nil
}

func (f *fakeGroceryStore) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

// fakeSabhaStore keeps records and deductions together: a failed deduction stores neither.
type fakeSabhaStore struct {
	records   []models.SabhaGroceryRecord
	used      []models.GroceryUsage
	touched   int64
	err       error
	deductErr error
}

func (f *fakeSabhaStore) List(context.Context) ([]models.SabhaGroceryRecord, error) {
	return f.records, f.err
}

func (f *fakeSabhaStore) CreateWithDeduction(_ context.Context, record *models.SabhaGroceryRecord) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if len(record.GroceriesUsed) > 0 && f.deductErr != nil {
		return 0, f.deductErr
	}
	record.ID = fmt.Sprintf("sabha-%d", len(f.records)+1)
	f.records = append(f.records, *record)
	f.used = append(f.used, record.GroceriesUsed...)
	if len(record.GroceriesUsed) == 0 {
		return 0, nil
	}
	return f.touched, nil
}

func (f *fakeSabhaStore) Delete(_ context.Context, id string) error {
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeCacheRepo struct {
	values      map[string]interface{}
	invalidated []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]interface{})}
}

func (f *fakeCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	v, ok := f.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if stats, ok := dest.(*models.DashboardStats); ok {
		*stats = *(v.(*models.DashboardStats))
	}
	return nil
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	f.invalidated = append(f.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range f.values {
		if strings.HasPrefix(k, prefix) {
			delete(f.values, k)
		}
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func utcDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func errorCode(err error) string {
	if e := appErrors.FromError(err); e != nil {
		return e.Code
	}
	return ""
}

func errorStatus(err error) int {
	if e := appErrors.FromError(err); e != nil {
		return e.Status
	}
	return 0
}

func errMessage(err error) string {
	if e := appErrors.FromError(err); e != nil {
		return e.Message
	}
	return ""
}
