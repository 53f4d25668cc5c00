package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	"github.com/noah-isme/sabha-admin-api/internal/service"
	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

type fakeAttendanceSrv struct {
	listed     []models.AttendanceDetail
	lastFilter query.AttendanceFilter
	created    *service.AttendanceCreateRequest
	bulk       []service.AttendanceUpdate
	patched    *service.AttendancePatch
	deletion   query.AttendanceDeletion
	deleted    int64
	roster     *service.Roster
	rosterDay  query.DayRange
	historyFor string
	err        error
}

func (f *fakeAttendanceSrv) List(_ context.Context, filter query.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	f.lastFilter = filter
	return f.listed, len(f.listed), f.err
}

func (f *fakeAttendanceSrv) Create(_ context.Context, req service.AttendanceCreateRequest) (*models.AttendanceDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &req
	day, _ := query.ParseDay(req.AssemblyDate)
	return &models.AttendanceDetail{
		AttendanceRecord: models.AttendanceRecord{ID: "att-1", StudentID: req.Student, AssemblyDate: day.Start, Attended: true},
		FirstName:        "Asha",
		LastName:         "Patel",
	}, nil
}

func (f *fakeAttendanceSrv) BulkSave(_ context.Context, updates []service.AttendanceUpdate) (models.BulkWriteResult, error) {
	f.bulk = updates
	return models.BulkWriteResult{UpsertedCount: int64(len(updates))}, f.err
}

func (f *fakeAttendanceSrv) Update(_ context.Context, id string, patch service.AttendancePatch) (*models.AttendanceDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.patched = &patch
	return &models.AttendanceDetail{AttendanceRecord: models.AttendanceRecord{ID: id}}, nil
}

func (f *fakeAttendanceSrv) Delete(_ context.Context, del query.AttendanceDeletion) (int64, error) {
	f.deletion = del
	return f.deleted, f.err
}

func (f *fakeAttendanceSrv) Dates(context.Context) ([]models.DateSummary, error) {
	return nil, f.err
}

func (f *fakeAttendanceSrv) Roster(_ context.Context, day query.DayRange) (*service.Roster, error) {
	f.rosterDay = day
	if f.err != nil {
		return nil, f.err
	}
	if f.roster != nil {
		return f.roster, nil
	}
	return &service.Roster{Date: "2024-03-01", Attendance: map[string]bool{}}, nil
}

func (f *fakeAttendanceSrv) Percentages(context.Context) (map[string]int, error) {
	return map[string]int{"stu-1": 50}, f.err
}

func (f *fakeAttendanceSrv) History(_ context.Context, studentID string) ([]models.AttendanceDetail, models.HistoryStats, error) {
	f.historyFor = studentID
	return nil, models.HistoryStats{}, f.err
}

func (f *fakeAttendanceSrv) Scan(_ context.Context, req service.ScanRequest) (*models.AttendanceDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.AttendanceDetail{AttendanceRecord: models.AttendanceRecord{ID: "att-scan", Attended: true}}, nil
}

type fakeStudentSrv struct {
	students   map[string]models.Student
	lastFilter models.StudentFilter
	err        error
}

func newFakeStudentSrv(students ...models.Student) *fakeStudentSrv {
	f := &fakeStudentSrv{students: map[string]models.Student{}}
	for _, s := range students {
		f.students[s.ID] = s
	}
	return f
}

func (f *fakeStudentSrv) List(_ context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	out := make([]models.Student, 0, len(f.students))
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f *fakeStudentSrv) Get(_ context.Context, id string) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, appErrors.NotFound("Student not found")
	}
	return &s, nil
}

func (f *fakeStudentSrv) Create(_ context.Context, req service.StudentRequest) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := models.Student{ID: "stu-new", FirstName: req.FirstName, LastName: req.LastName, Phone: req.Phone}
	f.students[s.ID] = s
	return &s, nil
}

func (f *fakeStudentSrv) Update(_ context.Context, id string, req service.StudentRequest) (*models.Student, error) {
	if _, ok := f.students[id]; !ok {
		return nil, appErrors.NotFound("Student not found")
	}
	s := models.Student{ID: id, FirstName: req.FirstName, LastName: req.LastName, Phone: req.Phone}
	f.students[id] = s
	return &s, nil
}

func (f *fakeStudentSrv) Delete(_ context.Context, id string) (*models.StudentDeletion, error) {
	if _, ok := f.students[id]; !ok {
		return nil, appErrors.NotFound("Student not found")
	}
	delete(f.students, id)
	return &models.StudentDeletion{AttendanceDeleted: 3, CallLogsDeleted: 1}, nil
}

type fakeCallLogSrv struct {
	lastFilter query.CallLogFilter
	created    *service.CallLogRequest
	err        error
}

func (f *fakeCallLogSrv) List(_ context.Context, filter query.CallLogFilter) ([]models.CallLogDetail, int, error) {
	f.lastFilter = filter
	return []models.CallLogDetail{{
		CallLog:   models.CallLog{ID: "call-1", StudentID: "stu-1", Status: models.CallStatusCompleted},
		FirstName: "Asha",
		LastName:  "Patel",
	}}, 1, f.err
}

func (f *fakeCallLogSrv) Create(_ context.Context, req service.CallLogRequest) (*models.CallLogDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &req
	return &models.CallLogDetail{CallLog: models.CallLog{ID: "call-2", StudentID: req.StudentID, Status: models.CallStatus(req.Status)}}, nil
}

type fakeGrocerySrv struct {
	items   []models.GroceryItem
	patch   *service.GroceryItemPatch
	deleted string
	err     error
}

func (f *fakeGrocerySrv) List(context.Context) ([]models.GroceryItem, error) {
	return f.items, f.err
}

func (f *fakeGrocerySrv) ShoppingList(context.Context) ([]models.GroceryItem, error) {
	var out []models.GroceryItem
	for _, item := range f.items {
		if item.NeedsRestock() {
			out = append(out, item)
		}
	}
	return out, f.err
}

func (f *fakeGrocerySrv) Create(_ context.Context, req service.GroceryItemRequest) (*models.GroceryItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.GroceryItem{ID: "item-1", Name: req.Name, Quantity: *req.Quantity, Unit: req.Unit}, nil
}

func (f *fakeGrocerySrv) Update(_ context.Context, id string, patch service.GroceryItemPatch) (*models.GroceryItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.patch = &patch
	return &models.GroceryItem{ID: id}, nil
}

func (f *fakeGrocerySrv) Delete(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

type fakeSabhaSrv struct {
	records []models.SabhaGroceryRecord
	err     error
}

func (f *fakeSabhaSrv) List(context.Context) ([]models.SabhaGroceryRecord, error) {
	return f.records, f.err
}

func (f *fakeSabhaSrv) Create(_ context.Context, req service.SabhaRecordRequest) (*models.SabhaGroceryRecord, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	day, _ := query.ParseDay(req.Date)
	return &models.SabhaGroceryRecord{ID: "rec-1", Date: day.Start, Menu: req.Menu, GroceriesUsed: req.GroceriesUsed},
		int64(len(req.GroceriesUsed)), nil
}

func (f *fakeSabhaSrv) Delete(context.Context, string) error {
	return f.err
}

type fakeDashboardSrv struct {
	stats  *models.DashboardStats
	cached bool
	err    error
}

func (f *fakeDashboardSrv) Stats(context.Context) (*models.DashboardStats, bool, error) {
	return f.stats, f.cached, f.err
}

type fakeBirthdaySrv struct {
	birthdays []models.Birthday
	err       error
}

func (f *fakeBirthdaySrv) Today(context.Context) ([]models.Birthday, error) {
	return f.birthdays, f.err
}

type fakeAuthSrv struct {
	token string
}

func (f fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Username != "admin" || req.Password != "secret" {
		return nil, appErrors.ErrInvalidCredentials
	}
	return &models.LoginResponse{AccessToken: f.token, TokenType: "Bearer", ExpiresIn: 3600}, nil
}

func (f fakeAuthSrv) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != f.token {
		return nil, appErrors.ErrUnauthorized
	}
	return &models.JWTClaims{Username: "admin"}, nil
}

type testDeps struct {
	attendance *fakeAttendanceSrv
	students   *fakeStudentSrv
	calls      *fakeCallLogSrv
	grocery    *fakeGrocerySrv
	sabha      *fakeSabhaSrv
	dashboard  *fakeDashboardSrv
	birthdays  *fakeBirthdaySrv
	checks     map[string]ReadinessCheck
	guard      gin.HandlerFunc
}

func newTestDeps() *testDeps {
	return &testDeps{
		attendance: &fakeAttendanceSrv{},
		students:   newFakeStudentSrv(models.Student{ID: "stu-1", FirstName: "Asha", LastName: "Patel"}),
		calls:      &fakeCallLogSrv{},
		grocery:    &fakeGrocerySrv{},
		sabha:      &fakeSabhaSrv{},
		dashboard:  &fakeDashboardSrv{stats: &models.DashboardStats{TotalStudents: 1}},
		birthdays:  &fakeBirthdaySrv{},
	}
}

func (d *testDeps) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r, Handlers{
		Attendance: NewAttendanceHandler(d.attendance),
		Students:   NewStudentHandler(d.students),
		CallLogs:   NewCallLogHandler(d.calls),
		Grocery:    NewGroceryHandler(d.grocery, d.sabha),
		Dashboard:  NewDashboardHandler(d.dashboard),
		Birthdays:  NewBirthdayHandler(d.birthdays),
		Auth:       NewAuthHandler(fakeAuthSrv{token: "tok"}),
		Metrics:    NewMetricsHandler(service.NewMetricsService(), d.checks),
	}, RouterConfig{Prefix: "/api", Guard: d.guard})
	return r
}

func perform(t *testing.T, r http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func utcDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
