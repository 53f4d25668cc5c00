package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

// AttendanceCreateRequest marks one student for one assembly day.
type AttendanceCreateRequest struct {
	Student      string `json:"student" validate:"required"`
	AssemblyDate string `json:"assemblyDate" validate:"required"`
	Attended     *bool  `json:"attended"`
}

// AttendanceUpdate is one entry of a bulk save.
type AttendanceUpdate struct {
	Student      string `json:"student" validate:"required"`
	AssemblyDate string `json:"assemblyDate" validate:"required"`
	Attended     bool   `json:"attended"`
}

// AttendanceWriteRequest is the POST body. The presence of updates selects a bulk save.
type AttendanceWriteRequest struct {
	Updates *[]AttendanceUpdate `json:"updates"`
	AttendanceCreateRequest
}

// AttendancePatch rewrites any subset of a record's fields.
type AttendancePatch struct {
	Student      *string `json:"student"`
	AssemblyDate *string `json:"assemblyDate"`
	Attended     *bool   `json:"attended"`
}

// ScanRequest marks the student encoded in a QR code as present.
type ScanRequest struct {
	Code         string `json:"code" validate:"required"`
	AssemblyDate string `json:"assemblyDate"`
}

// Roster is one assembly day reconciled against every active student.
type Roster struct {
	Date       string            `json:"date"`
	Attendance map[string]bool   `json:"attendance"`
	Students   []models.Student  `json:"students"`
	Stats      models.DailyStats `json:"stats"`
}

// AttendanceService coordinates assembly attendance workflows.
type AttendanceService struct {
	attendance AttendanceStore
	students   StudentStore
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
	loc        *time.Location
}

// AttendanceServiceParams groups constructor dependencies.
type AttendanceServiceParams struct {
	Attendance AttendanceStore
	Students   StudentStore
	Metrics    *MetricsService
	Validator  *validator.Validate
	Logger     *zap.Logger
	Now        func() time.Time
	Location   *time.Location
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(params AttendanceServiceParams) *AttendanceService {
	svc := &AttendanceService{
		attendance: params.Attendance,
		students:   params.Students,
		metrics:    params.Metrics,
		validator:  params.Validator,
		logger:     params.Logger,
		now:        params.Now,
		loc:        params.Location,
	}
	if svc.validator == nil {
		svc.validator = validator.New()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.loc == nil {
		svc.loc = time.UTC
	}
	return svc
}

// Reconcile returns one entry per roster student, absent unless a record marks them present.
// Records of students outside the roster are ignored.
func Reconcile(roster []models.Student, records []models.AttendanceRecord) map[string]bool {
	out := make(map[string]bool, len(roster))
	for _, s := range roster {
		out[s.ID] = false
	}
	for _, r := range records {
		if _, ok := out[r.StudentID]; ok {
			out[r.StudentID] = r.Attended
		}
	}
	return out
}

// DailyStatsFor summarises a reconciled day.
func DailyStatsFor(reconciled map[string]bool) models.DailyStats {
	stats := models.DailyStats{Total: len(reconciled)}
	for _, present := range reconciled {
		if present {
			stats.Present++
		}
	}
	stats.Absent = stats.Total - stats.Present
	stats.Percentage = percent(stats.Present, stats.Total)
	return stats
}

// FridayPercentages computes, per student, the rounded share of attended records.
func FridayPercentages(records []models.AttendanceRecord) map[string]int {
	type tally struct{ attended, total int }
	tallies := make(map[string]*tally)
	for _, r := range records {
		t, ok := tallies[r.StudentID]
		if !ok {
			t = &tally{}
			tallies[r.StudentID] = t
		}
		t.total++
		if r.Attended {
			t.attended++
		}
	}
	out := make(map[string]int, len(tallies))
	for id, t := range tallies {
		out[id] = percent(t.attended, t.total)
	}
	return out
}

// HistoryStatsFor summarises a student's records. The percentage keeps one decimal.
func HistoryStatsFor(records []models.AttendanceDetail) models.HistoryStats {
	stats := models.HistoryStats{TotalDays: len(records)}
	for _, r := range records {
		if r.Attended {
			stats.PresentDays++
		}
	}
	stats.AbsentDays = stats.TotalDays - stats.PresentDays
	if stats.TotalDays > 0 {
		stats.AttendancePercentage = math.Round(float64(stats.PresentDays)/float64(stats.TotalDays)*1000) / 10
	}
	return stats
}

// GroupByDate folds joined records into per-day summaries, newest day first.
func GroupByDate(details []models.AttendanceDetail) []models.DateSummary {
	index := make(map[string]int)
	var out []models.DateSummary
	for _, d := range details {
		key := query.FormatDay(d.AssemblyDate)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, models.DateSummary{Date: key, Students: []models.DateSummaryStudent{}})
		}
		sum := &out[i]
		sum.TotalCount++
		if d.Attended {
			sum.PresentCount++
		} else {
			sum.AbsentCount++
		}
		sum.Students = append(sum.Students, models.DateSummaryStudent{
			ID:       d.StudentID,
			Name:     strings.TrimSpace(d.FirstName + " " + d.LastName),
			Grade:    d.Grade,
			Attended: d.Attended,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// List returns a page of attendance with student names.
func (s *AttendanceService) List(ctx context.Context, filter query.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	records, total, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, total, nil
}

// Create stores a single record. A second record for the same student and day is a conflict.
func (s *AttendanceService) Create(ctx context.Context, req AttendanceCreateRequest) (*models.AttendanceDetail, error) {
	req.Student = strings.TrimSpace(req.Student)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing required fields")
	}
	day, err := query.ParseDay(req.AssemblyDate)
	if err != nil {
		return nil, err
	}
	student, err := s.students.FindByID(ctx, req.Student)
	if err != nil {
		return nil, storeError(err, "Student not found", "failed to load student")
	}

	rec := &models.AttendanceRecord{
		StudentID:    student.ID,
		AssemblyDate: day.Start,
		Attended:     req.Attended != nil && *req.Attended,
	}
	if err := s.attendance.Create(ctx, rec); err != nil {
		return nil, storeError(err, "Attendance record not found", "failed to create attendance")
	}
	return detailFor(rec, student), nil
}

// BulkSave upserts every entry keyed by student and day. Every referenced student must exist.
func (s *AttendanceService) BulkSave(ctx context.Context, updates []AttendanceUpdate) (models.BulkWriteResult, error) {
	if len(updates) == 0 {
		return models.BulkWriteResult{}, appErrors.Validation("updates must not be empty")
	}

	entries := make([]models.AttendanceUpsert, 0, len(updates))
	ids := make([]string, 0, len(updates))
	seen := make(map[string]struct{}, len(updates))
	for i, u := range updates {
		u.Student = strings.TrimSpace(u.Student)
		if err := s.validator.Struct(u); err != nil {
			return models.BulkWriteResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("updates[%d]: student and assemblyDate are required", i))
		}
		day, err := query.ParseDay(u.AssemblyDate)
		if err != nil {
			return models.BulkWriteResult{}, err
		}
		entries = append(entries, models.AttendanceUpsert{StudentID: u.Student, AssemblyDate: day.Start, Attended: u.Attended})
		if _, ok := seen[u.Student]; !ok {
			seen[u.Student] = struct{}{}
			ids = append(ids, u.Student)
		}
	}

	found, err := s.students.ExistingIDs(ctx, ids)
	if err != nil {
		return models.BulkWriteResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check students")
	}
	if missing := difference(ids, found); len(missing) > 0 {
		return models.BulkWriteResult{}, appErrors.Validation("unknown students: " + strings.Join(missing, ", "))
	}

	result, err := s.attendance.BulkUpsert(ctx, entries)
	if err != nil {
		return models.BulkWriteResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}
	s.metrics.RecordAttendanceWrite(result)
	s.logger.Info("attendance saved",
		zap.Int("entries", len(entries)),
		zap.Int64("matched", result.MatchedCount),
		zap.Int64("modified", result.ModifiedCount),
		zap.Int64("upserted", result.UpsertedCount))
	return result, nil
}

// Update applies a patch to an existing record.
func (s *AttendanceService) Update(ctx context.Context, id string, patch AttendancePatch) (*models.AttendanceDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Validation("Attendance ID is required")
	}
	rec, err := s.attendance.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Attendance record not found", "failed to load attendance")
	}

	if patch.Student != nil {
		rec.StudentID = strings.TrimSpace(*patch.Student)
	}
	if patch.AssemblyDate != nil {
		day, err := query.ParseDay(*patch.AssemblyDate)
		if err != nil {
			return nil, err
		}
		rec.AssemblyDate = day.Start
	}
	if patch.Attended != nil {
		rec.Attended = *patch.Attended
	}

	student, err := s.students.FindByID(ctx, rec.StudentID)
	if err != nil {
		return nil, storeError(err, "Student not found", "failed to load student")
	}
	if err := s.attendance.Update(ctx, rec); err != nil {
		return nil, storeError(err, "Attendance record not found", "failed to update attendance")
	}
	return detailFor(rec, student), nil
}

// Delete removes the records selected by del. Deleting a missing id is a 404.
func (s *AttendanceService) Delete(ctx context.Context, del query.AttendanceDeletion) (int64, error) {
	n, err := s.attendance.Delete(ctx, del)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance")
	}
	if del.Scope == query.DeleteByID && n == 0 {
		return 0, appErrors.NotFound("Attendance record not found")
	}
	s.logger.Info("attendance deleted", zap.Int("scope", int(del.Scope)), zap.Int64("deleted", n))
	return n, nil
}

// Dates groups attendance of existing students by assembly day.
func (s *AttendanceService) Dates(ctx context.Context) ([]models.DateSummary, error) {
	details, err := s.attendance.ListJoined(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance dates")
	}
	return GroupByDate(details), nil
}

// Roster reconciles one day against the active roster. A zero day means today in the configured
// location.
func (s *AttendanceService) Roster(ctx context.Context, day query.DayRange) (*Roster, error) {
	if day.Start.IsZero() {
		day = query.LocalDay(s.now(), s.loc)
	}
	students, err := s.students.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	details, _, err := s.attendance.List(ctx, query.ForDay(day))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	records := make([]models.AttendanceRecord, 0, len(details))
	for _, d := range details {
		records = append(records, d.AttendanceRecord)
	}

	reconciled := Reconcile(students, records)
	return &Roster{
		Date:       day.Key(),
		Attendance: reconciled,
		Students:   students,
		Stats:      DailyStatsFor(reconciled),
	}, nil
}

// Percentages returns each existing student's Friday attendance percentage. Records left behind by
// deleted students are ignored.
func (s *AttendanceService) Percentages(ctx context.Context) (map[string]int, error) {
	records, err := s.attendance.ListByWeekday(ctx, time.Friday)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	if len(records) == 0 {
		return map[string]int{}, nil
	}

	ids := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.StudentID]; !ok {
			seen[r.StudentID] = struct{}{}
			ids = append(ids, r.StudentID)
		}
	}
	found, err := s.students.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check students")
	}
	existing := make(map[string]struct{}, len(found))
	for _, id := range found {
		existing[id] = struct{}{}
	}

	joined := make([]models.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if _, ok := existing[r.StudentID]; ok {
			joined = append(joined, r)
		}
	}
	return FridayPercentages(joined), nil
}

// History returns every record of one student with summary stats.
func (s *AttendanceService) History(ctx context.Context, studentID string) ([]models.AttendanceDetail, models.HistoryStats, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, models.HistoryStats{}, appErrors.Validation("studentId is required")
	}
	records, _, err := s.attendance.List(ctx, query.ForStudent(studentID))
	if err != nil {
		return nil, models.HistoryStats{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance history")
	}
	return records, HistoryStatsFor(records), nil
}

// Scan marks the student named by a QR code present for the day, today when no date is given.
func (s *AttendanceService) Scan(ctx context.Context, req ScanRequest) (*models.AttendanceDetail, error) {
	req.Code = ParseStudentCode(req.Code)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "code is required")
	}
	day := query.LocalDay(s.now(), s.loc)
	if strings.TrimSpace(req.AssemblyDate) != "" {
		parsed, err := query.ParseDay(req.AssemblyDate)
		if err != nil {
			return nil, err
		}
		day = parsed
	}

	student, err := s.students.FindByID(ctx, req.Code)
	if err != nil {
		return nil, storeError(err, "Student not found", "failed to load student")
	}
	result, err := s.attendance.BulkUpsert(ctx, []models.AttendanceUpsert{{StudentID: student.ID, AssemblyDate: day.Start, Attended: true}})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record scan")
	}
	s.metrics.RecordAttendanceWrite(result)

	filter := query.ForDay(day)
	filter.StudentID = student.ID
	records, _, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	if len(records) == 0 {
		return nil, appErrors.Internal(fmt.Errorf("scan for %s on %s not persisted", student.ID, day.Key()), "failed to record scan")
	}
	return &records[0], nil
}

func detailFor(rec *models.AttendanceRecord, student *models.Student) *models.AttendanceDetail {
	return &models.AttendanceDetail{
		AttendanceRecord: *rec,
		FirstName:        student.FirstName,
		LastName:         student.LastName,
		Grade:            student.Grade,
	}
}

func difference(want, have []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	var missing []string
	for _, w := range want {
		if _, ok := set[w]; !ok {
			missing = append(missing, w)
		}
	}
	return missing
}
