package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
)

// StudentRequest is the payload for creating or replacing a student.
type StudentRequest struct {
	FirstName        string                `json:"first_name" validate:"required"`
	LastName         string                `json:"last_name" validate:"required"`
	MailID           string                `json:"mail_id"`
	Phone            string                `json:"phone" validate:"required"`
	Address          string                `json:"address"`
	DateOfBirth      string                `json:"date_of_birth"`
	Gender           string                `json:"gender"`
	Education        string                `json:"education"`
	Grade            string                `json:"grade"`
	EmergencyContact string                `json:"emergency_contact"`
	Notes            string                `json:"notes"`
	Events           []models.StudentEvent `json:"events"`
	MovedOut         bool                  `json:"moved_out"`
	MovedOutDate     string                `json:"moved_out_date"`
	MovedOutJob      string                `json:"moved_out_job"`
	MovedOutAddress  string                `json:"moved_out_address"`
	MovedOutNotes    string                `json:"moved_out_notes"`
}

func (r *StudentRequest) normalise() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.MailID = strings.ToLower(strings.TrimSpace(r.MailID))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.Gender = strings.TrimSpace(r.Gender)
	r.Education = strings.TrimSpace(r.Education)
	r.Grade = strings.TrimSpace(r.Grade)
	r.EmergencyContact = strings.TrimSpace(r.EmergencyContact)
	r.Notes = strings.TrimSpace(r.Notes)
}

func optionalDay(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	day, err := query.ParseDay(raw)
	if err != nil {
		return nil, err
	}
	return &day.Start, nil
}

// apply copies the request onto student, leaving identity and timestamps untouched.
func (r StudentRequest) apply(student *models.Student) error {
	dob, err := optionalDay(r.DateOfBirth)
	if err != nil {
		return err
	}
	movedOutDate, err := optionalDay(r.MovedOutDate)
	if err != nil {
		return err
	}
	student.FirstName = r.FirstName
	student.LastName = r.LastName
	student.MailID = r.MailID
	student.Phone = r.Phone
	student.Address = r.Address
	student.DateOfBirth = dob
	student.Gender = r.Gender
	student.Education = r.Education
	student.Grade = r.Grade
	student.EmergencyContact = r.EmergencyContact
	student.Notes = r.Notes
	student.Events = r.Events
	if student.Events == nil {
		student.Events = models.StudentEvents{}
	}
	student.MovedOutInfo = models.MovedOutInfo{MovedOut: r.MovedOut}
	if r.MovedOut {
		student.MovedOutDate = movedOutDate
		student.MovedOutJob = strings.TrimSpace(r.MovedOutJob)
		student.MovedOutAddress = strings.TrimSpace(r.MovedOutAddress)
		student.MovedOutNotes = strings.TrimSpace(r.MovedOutNotes)
	}
	return nil
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      StudentStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo StudentStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns students and the total matching count.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, total, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Student not found", "failed to load student")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	req.normalise()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "first_name, last_name and phone are required")
	}
	student := &models.Student{}
	if err := req.apply(student); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, storeError(err, "Student not found", "failed to create student")
	}
	s.invalidateDashboard(ctx)
	s.logger.Info("student created", zap.String("student_id", student.ID))
	return student, nil
}

// Update replaces an existing student's details.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.Student, error) {
	req.normalise()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "first_name, last_name and phone are required")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Student not found", "failed to load student")
	}
	if err := req.apply(student); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, storeError(err, "Student not found", "failed to update student")
	}
	return student, nil
}

// Delete removes a student along with its attendance and call logs.
func (s *StudentService) Delete(ctx context.Context, id string) (*models.StudentDeletion, error) {
	result, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, storeError(err, "Student not found", "failed to delete student")
	}
	s.invalidateDashboard(ctx)
	s.logger.Info("student deleted",
		zap.String("student_id", id),
		zap.Int64("attendance_deleted", result.AttendanceDeleted),
		zap.Int64("call_logs_deleted", result.CallLogsDeleted))
	return result, nil
}

func (s *StudentService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
