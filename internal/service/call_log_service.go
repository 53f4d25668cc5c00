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

// CallLogRequest is the payload for recording a call.
type CallLogRequest struct {
	StudentID     string     `json:"student_id" validate:"required"`
	Status        string     `json:"status" validate:"required,call_status"`
	Notes         string     `json:"notes"`
	NeedsFollowUp bool       `json:"needs_follow_up"`
	FollowUpDate  string     `json:"follow_up_date" validate:"required_if=NeedsFollowUp true"`
	Timestamp     *time.Time `json:"timestamp"`
}

// CallLogService records follow-up calls.
type CallLogService struct {
	logs      CallLogStore
	students  StudentStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCallLogService constructs the service. The validator must know the call_status tag, see
// NewValidator.
func NewCallLogService(logs CallLogStore, students StudentStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CallLogService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallLogService{logs: logs, students: students, cache: cache, validator: validate, logger: logger}
}

// List returns call logs newest first.
func (s *CallLogService) List(ctx context.Context, filter query.CallLogFilter) ([]models.CallLogDetail, int, error) {
	logs, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list call logs")
	}
	return logs, total, nil
}

// Create appends a call log for an existing student and drops cached dashboard counters.
func (s *CallLogService) Create(ctx context.Context, req CallLogRequest) (*models.CallLogDetail, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.Status = strings.TrimSpace(req.Status)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid call log payload")
	}
	followUp, err := optionalDay(req.FollowUpDate)
	if err != nil {
		return nil, err
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, storeError(err, "Student not found", "failed to load student")
	}

	log := &models.CallLog{
		StudentID:     student.ID,
		Status:        models.CallStatus(req.Status),
		Notes:         req.Notes,
		NeedsFollowUp: req.NeedsFollowUp,
		FollowUpDate:  followUp,
	}
	if req.Timestamp != nil {
		log.Timestamp = req.Timestamp.UTC()
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create call log")
	}
	if err := s.cache.Invalidate(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
	return &models.CallLogDetail{CallLog: *log, FirstName: student.FirstName, LastName: student.LastName}, nil
}
