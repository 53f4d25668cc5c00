package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
)

// CallLogStore keeps call logs in the calllogs collection.
type CallLogStore struct {
	callLogs *mongo.Collection
	students *mongo.Collection
}

// NewCallLogStore binds the store to db.
func NewCallLogStore(db *mongo.Database) *CallLogStore {
	return &CallLogStore{
		callLogs: db.Collection(callLogsCollection),
		students: db.Collection(studentsCollection),
	}
}

// List returns matching call logs newest first, with the student's name.
func (s *CallLogStore) List(ctx context.Context, f query.CallLogFilter) ([]models.CallLogDetail, int, error) {
	filter := callLogFilter(f)
	cur, err := s.callLogs.Find(ctx, filter, pageOptions(f.Page.Page, f.Page.Limit, timestampDesc))
	if err != nil {
		return nil, 0, fmt.Errorf("list call logs: %w", err)
	}
	var docs []callLogDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("list call logs: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.Student)
	}
	students, err := refs(ctx, s.students, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("populate call logs: %w", err)
	}

	out := make([]models.CallLogDetail, 0, len(docs))
	for _, d := range docs {
		detail := models.CallLogDetail{CallLog: d.model()}
		if st, ok := students[d.Student]; ok {
			detail.FirstName, detail.LastName = st.FirstName, st.LastName
		}
		out = append(out, detail)
	}

	total, err := s.callLogs.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count call logs: %w", err)
	}
	return out, int(total), nil
}

// Create appends a call log.
func (s *CallLogStore) Create(ctx context.Context, log *models.CallLog) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	doc := callLogDoc{
		ID:            primitive.NewObjectID(),
		Student:       hexOrNil(log.StudentID),
		Status:        string(log.Status),
		Notes:         log.Notes,
		NeedsFollowUp: log.NeedsFollowUp,
		FollowUpDate:  log.FollowUpDate,
		Timestamp:     log.Timestamp,
	}
	if _, err := s.callLogs.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create call log: %w", err)
	}
	log.ID = doc.ID.Hex()
	return nil
}

// Counters runs one count per dashboard figure.
func (s *CallLogStore) Counters(ctx context.Context, w query.DashboardWindows) (*models.CallCounters, error) {
	filters := callCounterFilters(w)
	var counts [6]int64
	for i, filter := range filters {
		n, err := s.callLogs.CountDocuments(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("count call logs: %w", err)
		}
		counts[i] = n
	}
	return &models.CallCounters{
		TotalCalls:     counts[0],
		CompletedCalls: counts[1],
		PendingCalls:   counts[2],
		TodaysCalls:    counts[3],
		WeeksCalls:     counts[4],
		MonthsCalls:    counts[5],
	}, nil
}

// NotesBetween groups the window's call logs by notes.
func (s *CallLogStore) NotesBetween(ctx context.Context, w query.Window) ([]models.NoteCount, error) {
	cur, err := s.callLogs.Aggregate(ctx, notesPipeline(w))
	if err != nil {
		return nil, fmt.Errorf("group call notes: %w", err)
	}
	var counts []models.NoteCount
	if err := cur.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("group call notes: %w", err)
	}
	return counts, nil
}
