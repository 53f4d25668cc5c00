package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
	"github.com/noah-isme/sabha-admin-api/internal/repository"
)

// AttendanceStore keeps attendance in the attendances collection.
type AttendanceStore struct {
	attendance *mongo.Collection
	students   *mongo.Collection
}

// NewAttendanceStore binds the store to db.
func NewAttendanceStore(db *mongo.Database) *AttendanceStore {
	return &AttendanceStore{
		attendance: db.Collection(attendanceCollection),
		students:   db.Collection(studentsCollection),
	}
}

func (s *AttendanceStore) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]attendanceDoc, error) {
	cur, err := s.attendance.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []attendanceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// populate attaches student names. Records of deleted students keep empty names.
func (s *AttendanceStore) populate(ctx context.Context, docs []attendanceDoc) ([]models.AttendanceDetail, error) {
	ids := make([]primitive.ObjectID, 0, len(docs))
	seen := make(map[primitive.ObjectID]struct{}, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.Student]; !ok {
			seen[d.Student] = struct{}{}
			ids = append(ids, d.Student)
		}
	}
	students, err := refs(ctx, s.students, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.AttendanceDetail, 0, len(docs))
	for _, d := range docs {
		detail := models.AttendanceDetail{AttendanceRecord: d.model()}
		if st, ok := students[d.Student]; ok {
			detail.FirstName, detail.LastName, detail.Grade = st.FirstName, st.LastName, st.Grade
		}
		out = append(out, detail)
	}
	return out, nil
}

// List returns matching attendance with student names, newest assembly first.
func (s *AttendanceStore) List(ctx context.Context, f query.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	filter := attendanceFilter(f)
	docs, err := s.find(ctx, filter, pageOptions(f.Page.Page, f.Page.Limit, dateDesc))
	if err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}
	details, err := s.populate(ctx, docs)
	if err != nil {
		return nil, 0, fmt.Errorf("populate attendance: %w", err)
	}
	total, err := s.attendance.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return details, int(total), nil
}

// ListJoined returns every record whose student still exists.
func (s *AttendanceStore) ListJoined(ctx context.Context) ([]models.AttendanceDetail, error) {
	docs, err := s.find(ctx, bson.M{}, options.Find().SetSort(dateDesc))
	if err != nil {
		return nil, fmt.Errorf("list joined attendance: %w", err)
	}
	details, err := s.populate(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("populate attendance: %w", err)
	}

	joined := details[:0]
	for _, d := range details {
		if d.HasStudent() {
			joined = append(joined, d)
		}
	}
	sort.SliceStable(joined, func(i, j int) bool {
		a, b := joined[i], joined[j]
		if !a.AssemblyDate.Equal(b.AssemblyDate) {
			return a.AssemblyDate.After(b.AssemblyDate)
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.LastName < b.LastName
	})
	return joined, nil
}

// ListByWeekday returns records on the given UTC weekday.
func (s *AttendanceStore) ListByWeekday(ctx context.Context, wd time.Weekday) ([]models.AttendanceRecord, error) {
	docs, err := s.find(ctx, weekdayFilter(wd))
	if err != nil {
		return nil, fmt.Errorf("list attendance by weekday: %w", err)
	}
	out := make([]models.AttendanceRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

// FindByID fetches one record.
func (s *AttendanceStore) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc attendanceDoc
	if err := s.attendance.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	rec := doc.model()
	return &rec, nil
}

// Create inserts a record. The unique index turns a second record for the same day into ErrDuplicate.
func (s *AttendanceStore) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now
	doc := attendanceDoc{
		ID:           primitive.NewObjectID(),
		Student:      hexOrNil(rec.StudentID),
		AssemblyDate: rec.AssemblyDate,
		Attended:     rec.Attended,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.attendance.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("create attendance: %w", err)
	}
	rec.ID = doc.ID.Hex()
	return nil
}

// Update rewrites a record's fields.
func (s *AttendanceStore) Update(ctx context.Context, rec *models.AttendanceRecord) error {
	oid, err := objectID(rec.ID)
	if err != nil {
		return err
	}
	rec.UpdatedAt = time.Now().UTC()
	res, err := s.attendance.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"student":      hexOrNil(rec.StudentID),
		"assemblyDate": rec.AssemblyDate,
		"attended":     rec.Attended,
		"updatedAt":    rec.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("update attendance: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// BulkUpsert applies all entries as one ordered bulk write.
func (s *AttendanceStore) BulkUpsert(ctx context.Context, entries []models.AttendanceUpsert) (models.BulkWriteResult, error) {
	if len(entries) == 0 {
		return models.BulkWriteResult{}, nil
	}
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		writes = append(writes, upsertModel(e, now))
	}
	res, err := s.attendance.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return models.BulkWriteResult{}, fmt.Errorf("bulk upsert attendance: %w", err)
	}
	return models.BulkWriteResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}, nil
}

// Delete removes the records selected by the scope.
func (s *AttendanceStore) Delete(ctx context.Context, del query.AttendanceDeletion) (int64, error) {
	filter, err := deletionFilter(del)
	if err != nil {
		return 0, err
	}
	res, err := s.attendance.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete attendance: %w", err)
	}
	return res.DeletedCount, nil
}
