package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/repository"
)

// StudentStore keeps students in the students collection.
type StudentStore struct {
	students   *mongo.Collection
	attendance *mongo.Collection
	callLogs   *mongo.Collection
}

// NewStudentStore binds the store to db.
func NewStudentStore(db *mongo.Database) *StudentStore {
	return &StudentStore{
		students:   db.Collection(studentsCollection),
		attendance: db.Collection(attendanceCollection),
		callLogs:   db.Collection(callLogsCollection),
	}
}

func (s *StudentStore) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Student, error) {
	cur, err := s.students.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []studentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Student, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

// List returns matching students ordered by name.
func (s *StudentStore) List(ctx context.Context, f models.StudentFilter) ([]models.Student, int, error) {
	filter := studentFilter(f)
	students, err := s.find(ctx, filter, pageOptions(f.Page, f.Limit, studentSort))
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	total, err := s.students.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, int(total), nil
}

// ListActive returns students who have not moved out.
func (s *StudentStore) ListActive(ctx context.Context) ([]models.Student, error) {
	students, err := s.find(ctx, bson.M{"moved_out": bson.M{"$ne": true}}, options.Find().SetSort(studentSort))
	if err != nil {
		return nil, fmt.Errorf("list active students: %w", err)
	}
	return students, nil
}

// ListByBirthday returns students born on month/day.
func (s *StudentStore) ListByBirthday(ctx context.Context, month time.Month, day int) ([]models.Student, error) {
	students, err := s.find(ctx, birthdayFilter(month, day), options.Find().SetSort(studentSort))
	if err != nil {
		return nil, fmt.Errorf("list birthdays: %w", err)
	}
	return students, nil
}

// FindByID fetches one student.
func (s *StudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc studentDoc
	if err := s.students.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	student := doc.model()
	return &student, nil
}

// ExistingIDs returns the subset of ids naming stored students.
func (s *StudentStore) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return nil, nil
	}

	cur, err := s.students.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("check student ids: %w", err)
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("check student ids: %w", err)
	}
	found := make([]string, 0, len(docs))
	for _, d := range docs {
		found = append(found, d.ID.Hex())
	}
	return found, nil
}

// Count returns how many students are on file.
func (s *StudentStore) Count(ctx context.Context) (int64, error) {
	n, err := s.students.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

// Create inserts a student and assigns its id.
func (s *StudentStore) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	doc := newStudentDoc(student)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := s.students.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("create student: %w", err)
	}
	student.ID = doc.ID.Hex()
	return nil
}

// Update replaces a stored student.
func (s *StudentStore) Update(ctx context.Context, student *models.Student) error {
	oid, err := objectID(student.ID)
	if err != nil {
		return err
	}
	student.UpdatedAt = time.Now().UTC()
	res, err := s.students.ReplaceOne(ctx, bson.M{"_id": oid}, newStudentDoc(student))
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the student and then its attendance and call logs. A standalone server has no
// multi-document transactions, so the student goes first and orphans are cleaned afterwards.
func (s *StudentStore) Delete(ctx context.Context, id string) (*models.StudentDeletion, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	res, err := s.students.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("delete student: %w", err)
	}
	if res.DeletedCount == 0 {
		return nil, repository.ErrNotFound
	}

	result := &models.StudentDeletion{}
	att, err := s.attendance.DeleteMany(ctx, bson.M{"student": oid})
	if err != nil {
		return nil, fmt.Errorf("delete student attendance: %w", err)
	}
	result.AttendanceDeleted = att.DeletedCount

	calls, err := s.callLogs.DeleteMany(ctx, bson.M{"student": oid})
	if err != nil {
		return nil, fmt.Errorf("delete student call logs: %w", err)
	}
	result.CallLogsDeleted = calls.DeletedCount
	return result, nil
}

// refs loads the named students keyed by id.
func refs(ctx context.Context, students *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]studentDoc, error) {
	out := make(map[primitive.ObjectID]studentDoc, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	projection := bson.M{"first_name": 1, "last_name": 1, "grade": 1}
	cur, err := students.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	var docs []studentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d
	}
	return out, nil
}
