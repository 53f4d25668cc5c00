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

// SabhaStore keeps sabha menus in the sabhagroceries collection and draws their groceries down from
// groceryitems.
type SabhaStore struct {
	records *mongo.Collection
	items   *mongo.Collection
}

// NewSabhaStore binds the store to db.
func NewSabhaStore(db *mongo.Database) *SabhaStore {
	return &SabhaStore{
		records: db.Collection(sabhaGroceryCollection),
		items:   db.Collection(groceryCollection),
	}
}

// List returns records newest first.
func (s *SabhaStore) List(ctx context.Context) ([]models.SabhaGroceryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	cur, err := s.records.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list sabha grocery records: %w", err)
	}
	var docs []sabhaGroceryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list sabha grocery records: %w", err)
	}
	records := make([]models.SabhaGroceryRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.model())
	}
	return records, nil
}

// CreateWithDeduction inserts the record, then subtracts each usage from items with the same name,
// floored at zero. When a deduction fails the record is deleted again so a retry cannot duplicate it.
func (s *SabhaStore) CreateWithDeduction(ctx context.Context, record *models.SabhaGroceryRecord) (int64, error) {
	now := time.Now().UTC()
	record.CreatedAt, record.UpdatedAt = now, now
	doc := sabhaGroceryDoc{
		ID:            primitive.NewObjectID(),
		Date:          record.Date,
		Menu:          record.Menu,
		GroceriesUsed: record.GroceriesUsed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if doc.GroceriesUsed == nil {
		doc.GroceriesUsed = []models.GroceryUsage{}
	}
	if _, err := s.records.InsertOne(ctx, doc); err != nil {
		return 0, fmt.Errorf("create sabha grocery record: %w", err)
	}

	var touched int64
	for _, u := range doc.GroceriesUsed {
		res, err := s.items.UpdateMany(ctx, bson.M{"name": u.Name}, deductUpdate(u.Quantity, now))
		if err != nil {
			deductErr := fmt.Errorf("deduct %s: %w", u.Name, err)
			if _, delErr := s.records.DeleteOne(context.WithoutCancel(ctx), bson.M{"_id": doc.ID}); delErr != nil {
				return 0, errors.Join(deductErr, fmt.Errorf("remove sabha grocery record %s: %w", doc.ID.Hex(), delErr))
			}
			return 0, deductErr
		}
		touched += res.MatchedCount
	}
	record.ID = doc.ID.Hex()
	return touched, nil
}

// Delete removes a record.
func (s *SabhaStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.records.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete sabha grocery record: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
