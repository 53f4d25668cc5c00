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

// GroceryStore keeps inventory in the groceryitems collection.
type GroceryStore struct {
	items *mongo.Collection
}

// NewGroceryStore binds the store to db.
func NewGroceryStore(db *mongo.Database) *GroceryStore {
	return &GroceryStore{items: db.Collection(groceryCollection)}
}

// List returns every item sorted by name.
func (s *GroceryStore) List(ctx context.Context) ([]models.GroceryItem, error) {
	cur, err := s.items.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}
	var docs []groceryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}
	items := make([]models.GroceryItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.model())
	}
	return items, nil
}

// FindByID fetches one item.
func (s *GroceryStore) FindByID(ctx context.Context, id string) (*models.GroceryItem, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc groceryDoc
	if err := s.items.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find grocery item: %w", err)
	}
	item := doc.model()
	return &item, nil
}

// Create inserts an item.
func (s *GroceryStore) Create(ctx context.Context, item *models.GroceryItem) error {
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now
	doc := groceryDoc{
		ID:        primitive.NewObjectID(),
		Name:      item.Name,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		MinStock:  item.MinStock,
		ToBuy:     item.ToBuy,
		Note:      item.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.items.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create grocery item: %w", err)
	}
	item.ID = doc.ID.Hex()
	return nil
}

// Update rewrites an item's fields.
func (s *GroceryStore) Update(ctx context.Context, item *models.GroceryItem) error {
	oid, err := objectID(item.ID)
	if err != nil {
		return err
	}
	item.UpdatedAt = time.Now().UTC()
	res, err := s.items.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":       item.Name,
		"quantity":   item.Quantity,
		"unit":       item.Unit,
		"minStock":   item.MinStock,
		"toBuy":      item.ToBuy,
		"note":       item.Note,
		"updated_at": item.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update grocery item: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an item.
func (s *GroceryStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.items.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete grocery item: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
