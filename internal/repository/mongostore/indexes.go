package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func indexPlan() []collectionIndexes {
	return []collectionIndexes{
		{attendanceCollection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "student", Value: 1}, {Key: "assemblyDate", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("student_assemblyDate_unique"),
			},
			{Keys: bson.D{{Key: "assemblyDate", Value: -1}}},
		}},
		{callLogsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "student", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		}},
		{studentsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}}},
		}},
		{groceryCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "name", Value: 1}}},
		}},
	}
}

// EnsureIndexes creates the indexes the stores rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, plan := range indexPlan() {
		if _, err := db.Collection(plan.collection).Indexes().CreateMany(ctx, plan.models); err != nil {
			return fmt.Errorf("create %s indexes: %w", plan.collection, err)
		}
	}
	return nil
}
