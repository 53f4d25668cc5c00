package mongostore

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
)

var (
	studentSort   = bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}}
	dateDesc      = bson.D{{Key: "assemblyDate", Value: -1}, {Key: "_id", Value: 1}}
	timestampDesc = bson.D{{Key: "timestamp", Value: -1}}
)

func studentFilter(f models.StudentFilter) bson.M {
	filter := bson.M{}
	if f.MovedOut != nil {
		filter["moved_out"] = *f.MovedOut
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"first_name": re},
			bson.M{"last_name": re},
			bson.M{"mail_id": re},
			bson.M{"phone": re},
		}
	}
	return filter
}

// birthdayFilter matches the UTC month and day of date_of_birth.
func birthdayFilter(month time.Month, day int) bson.M {
	return bson.M{
		"date_of_birth": bson.M{"$ne": nil},
		"$expr": bson.M{"$and": bson.A{
			bson.M{"$eq": bson.A{bson.M{"$month": "$date_of_birth"}, int(month)}},
			bson.M{"$eq": bson.A{bson.M{"$dayOfMonth": "$date_of_birth"}, day}},
		}},
	}
}

func windowFilter(w query.Window) bson.M {
	r := bson.M{}
	if !w.From.IsZero() {
		r["$gte"] = w.From
	}
	if !w.To.IsZero() {
		r["$lt"] = w.To
	}
	return r
}

func attendanceFilter(f query.AttendanceFilter) bson.M {
	filter := bson.M{}
	if !f.Window.IsZero() {
		filter["assemblyDate"] = windowFilter(f.Window)
	}
	if f.StudentID != "" {
		filter["student"] = hexOrNil(f.StudentID)
	}
	return filter
}

// weekdayFilter matches assembly dates on a UTC weekday. $dayOfWeek counts Sunday as 1.
func weekdayFilter(wd time.Weekday) bson.M {
	return bson.M{"$expr": bson.M{"$eq": bson.A{bson.M{"$dayOfWeek": "$assemblyDate"}, int(wd) + 1}}}
}

func deletionFilter(del query.AttendanceDeletion) (bson.M, error) {
	switch del.Scope {
	case query.DeleteByID:
		return bson.M{"_id": hexOrNil(del.ID)}, nil
	case query.DeleteByStudentDay:
		return bson.M{
			"student":      hexOrNil(del.StudentID),
			"assemblyDate": bson.M{"$gte": del.Day.Start, "$lt": del.Day.End},
		}, nil
	case query.DeleteByDay:
		return bson.M{"assemblyDate": bson.M{"$gte": del.Day.Start, "$lt": del.Day.End}}, nil
	case query.DeleteAll:
		return bson.M{}, nil
	default:
		return nil, fmt.Errorf("unknown attendance delete scope %d", del.Scope)
	}
}

func callLogFilter(f query.CallLogFilter) bson.M {
	filter := bson.M{}
	if f.StudentID != "" {
		filter["student"] = hexOrNil(f.StudentID)
	}
	if !f.Window.IsZero() {
		filter["timestamp"] = windowFilter(f.Window)
	}
	return filter
}

// callCounterFilters returns the filters for total, completed, pending, today, week and month
// counts, in that order.
func callCounterFilters(w query.DashboardWindows) [6]bson.M {
	completed := string(models.CallStatusCompleted)
	return [6]bson.M{
		{},
		{"status": completed},
		{"$or": bson.A{bson.M{"needs_follow_up": true}, bson.M{"status": bson.M{"$ne": completed}}}},
		{"timestamp": bson.M{"$gte": w.Today}},
		{"timestamp": bson.M{"$gte": w.Week}},
		{"timestamp": bson.M{"$gte": w.Month}},
	}
}

func notesPipeline(w query.Window) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": windowFilter(w)}}},
		{{Key: "$group", Value: bson.M{"_id": "$notes", "count": bson.M{"$sum": 1}}}},
	}
}

// deductUpdate floors the new quantity at zero inside the server.
func deductUpdate(amount float64, now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"quantity":   bson.M{"$max": bson.A{bson.M{"$subtract": bson.A{"$quantity", amount}}, 0}},
			"updated_at": now,
		}}},
	}
}

func upsertModel(entry models.AttendanceUpsert, now time.Time) mongo.WriteModel {
	return mongo.NewUpdateOneModel().
		SetFilter(bson.M{"student": hexOrNil(entry.StudentID), "assemblyDate": entry.AssemblyDate}).
		SetUpdate(bson.M{
			"$set":         bson.M{"attended": entry.Attended, "updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		}).
		SetUpsert(true)
}

func pageOptions(page, limit int, sort bson.D) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
	}
	return opts
}
