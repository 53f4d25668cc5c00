package mongostore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/query"
)

func TestStudentFilterEscapesSearch(t *testing.T) {
	movedOut := true
	filter := studentFilter(models.StudentFilter{Search: " a.b ", MovedOut: &movedOut})

	assert.Equal(t, true, filter["moved_out"])
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 4)
	assert.Equal(t, bson.M{"first_name": primitive.Regex{Pattern: `a\.b`, Options: "i"}}, or[0])
}

func TestStudentFilterEmpty(t *testing.T) {
	assert.Empty(t, studentFilter(models.StudentFilter{}))
}

func TestWeekdayFilterUsesMongoNumbering(t *testing.T) {
	filter := weekdayFilter(time.Friday)
	expr := filter["$expr"].(bson.M)["$eq"].(bson.A)
	assert.Equal(t, 6, expr[1])
}

func TestAttendanceFilterMalformedStudentMatchesNothing(t *testing.T) {
	day, err := query.ParseDay("2024-03-01")
	require.NoError(t, err)

	filter := attendanceFilter(query.AttendanceFilter{Window: query.Window{From: day.Start, To: day.End}, StudentID: "not-hex"})
	assert.Equal(t, primitive.NilObjectID, filter["student"])
	assert.Equal(t, bson.M{"$gte": day.Start, "$lt": day.End}, filter["assemblyDate"])
}

func TestDeletionFilter(t *testing.T) {
	day, err := query.ParseDay("2024-03-01")
	require.NoError(t, err)
	oid := primitive.NewObjectID()

	byID, err := deletionFilter(query.AttendanceDeletion{Scope: query.DeleteByID, ID: oid.Hex()})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": oid}, byID)

	byDay, err := deletionFilter(query.AttendanceDeletion{Scope: query.DeleteByDay, Day: day})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"assemblyDate": bson.M{"$gte": day.Start, "$lt": day.End}}, byDay)

	all, err := deletionFilter(query.AttendanceDeletion{Scope: query.DeleteAll})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCallCounterFilters(t *testing.T) {
	windows := query.NewDashboardWindows(time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC), time.UTC)
	filters := callCounterFilters(windows)

	assert.Empty(t, filters[0])
	assert.Equal(t, bson.M{"status": "Completed"}, filters[1])
	assert.Equal(t, bson.M{"timestamp": bson.M{"$gte": windows.Week}}, filters[4])
}

func TestPageOptions(t *testing.T) {
	opts := pageOptions(3, 20, studentSort)
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.EqualValues(t, 40, *opts.Skip)
	assert.EqualValues(t, 20, *opts.Limit)

	all := pageOptions(3, 0, studentSort)
	assert.Nil(t, all.Skip)
	assert.Nil(t, all.Limit)
}

func TestUpsertModelIsKeyedByStudentAndDay(t *testing.T) {
	oid := primitive.NewObjectID()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	model, ok := upsertModel(models.AttendanceUpsert{StudentID: oid.Hex(), AssemblyDate: day, Attended: true}, day).(*mongo.UpdateOneModel)
	require.True(t, ok)

	assert.Equal(t, bson.M{"student": oid, "assemblyDate": day}, model.Filter)
	require.NotNil(t, model.Upsert)
	assert.True(t, *model.Upsert)
}

func TestIndexPlanHasUniqueAttendanceKey(t *testing.T) {
	plan := indexPlan()
	require.NotEmpty(t, plan)
	assert.Equal(t, attendanceCollection, plan[0].collection)
	unique := plan[0].models[0].Options.Unique
	require.NotNil(t, unique)
	assert.True(t, *unique)
}
