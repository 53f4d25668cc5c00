// Package mongostore implements the store interfaces on MongoDB, keeping the collection layout of
// the original deployment so existing data can be served as-is.
package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/noah-isme/sabha-admin-api/internal/models"
	"github.com/noah-isme/sabha-admin-api/internal/repository"
)

const (
	studentsCollection     = "students"
	attendanceCollection   = "attendances"
	callLogsCollection     = "calllogs"
	groceryCollection      = "groceryitems"
	sabhaGroceryCollection = "sabhagroceries"
)

type studentDoc struct {
	ID               primitive.ObjectID    `bson:"_id,omitempty"`
	FirstName        string                `bson:"first_name"`
	LastName         string                `bson:"last_name"`
	MailID           string                `bson:"mail_id"`
	Phone            string                `bson:"phone"`
	Address          string                `bson:"address"`
	DateOfBirth      *time.Time            `bson:"date_of_birth,omitempty"`
	Gender           string                `bson:"gender"`
	Education        string                `bson:"education"`
	Grade            string                `bson:"grade"`
	EmergencyContact string                `bson:"emergency_contact"`
	Notes            string                `bson:"notes"`
	Events           []models.StudentEvent `bson:"events"`
	MovedOut         bool                  `bson:"moved_out"`
	MovedOutDate     *time.Time            `bson:"moved_out_date,omitempty"`
	MovedOutJob      string                `bson:"moved_out_job,omitempty"`
	MovedOutAddress  string                `bson:"moved_out_address,omitempty"`
	MovedOutNotes    string                `bson:"moved_out_notes,omitempty"`
	CreatedAt        time.Time             `bson:"created_at"`
	UpdatedAt        time.Time             `bson:"updated_at"`
}

func newStudentDoc(s *models.Student) studentDoc {
	return studentDoc{
		ID:               hexOrNil(s.ID),
		FirstName:        s.FirstName,
		LastName:         s.LastName,
		MailID:           s.MailID,
		Phone:            s.Phone,
		Address:          s.Address,
		DateOfBirth:      s.DateOfBirth,
		Gender:           s.Gender,
		Education:        s.Education,
		Grade:            s.Grade,
		EmergencyContact: s.EmergencyContact,
		Notes:            s.Notes,
		Events:           s.Events,
		MovedOut:         s.MovedOut,
		MovedOutDate:     s.MovedOutDate,
		MovedOutJob:      s.MovedOutJob,
		MovedOutAddress:  s.MovedOutAddress,
		MovedOutNotes:    s.MovedOutNotes,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (d studentDoc) model() models.Student {
	return models.Student{
		ID:               d.ID.Hex(),
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		MailID:           d.MailID,
		Phone:            d.Phone,
		Address:          d.Address,
		DateOfBirth:      d.DateOfBirth,
		Gender:           d.Gender,
		Education:        d.Education,
		Grade:            d.Grade,
		EmergencyContact: d.EmergencyContact,
		Notes:            d.Notes,
		Events:           d.Events,
		MovedOutInfo: models.MovedOutInfo{
			MovedOut:        d.MovedOut,
			MovedOutDate:    d.MovedOutDate,
			MovedOutJob:     d.MovedOutJob,
			MovedOutAddress: d.MovedOutAddress,
			MovedOutNotes:   d.MovedOutNotes,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type attendanceDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Student      primitive.ObjectID `bson:"student"`
	AssemblyDate time.Time          `bson:"assemblyDate"`
	Attended     bool               `bson:"attended"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d attendanceDoc) model() models.AttendanceRecord {
	return models.AttendanceRecord{
		ID:           d.ID.Hex(),
		StudentID:    d.Student.Hex(),
		AssemblyDate: d.AssemblyDate.UTC(),
		Attended:     d.Attended,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type callLogDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Student       primitive.ObjectID `bson:"student"`
	Status        string             `bson:"status"`
	Notes         string             `bson:"notes"`
	NeedsFollowUp bool               `bson:"needs_follow_up"`
	FollowUpDate  *time.Time         `bson:"follow_up_date,omitempty"`
	Timestamp     time.Time          `bson:"timestamp"`
}

func (d callLogDoc) model() models.CallLog {
	return models.CallLog{
		ID:            d.ID.Hex(),
		StudentID:     d.Student.Hex(),
		Status:        models.CallStatus(d.Status),
		Notes:         d.Notes,
		NeedsFollowUp: d.NeedsFollowUp,
		FollowUpDate:  d.FollowUpDate,
		Timestamp:     d.Timestamp,
	}
}

type groceryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Quantity  float64            `bson:"quantity"`
	Unit      string             `bson:"unit"`
	MinStock  float64            `bson:"minStock"`
	ToBuy     bool               `bson:"toBuy"`
	Note      string             `bson:"note"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d groceryDoc) model() models.GroceryItem {
	return models.GroceryItem{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Quantity:  d.Quantity,
		Unit:      d.Unit,
		MinStock:  d.MinStock,
		ToBuy:     d.ToBuy,
		Note:      d.Note,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type sabhaGroceryDoc struct {
	ID            primitive.ObjectID    `bson:"_id,omitempty"`
	Date          time.Time             `bson:"date"`
	Menu          string                `bson:"menu"`
	GroceriesUsed []models.GroceryUsage `bson:"groceriesUsed"`
	CreatedAt     time.Time             `bson:"created_at"`
	UpdatedAt     time.Time             `bson:"updated_at"`
}

func (d sabhaGroceryDoc) model() models.SabhaGroceryRecord {
	return models.SabhaGroceryRecord{
		ID:            d.ID.Hex(),
		Date:          d.Date.UTC(),
		Menu:          d.Menu,
		GroceriesUsed: d.GroceriesUsed,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// objectID parses a hex id. Malformed ids cannot name a stored document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

// hexOrNil is objectID for filters: a malformed id becomes the nil id, which matches nothing.
func hexOrNil(id string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}
