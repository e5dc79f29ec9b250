// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"frontdesk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrCalendarNotFound = errors.New("calendar entry not found")
	ErrBookingNotFound  = errors.New("booking not found")
	// ErrVersionConflict means the calendar entry changed since it was read.
	ErrVersionConflict = errors.New("calendar entry version conflict")
	// ErrSlotsNotReleased means the booking was deleted but its slots are still reserved.
	ErrSlotsNotReleased = errors.New("booking deleted but slots not released")
)

const opTimeout = 5 * time.Second

type AppointmentRepository interface {
	GetCalendarEntry(ctx context.Context, date string) (*models.CalendarEntry, error)
	UpsertCalendarEntry(ctx context.Context, entry *models.CalendarEntry) error
	ReplaceSlots(ctx context.Context, date string, expectedVersion int, slots []models.Slot) error

	GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error)
	InsertBooking(ctx context.Context, booking *models.Booking) error
	DeleteBooking(ctx context.Context, id primitive.ObjectID) error

	// BookTransactionally inserts the booking and replaces the slots of its calendar entry
	// as one unit. Nothing is persisted when the entry version no longer matches.
	BookTransactionally(ctx context.Context, booking *models.Booking, expectedVersion int, slots []models.Slot) error
	// CancelTransactionally deletes the booking and replaces the slots of the given entry
	// as one unit. Without transactions the booking is deleted first; a failed slot write
	// after that is reported wrapped in ErrSlotsNotReleased.
	CancelTransactionally(ctx context.Context, id primitive.ObjectID, date string, expectedVersion int, slots []models.Slot) error

	EnsureIndexes() error
}

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	calendarColl    *mongo.Collection
	bookingColl     *mongo.Collection
	useTransactions bool
}

// NewMongoAppointmentRepo constructs a repository over the calendar and bookings collections of db.
func NewMongoAppointmentRepo(db *mongo.Database, calendarColl, bookingsColl string, useTransactions bool) AppointmentRepository {
	return &MongoAppointmentRepo{
		calendarColl:    db.Collection(calendarColl),
		bookingColl:     db.Collection(bookingsColl),
		useTransactions: useTransactions,
	}
}
