package appointmentRepo

import (
	"context"
	"errors"
	"fmt"

	"frontdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetBooking retrieves a booking by its ID.
func (repo *MongoAppointmentRepo) GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var booking models.Booking
	err := repo.bookingColl.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", id.Hex(), err)
	}
	return &booking, nil
}

// ListBookingsByDate returns every booking of a date ordered by start time.
func (repo *MongoAppointmentRepo) ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "appointment_start_time", Value: 1}})
	cursor, err := repo.bookingColl.Find(ctx, bson.M{"appointment_date": date}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// InsertBooking inserts a new booking document. A zero ID is filled in before the write.
func (repo *MongoAppointmentRepo) InsertBooking(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return repo.insertBooking(ctx, booking)
}

func (repo *MongoAppointmentRepo) insertBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	if _, err := repo.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// DeleteBooking removes a booking record from the database.
func (repo *MongoAppointmentRepo) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return repo.deleteBooking(ctx, id)
}

func (repo *MongoAppointmentRepo) deleteBooking(ctx context.Context, id primitive.ObjectID) error {
	res, err := repo.bookingColl.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting booking %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}
