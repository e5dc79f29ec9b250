// FILE: database/repository/appointment/indexes.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes used by booking lookups. The calendar collection is
// only accessed by _id.
func (repo *MongoAppointmentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "appointment_date", Value: 1}, {Key: "appointment_start_time", Value: 1}},
			Options: options.Index().SetName("date_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "calendar_id", Value: 1}, {Key: "slot_indices", Value: 1}},
			Options: options.Index().SetName("calendar_slots_idx"),
		},
	}

	_, err := repo.bookingColl.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
