package appointmentRepo

import (
	"context"
	"errors"
	"fmt"

	"frontdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetCalendarEntry retrieves the calendar document keyed by date.
func (repo *MongoAppointmentRepo) GetCalendarEntry(ctx context.Context, date string) (*models.CalendarEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var entry models.CalendarEntry
	err := repo.calendarColl.FindOne(ctx, bson.M{"_id": date}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCalendarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching calendar entry %s: %w", date, err)
	}
	return &entry, nil
}

// UpsertCalendarEntry replaces the whole calendar document, creating it if needed.
// The stored version is bumped past the one carried by entry.
func (repo *MongoAppointmentRepo) UpsertCalendarEntry(ctx context.Context, entry *models.CalendarEntry) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := *entry
	doc.Version = entry.Version + 1
	_, err := repo.calendarColl.ReplaceOne(ctx, bson.M{"_id": entry.Date}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error upserting calendar entry %s: %w", entry.Date, err)
	}
	entry.Version = doc.Version
	return nil
}

// ReplaceSlots writes the full slot sequence back when the stored version still equals
// expectedVersion.
func (repo *MongoAppointmentRepo) ReplaceSlots(ctx context.Context, date string, expectedVersion int, slots []models.Slot) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return repo.replaceSlots(ctx, date, expectedVersion, slots)
}

func (repo *MongoAppointmentRepo) replaceSlots(ctx context.Context, date string, expectedVersion int, slots []models.Slot) error {
	res, err := repo.calendarColl.UpdateOne(ctx, versionFilter(date, expectedVersion), slotsUpdate(slots))
	if err != nil {
		return fmt.Errorf("failed to update slots for %s: %w", date, err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

// versionFilter matches the entry at expectedVersion. Entries seeded without a version
// field count as version 0.
func versionFilter(date string, expectedVersion int) bson.M {
	if expectedVersion == 0 {
		return bson.M{
			"_id": date,
			"$or": bson.A{
				bson.M{"version": 0},
				bson.M{"version": bson.M{"$exists": false}},
			},
		}
	}
	return bson.M{"_id": date, "version": expectedVersion}
}

func slotsUpdate(slots []models.Slot) bson.M {
	if slots == nil {
		slots = []models.Slot{}
	}
	return bson.M{
		"$set": bson.M{"slots": slots},
		"$inc": bson.M{"version": 1},
	}
}
