package appointmentRepo

import (
	"context"
	"testing"

	"frontdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockRepo(mt *mtest.T, useTransactions bool) *MongoAppointmentRepo {
	return NewMongoAppointmentRepo(mt.DB, "calendar", "bookings", useTransactions).(*MongoAppointmentRepo)
}

func TestMongoGetCalendarEntry(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		ns := mt.DB.Name() + ".calendar"
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "14-10-2026"},
			{Key: "slots", Value: bson.A{
				bson.D{{Key: "start_time", Value: "09:00"}, {Key: "end_time", Value: "10:00"}, {Key: "availability", Value: true}},
			}},
			{Key: "version", Value: 4},
		}))

		entry, err := repo.GetCalendarEntry(context.Background(), "14-10-2026")
		require.NoError(t, err)
		assert.Equal(t, "14-10-2026", entry.Date)
		assert.Equal(t, 4, entry.Version)
		require.Len(t, entry.Slots, 1)
		assert.Equal(t, models.Slot{StartTime: "09:00", EndTime: "10:00", Availability: true}, entry.Slots[0])
	})

	mt.Run("seeded without version", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		ns := mt.DB.Name() + ".calendar"
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "14-10-2026"},
			{Key: "slots", Value: bson.A{}},
		}))

		entry, err := repo.GetCalendarEntry(context.Background(), "14-10-2026")
		require.NoError(t, err)
		assert.Zero(t, entry.Version)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".calendar", mtest.FirstBatch))

		_, err := repo.GetCalendarEntry(context.Background(), "14-10-2026")
		assert.ErrorIs(t, err, ErrCalendarNotFound)
	})

	mt.Run("server error", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad query"}))

		_, err := repo.GetCalendarEntry(context.Background(), "14-10-2026")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCalendarNotFound)
	})
}

func TestMongoReplaceSlots(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matched", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := repo.ReplaceSlots(context.Background(), "14-10-2026", 3, []models.Slot{{StartTime: "09:00", EndTime: "10:00"}})
		assert.NoError(t, err)
	})

	mt.Run("version moved", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.ReplaceSlots(context.Background(), "14-10-2026", 3, nil)
		assert.ErrorIs(t, err, ErrVersionConflict)
	})
}

func TestVersionFilter(t *testing.T) {
	assert.Equal(t, bson.M{"_id": "14-10-2026", "version": 2}, versionFilter("14-10-2026", 2))

	f := versionFilter("14-10-2026", 0)
	assert.Equal(t, "14-10-2026", f["_id"])
	assert.Len(t, f["$or"], 2)
}

func TestMongoDeleteBooking(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(t, repo.DeleteBooking(context.Background(), primitive.NewObjectID()))
	})

	mt.Run("nothing deleted", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.ErrorIs(t, repo.DeleteBooking(context.Background(), primitive.NewObjectID()), ErrBookingNotFound)
	})
}

func TestMongoInsertBookingAssignsID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		b := &models.Booking{Name: "Sam Rivera"}
		require.NoError(t, repo.InsertBooking(context.Background(), b))
		assert.False(t, b.ID.IsZero())
	})
}

func TestMongoBookWithCompensation(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("calendar write loses and booking is removed", func(mt *mtest.T) {
		repo := newMockRepo(mt, false)
		// insert, conditional update without match, compensating delete
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		b := &models.Booking{CalendarID: "14-10-2026"}
		err := repo.BookTransactionally(context.Background(), b, 2, nil)
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	mt.Run("success", func(mt *mtest.T) {
		repo := newMockRepo(mt, false)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		b := &models.Booking{CalendarID: "14-10-2026"}
		require.NoError(t, repo.BookTransactionally(context.Background(), b, 2, nil))
		assert.False(t, b.ID.IsZero())
	})
}

func commandNames(mt *mtest.T) []string {
	var names []string
	for _, evt := range mt.GetAllStartedEvents() {
		names = append(names, evt.CommandName)
	}
	return names
}

func TestMongoCancelWithoutTransactions(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success deletes then releases", func(mt *mtest.T) {
		repo := newMockRepo(mt, false)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		require.NoError(t, repo.CancelTransactionally(context.Background(), primitive.NewObjectID(), "14-10-2026", 3, nil))
		assert.Equal(t, []string{"delete", "update"}, commandNames(mt))
	})

	mt.Run("booking already gone leaves slots alone", func(mt *mtest.T) {
		repo := newMockRepo(mt, false)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.CancelTransactionally(context.Background(), primitive.NewObjectID(), "14-10-2026", 3, nil)
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.Equal(t, []string{"delete"}, commandNames(mt))
	})

	mt.Run("calendar moved after delete", func(mt *mtest.T) {
		repo := newMockRepo(mt, false)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		err := repo.CancelTransactionally(context.Background(), primitive.NewObjectID(), "14-10-2026", 3, nil)
		assert.ErrorIs(t, err, ErrSlotsNotReleased)
		assert.ErrorIs(t, err, ErrVersionConflict)
	})
}

func TestMongoBookInTransaction(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("commit", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(),
		)

		b := &models.Booking{CalendarID: "14-10-2026"}
		require.NoError(t, repo.BookTransactionally(context.Background(), b, 2, nil))
		assert.False(t, b.ID.IsZero())
		assert.Equal(t, []string{"insert", "update", "commitTransaction"}, commandNames(mt))
	})

	mt.Run("version moved aborts", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(),
		)

		err := repo.BookTransactionally(context.Background(), &models.Booking{CalendarID: "14-10-2026"}, 2, nil)
		assert.ErrorIs(t, err, ErrVersionConflict)
		assert.Equal(t, []string{"insert", "update", "abortTransaction"}, commandNames(mt))
	})

	mt.Run("write conflict is retried as version conflict", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    112,
				Name:    "WriteConflict",
				Message: "write conflict",
				Labels:  []string{"TransientTransactionError"},
			}),
			mtest.CreateSuccessResponse(),
		)

		err := repo.BookTransactionally(context.Background(), &models.Booking{CalendarID: "14-10-2026"}, 2, nil)
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	mt.Run("other server errors stay store failures", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Name: "Unauthorized", Message: "not authorized"}),
			mtest.CreateSuccessResponse(),
		)

		err := repo.BookTransactionally(context.Background(), &models.Booking{CalendarID: "14-10-2026"}, 2, nil)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrVersionConflict)
	})
}

func TestMongoCancelInTransaction(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("commit", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(),
		)

		require.NoError(t, repo.CancelTransactionally(context.Background(), primitive.NewObjectID(), "14-10-2026", 3, nil))
		assert.Equal(t, []string{"delete", "update", "commitTransaction"}, commandNames(mt))
	})

	mt.Run("missing booking aborts", func(mt *mtest.T) {
		repo := newMockRepo(mt, true)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateSuccessResponse(),
		)

		err := repo.CancelTransactionally(context.Background(), primitive.NewObjectID(), "14-10-2026", 3, nil)
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.Equal(t, []string{"delete", "abortTransaction"}, commandNames(mt))
	})
}

func TestAsVersionConflict(t *testing.T) {
	assert.NoError(t, asVersionConflict(nil))
	assert.ErrorIs(t, asVersionConflict(ErrVersionConflict), ErrVersionConflict)

	labelled := mongo.CommandError{Code: 251, Name: "NoSuchTransaction", Labels: []string{"TransientTransactionError"}}
	assert.ErrorIs(t, asVersionConflict(labelled), ErrVersionConflict)

	plain := mongo.CommandError{Code: 2, Name: "BadValue"}
	assert.NotErrorIs(t, asVersionConflict(plain), ErrVersionConflict)
}
