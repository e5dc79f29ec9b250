package appointmentRepo

import (
	"context"
	"errors"
	"fmt"

	"frontdesk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (repo *MongoAppointmentRepo) BookTransactionally(
	ctx context.Context,
	booking *models.Booking,
	expectedVersion int,
	slots []models.Slot,
) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}

	if !repo.useTransactions {
		return repo.bookWithCompensation(ctx, booking, expectedVersion, slots)
	}

	return repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := repo.insertBooking(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return repo.replaceSlots(sc, booking.CalendarID, expectedVersion, slots)
	})
}

func (repo *MongoAppointmentRepo) CancelTransactionally(
	ctx context.Context,
	id primitive.ObjectID,
	date string,
	expectedVersion int,
	slots []models.Slot,
) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if !repo.useTransactions {
		// Delete first so slots are never released for a booking that is already gone.
		if err := repo.deleteBooking(ctx, id); err != nil {
			return err
		}
		if err := repo.replaceSlots(ctx, date, expectedVersion, slots); err != nil {
			return errors.Join(ErrSlotsNotReleased, err)
		}
		return nil
	}

	return repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := repo.deleteBooking(sc, id); err != nil {
			return err
		}
		return repo.replaceSlots(sc, date, expectedVersion, slots)
	})
}

// bookWithCompensation is used on deployments without replica sets: the booking is removed
// again when the calendar write loses the version race.
func (repo *MongoAppointmentRepo) bookWithCompensation(ctx context.Context, booking *models.Booking, expectedVersion int, slots []models.Slot) error {
	if err := repo.insertBooking(ctx, booking); err != nil {
		return err
	}
	err := repo.replaceSlots(ctx, booking.CalendarID, expectedVersion, slots)
	if err == nil {
		return nil
	}
	if delErr := repo.deleteBooking(ctx, booking.ID); delErr != nil {
		return errors.Join(err, fmt.Errorf("compensating delete of booking %s failed: %w", booking.ID.Hex(), delErr))
	}
	return err
}

func (repo *MongoAppointmentRepo) withTransaction(ctx context.Context, txnFn func(sc mongo.SessionContext) error) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return asVersionConflict(err)
		}
		return asVersionConflict(sc.CommitTransaction(sc))
	})
}

const (
	writeConflictCode      = 112
	transientTxnErrorLabel = "TransientTransactionError"
)

// asVersionConflict reports a transaction that lost to a concurrent writer as a version
// conflict so the caller re-reads and retries.
func asVersionConflict(err error) error {
	if err == nil || errors.Is(err, ErrVersionConflict) {
		return err
	}
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorLabel(transientTxnErrorLabel) || se.HasErrorCode(writeConflictCode)) {
		return fmt.Errorf("%w: %v", ErrVersionConflict, err)
	}
	return err
}
