package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CancelAppointment deletes the booking. With RestoreOnCancel the reserved slots are
// marked available again in the same transaction.
func (s *DefaultAppointmentService) CancelAppointment(ctx context.Context, bookingID string) (*models.CancelResult, error) {
	id, err := parseBookingID(bookingID)
	if err != nil {
		return nil, err
	}
	logger := s.log().With(zap.String("bookingId", id.Hex()))
	logger.Info("cancellation requested")

	booking, err := s.Repo.GetBooking(ctx, id)
	if errors.Is(err, appointmentRepo.ErrBookingNotFound) {
		return nil, newNotFound(fmt.Sprintf("couldn't find any appointment with booking id %s", id.Hex()))
	}
	if err != nil {
		logger.Error("failed to fetch booking", zap.Error(err))
		return nil, newStoreFailure("failed to fetch booking", err)
	}

	var restored int
	if s.RestoreOnCancel {
		restored, err = s.cancelAndRelease(ctx, booking, logger)
	} else {
		err = s.deleteBooking(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("booking cancelled", zap.Int("slotsRestored", restored))

	if s.Reminders != nil {
		if err := s.Reminders.CancelReminder(ctx, id.Hex()); err != nil {
			logger.Warn("failed to drop reminder", zap.Error(err))
		}
	}
	return &models.CancelResult{BookingID: id.Hex(), Cancelled: true, SlotsRestored: restored}, nil
}

func (s *DefaultAppointmentService) cancelAndRelease(ctx context.Context, booking *models.Booking, logger *zap.Logger) (int, error) {
	date := bookingDate(booking)
	unlock, err := s.lockDate(ctx, date)
	if err != nil {
		return 0, err
	}
	defer unlock()

	// A concurrent cancel may have removed the booking while we waited for the lock.
	current, err := s.Repo.GetBooking(ctx, booking.ID)
	if errors.Is(err, appointmentRepo.ErrBookingNotFound) {
		return 0, newNotFound(fmt.Sprintf("couldn't find any appointment with booking id %s", booking.ID.Hex()))
	}
	if err != nil {
		logger.Error("failed to re-read booking", zap.Error(err))
		return 0, newStoreFailure("failed to fetch booking", err)
	}
	booking = current

	for attempt := 1; attempt <= s.attempts(); attempt++ {
		entry, err := s.Repo.GetCalendarEntry(ctx, date)
		if errors.Is(err, appointmentRepo.ErrCalendarNotFound) {
			logger.Info("calendar entry gone, deleting booking only", zap.String("date", date))
			return 0, s.deleteBooking(ctx, booking.ID)
		}
		if err != nil {
			logger.Error("failed to fetch calendar entry", zap.Error(err))
			return 0, newStoreFailure("failed to fetch calendar entry", err)
		}

		slots, restored := setAvailability(entry.Slots, reservedIndices(entry, booking), true)
		err = s.Repo.CancelTransactionally(ctx, booking.ID, date, entry.Version, slots)
		switch {
		case errors.Is(err, appointmentRepo.ErrSlotsNotReleased):
			logger.Warn("booking deleted before its slots were released", zap.Error(err))
			return s.releaseSlots(ctx, booking, date, logger)
		case errors.Is(err, appointmentRepo.ErrVersionConflict):
			logger.Warn("calendar changed during cancellation, retrying", zap.Int("attempt", attempt))
			continue
		case errors.Is(err, appointmentRepo.ErrBookingNotFound):
			return 0, newNotFound(fmt.Sprintf("couldn't find any appointment with booking id %s", booking.ID.Hex()))
		case err != nil:
			logger.Error("cancellation transaction failed", zap.Error(err))
			return 0, newStoreFailure("failed to cancel booking", err)
		}
		return restored, nil
	}
	return 0, newConflict("the calendar is being changed by someone else, please try again")
}

// releaseSlots frees the slots of a booking that is already deleted. The caller holds the
// date lock.
func (s *DefaultAppointmentService) releaseSlots(ctx context.Context, booking *models.Booking, date string, logger *zap.Logger) (int, error) {
	for attempt := 1; attempt <= s.attempts(); attempt++ {
		entry, err := s.Repo.GetCalendarEntry(ctx, date)
		if errors.Is(err, appointmentRepo.ErrCalendarNotFound) {
			return 0, nil
		}
		if err != nil {
			logger.Error("failed to fetch calendar entry", zap.Error(err))
			return 0, newStoreFailure("booking cancelled but its slots could not be released", err)
		}

		slots, restored := setAvailability(entry.Slots, reservedIndices(entry, booking), true)
		if restored == 0 {
			return 0, nil
		}
		err = s.Repo.ReplaceSlots(ctx, date, entry.Version, slots)
		if errors.Is(err, appointmentRepo.ErrVersionConflict) {
			logger.Warn("calendar changed while releasing slots, retrying", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			logger.Error("failed to release slots", zap.Error(err))
			return 0, newStoreFailure("booking cancelled but its slots could not be released", err)
		}
		return restored, nil
	}
	logger.Error("gave up releasing slots of a cancelled booking")
	return 0, newStoreFailure("booking cancelled but its slots could not be released", appointmentRepo.ErrVersionConflict)
}

func (s *DefaultAppointmentService) deleteBooking(ctx context.Context, id primitive.ObjectID) error {
	err := s.Repo.DeleteBooking(ctx, id)
	if errors.Is(err, appointmentRepo.ErrBookingNotFound) {
		return newNotFound(fmt.Sprintf("couldn't find any appointment with booking id %s", id.Hex()))
	}
	if err != nil {
		s.log().Error("failed to delete booking", zap.String("bookingId", id.Hex()), zap.Error(err))
		return newStoreFailure("failed to delete booking", err)
	}
	return nil
}

func parseBookingID(bookingID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(bookingID))
	if err != nil {
		return primitive.NilObjectID, newValidation(fmt.Sprintf("%q is not a valid booking id", bookingID))
	}
	return id, nil
}

// bookingDate is the calendar key of a booking. Bookings written before the explicit
// reference existed only carry the appointment date.
func bookingDate(b *models.Booking) string {
	if b.CalendarID != "" {
		return b.CalendarID
	}
	if d, err := CanonicalDate(b.AppointmentDate); err == nil {
		return d
	}
	return b.AppointmentDate
}

// reservedIndices resolves the slots held by booking. Stored indices are trusted only while
// the slot at that index still lies inside the booking's time range; otherwise the range
// is matched again by time.
func reservedIndices(entry *models.CalendarEntry, b *models.Booking) []int {
	var idx []int
	for _, i := range b.SlotIndices {
		if i < 0 || i >= len(entry.Slots) {
			continue
		}
		slot := entry.Slots[i]
		if compareClock(slot.StartTime, b.AppointmentStartTime) >= 0 && compareClock(slot.EndTime, b.AppointmentEndTime) <= 0 {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return slotsWithin(entry.Slots, b.AppointmentStartTime, b.AppointmentEndTime)
	}
	return idx
}
