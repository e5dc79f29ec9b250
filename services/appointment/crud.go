package appointment

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"

	"go.uber.org/zap"
)

// GetBooking returns a single booking by its id.
func (s *DefaultAppointmentService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	id, err := parseBookingID(bookingID)
	if err != nil {
		return nil, err
	}
	booking, err := s.Repo.GetBooking(ctx, id)
	if errors.Is(err, appointmentRepo.ErrBookingNotFound) {
		return nil, newNotFound(fmt.Sprintf("couldn't find any appointment with booking id %s", id.Hex()))
	}
	if err != nil {
		s.log().Error("failed to fetch booking", zap.String("bookingId", id.Hex()), zap.Error(err))
		return nil, newStoreFailure("failed to fetch booking", err)
	}
	return booking, nil
}

// ListBookings returns the bookings of a date ordered by start time.
func (s *DefaultAppointmentService) ListBookings(ctx context.Context, date string) ([]models.Booking, error) {
	day, err := CanonicalDate(date)
	if err != nil {
		return nil, newValidation(err.Error())
	}
	bookings, err := s.Repo.ListBookingsByDate(ctx, day)
	if err != nil {
		s.log().Error("failed to list bookings", zap.String("date", day), zap.Error(err))
		return nil, newStoreFailure("failed to list bookings", err)
	}
	return bookings, nil
}
