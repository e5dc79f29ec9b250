package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BookAppointment validates the request, reserves every slot of the requested range and
// stores the booking in one transaction. The range must cover at least one slot and every
// covered slot must still be available.
func (s *DefaultAppointmentService) BookAppointment(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	vb, err := validateBookingRequest(req)
	if err != nil {
		return nil, err
	}
	rng := vb.rng
	logger := s.log().With(zap.String("date", rng.date), zap.String("start", rng.start), zap.String("end", rng.end))

	unlock, err := s.lockDate(ctx, rng.date)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 1; attempt <= s.attempts(); attempt++ {
		entry, err := s.Repo.GetCalendarEntry(ctx, rng.date)
		if errors.Is(err, appointmentRepo.ErrCalendarNotFound) {
			return nil, newNotFound(fmt.Sprintf("no appointments are offered on %s", rng.date))
		}
		if err != nil {
			logger.Error("failed to fetch calendar entry", zap.Error(err))
			return nil, newStoreFailure("failed to fetch calendar entry", err)
		}

		idx := slotsWithin(entry.Slots, rng.start, rng.end)
		if len(idx) == 0 {
			return nil, newNotFound(fmt.Sprintf("there is no slot between %s and %s on %s", rng.start, rng.end, rng.date))
		}
		for _, i := range idx {
			if !entry.Slots[i].Availability {
				logger.Info("requested slot already taken", zap.String("slot", entry.Slots[i].StartTime))
				return nil, newConflict(fmt.Sprintf("the slot %s-%s on %s is already booked",
					entry.Slots[i].StartTime, entry.Slots[i].EndTime, rng.date))
			}
		}
		slots, _ := setAvailability(entry.Slots, idx, false)

		booking := newBooking(vb, idx, s.now())
		err = s.Repo.BookTransactionally(ctx, booking, entry.Version, slots)
		if errors.Is(err, appointmentRepo.ErrVersionConflict) {
			logger.Warn("calendar changed during booking, retrying", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			logger.Error("booking transaction failed", zap.Error(err))
			return nil, newStoreFailure("failed to store booking", err)
		}

		logger.Info("booked appointment",
			zap.String("bookingId", booking.ID.Hex()),
			zap.String("visitType", string(booking.VisitType)),
			zap.Ints("slotIndices", booking.SlotIndices))

		if s.Reminders != nil {
			if err := s.Reminders.ScheduleReminder(ctx, booking); err != nil {
				logger.Warn("failed to schedule reminder", zap.String("bookingId", booking.ID.Hex()), zap.Error(err))
			}
		}
		return booking, nil
	}
	return nil, newConflict("the calendar is being changed by someone else, please try again")
}

func newBooking(vb validBooking, idx []int, now time.Time) *models.Booking {
	return &models.Booking{
		ID:                   primitive.NewObjectID(),
		VisitType:            vb.visitType,
		ReasonForTheVisit:    vb.req.ReasonForTheVisit,
		Name:                 vb.req.Name,
		DateOfBirth:          vb.req.DateOfBirth,
		MobileNumber:         vb.req.MobileNumber,
		InsuranceName:        vb.req.InsuranceName,
		AppointmentDate:      vb.rng.date,
		AppointmentStartTime: vb.rng.start,
		AppointmentEndTime:   vb.rng.end,
		CalendarID:           vb.rng.date,
		SlotIndices:          idx,
		CreatedAt:            now,
	}
}
