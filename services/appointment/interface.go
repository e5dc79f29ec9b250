package appointment

import (
	"context"
	"time"

	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"
	"frontdesk/utils"

	"go.uber.org/zap"
)

// AppointmentService exposes the slot and booking operations to the conversational layer
// and to the HTTP API.
type AppointmentService interface {
	GetAvailableSlots(ctx context.Context, query models.SlotQuery) (*models.SlotQueryResult, error)
	BookAppointment(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	CancelAppointment(ctx context.Context, bookingID string) (*models.CancelResult, error)
	UpdateSlotAvailability(ctx context.Context, date, startTime, endTime string, availability bool) (int, error)

	UpsertCalendar(ctx context.Context, date string, slots []models.Slot) (*models.CalendarEntry, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, date string) ([]models.Booking, error)
}

// ReminderScheduler is notified once a booking is committed or removed.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, booking *models.Booking) error
	CancelReminder(ctx context.Context, bookingID string) error
}

const (
	defaultMaxAttempts = 3
	lockWait           = 5 * time.Second
)

// DefaultAppointmentService implements AppointmentService.
type DefaultAppointmentService struct {
	Repo      appointmentRepo.AppointmentRepository
	Locker    utils.Locker
	Reminders ReminderScheduler
	Logger    *zap.Logger

	// RestoreOnCancel marks the slots of a cancelled booking available again.
	RestoreOnCancel bool
	// MaxAttempts bounds the re-read/re-write cycle after a version conflict.
	MaxAttempts int
	Now         func() time.Time
}

func (s *DefaultAppointmentService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultAppointmentService) attempts() int {
	if s.MaxAttempts <= 0 {
		return defaultMaxAttempts
	}
	return s.MaxAttempts
}

func (s *DefaultAppointmentService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

// lockDate holds the per-date lock. Without a Locker the call is a no-op.
func (s *DefaultAppointmentService) lockDate(ctx context.Context, date string) (func(), error) {
	if s.Locker == nil {
		return func() {}, nil
	}
	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	unlock, err := s.Locker.Lock(lockCtx, date)
	if err != nil {
		return nil, newStoreFailure("could not lock calendar date", err)
	}
	return unlock, nil
}
