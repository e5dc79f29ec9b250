package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"frontdesk/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeSendReminder = "reminder:send"
	ReminderQueue    = "default"
)

const appointmentLayout = "02-01-2006 15:04"

// ReminderTaskID is the asynq task id of a booking's reminder, so it can be found again
// on cancellation.
func ReminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload.BookingID)),
		asynq.Queue(ReminderQueue),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

// AppointmentStart resolves the booking's date and start time in loc.
func AppointmentStart(b *models.Booking, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(appointmentLayout, b.AppointmentDate+" "+b.AppointmentStartTime, loc)
}

// ReminderFireTime is lead before the appointment start. ok is false when that moment has
// already passed.
func ReminderFireTime(b *models.Booking, lead time.Duration, loc *time.Location, now time.Time) (time.Time, bool, error) {
	start, err := AppointmentStart(b, loc)
	if err != nil {
		return time.Time{}, false, err
	}
	fireAt := start.Add(-lead)
	return fireAt, fireAt.After(now), nil
}

// taskEnqueuer is the part of *asynq.Client used here.
type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// taskDeleter is the part of *asynq.Inspector used here.
type taskDeleter interface {
	DeleteTask(queue, id string) error
}

// ReminderScheduler queues one reminder per booking on asynq.
type ReminderScheduler struct {
	client    taskEnqueuer
	inspector taskDeleter
	lead      time.Duration
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewReminderScheduler(client *asynq.Client, inspector *asynq.Inspector, lead time.Duration, logger *zap.Logger) *ReminderScheduler {
	return newReminderScheduler(client, inspector, lead, time.Local, time.Now, logger)
}

func newReminderScheduler(client taskEnqueuer, inspector taskDeleter, lead time.Duration, loc *time.Location, now func() time.Time, logger *zap.Logger) *ReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderScheduler{client: client, inspector: inspector, lead: lead, loc: loc, now: now, logger: logger}
}

func (r *ReminderScheduler) ScheduleReminder(ctx context.Context, b *models.Booking) error {
	fireAt, ok, err := ReminderFireTime(b, r.lead, r.loc, r.now())
	if err != nil {
		return fmt.Errorf("reminder time for booking %s: %w", b.ID.Hex(), err)
	}
	if !ok {
		r.logger.Debug("reminder time already passed, skipping", zap.String("bookingId", b.ID.Hex()))
		return nil
	}

	task, opts, err := NewReminderTask(models.ReminderPayload{
		BookingID:    b.ID.Hex(),
		Name:         b.Name,
		MobileNumber: b.MobileNumber,
		Date:         b.AppointmentDate,
		StartTime:    b.AppointmentStartTime,
		FireDate:     fireAt.Format(time.RFC3339),
	}, fireAt)
	if err != nil {
		return err
	}

	_, err = r.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	r.logger.Info("reminder scheduled", zap.String("bookingId", b.ID.Hex()), zap.Time("fireAt", fireAt))
	return nil
}

func (r *ReminderScheduler) CancelReminder(_ context.Context, bookingID string) error {
	err := r.inspector.DeleteTask(ReminderQueue, ReminderTaskID(bookingID))
	if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}
