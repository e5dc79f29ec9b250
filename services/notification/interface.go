package notification

import (
	"context"
	"fmt"

	"frontdesk/models"

	"go.uber.org/zap"
)

// NotificationService delivers appointment reminders to patients.
type NotificationService interface {
	SendReminder(ctx context.Context, payload models.ReminderPayload) error
}

// LogNotificationService writes reminders to the log. SMS delivery is handled outside
// this service.
type LogNotificationService struct {
	Logger *zap.Logger
}

func NewLogNotificationService(logger *zap.Logger) (*LogNotificationService, error) {
	if logger == nil {
		return nil, fmt.Errorf("notification service initialization error: logger is nil")
	}
	return &LogNotificationService{Logger: logger}, nil
}

// SendReminder records the reminder that would be sent to the patient's mobile number.
func (s *LogNotificationService) SendReminder(_ context.Context, p models.ReminderPayload) error {
	if p.MobileNumber == "" {
		return fmt.Errorf("SendReminder: booking %s has no mobile number", p.BookingID)
	}
	s.Logger.Info("appointment reminder",
		zap.String("bookingId", p.BookingID),
		zap.String("to", p.MobileNumber),
		zap.String("body", ReminderText(p)))
	return nil
}

// ReminderText is the message body of a reminder.
func ReminderText(p models.ReminderPayload) string {
	return fmt.Sprintf("Hi %s, this is a reminder of your appointment on %s at %s. Booking id %s.",
		p.Name, p.Date, p.StartTime, p.BookingID)
}
