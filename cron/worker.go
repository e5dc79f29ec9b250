package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"frontdesk/config"
	"frontdesk/models"
	"frontdesk/services/appointment"
	"frontdesk/services/notification"
	"frontdesk/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingLookup re-reads a booking when its reminder fires.
type BookingLookup interface {
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
}

// RedisOpt is the asynq connection for the reminder queue.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker runs the async worker in background and returns the server so the
// caller can shut it down.
func InitReminderWorker(ctx context.Context, lookup BookingLookup, notifSvc notification.NotificationService, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.ReminderQueue: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(lookup, notifSvc, logger))

	// Start Redis health monitor
	go monitorRedisConnection(ctx, logger)

	// Start async worker with retry logic
	go func() {
		logger.Info("[ReminderWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("[ReminderWorker] failed to start worker",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Error("[ReminderWorker] max retry attempts reached, reminders disabled")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
	return srv
}

func handleReminderTask(lookup BookingLookup, notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("[ReminderHandler] invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		booking, err := lookup.GetBooking(ctx, p.BookingID)
		if appointment.IsNotFound(err) || appointment.IsValidation(err) {
			logger.Info("[ReminderHandler] booking no longer exists, dropping reminder", zap.String("bookingId", p.BookingID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("lookup booking %s: %w", p.BookingID, err)
		}

		// Send what is stored now rather than what was queued.
		p.Name = booking.Name
		p.MobileNumber = booking.MobileNumber
		p.Date = booking.AppointmentDate
		p.StartTime = booking.AppointmentStartTime

		logger.Info("[ReminderHandler] triggering reminder", zap.String("bookingId", p.BookingID), zap.String("date", p.Date), zap.String("start", p.StartTime))
		if err := notifSvc.SendReminder(ctx, p); err != nil {
			logger.Warn("[ReminderHandler] failed to send reminder", zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("[ReminderWorker] Redis connection lost", zap.Error(err))
			}
		}
	}
}
