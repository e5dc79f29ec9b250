package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"frontdesk/config"
	"frontdesk/database"
	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"
	"frontdesk/services/appointment"
	"frontdesk/utils"

	"go.uber.org/zap"
)

// hourlySlots returns one-hour slots from open to end, all available.
func hourlySlots(open, end int) []models.Slot {
	slots := make([]models.Slot, 0, end-open)
	for h := open; h < end; h++ {
		slots = append(slots, models.Slot{
			StartTime:    fmt.Sprintf("%02d:00", h),
			EndTime:      fmt.Sprintf("%02d:00", h+1),
			Availability: true,
		})
	}
	return slots
}

func main() {
	days := flag.Int("days", 7, "number of days to seed, starting today")
	open := flag.Int("open", 9, "first slot hour")
	closeAt := flag.Int("close", 17, "hour the last slot ends")
	flag.Parse()

	config.LoadConfig()
	logger := utils.GetLogger()

	if err := database.InitDB(); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	repo := appointmentRepo.NewMongoAppointmentRepo(
		database.Database(),
		config.AppConfig.CalendarCollection,
		config.AppConfig.BookingsCollection,
		config.AppConfig.UseTransactions,
	)
	if err := repo.EnsureIndexes(); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	svc := &appointment.DefaultAppointmentService{
		Repo:   repo,
		Locker: utils.NewLocalLocker(),
		Logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := time.Now()
	for i := 0; i < *days; i++ {
		date := today.AddDate(0, 0, i).Format(appointment.DateLayout)
		entry, err := svc.UpsertCalendar(ctx, date, hourlySlots(*open, *closeAt))
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", date, err)
		}
		logger.Info("seeded calendar", zap.String("date", entry.Date), zap.Int("slots", len(entry.Slots)))
	}

	if err := database.CloseDB(ctx); err != nil {
		log.Printf("Failed to disconnect: %v", err)
	}
	fmt.Printf("Seeded %d days of slots.\n", *days)
}
