package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"

	"go.uber.org/zap"
)

const (
	morningEndsBefore = "13:00"
	eveningStartsAt   = "12:00"
)

// NoSlotsSummary is the summary used when the date has no calendar entry.
const NoSlotsSummary = "No slots available for the given day"

// GetAvailableSlots returns the available slots of a date, optionally restricted to the
// morning (start before 13:00) and/or evening (start at or after 12:00). Slots starting
// between 12:00 and 13:00 count as both.
func (s *DefaultAppointmentService) GetAvailableSlots(ctx context.Context, query models.SlotQuery) (*models.SlotQueryResult, error) {
	date, err := CanonicalDate(query.Date)
	if err != nil {
		return nil, newValidation(err.Error())
	}
	logger := s.log().With(zap.String("date", date), zap.Bool("morning", query.Morning), zap.Bool("evening", query.Evening))

	entry, err := s.Repo.GetCalendarEntry(ctx, date)
	if errors.Is(err, appointmentRepo.ErrCalendarNotFound) {
		logger.Info("no calendar entry for date")
		return &models.SlotQueryResult{Date: date, Found: false, Slots: []models.Slot{}, Summary: NoSlotsSummary}, nil
	}
	if err != nil {
		logger.Error("failed to fetch calendar entry", zap.Error(err))
		return nil, newStoreFailure("failed to fetch calendar entry", err)
	}

	available := filterSlots(entry.Slots, query.Morning, query.Evening)
	logger.Info("slot lookup", zap.Int("available", len(available)), zap.Int("total", len(entry.Slots)))

	return &models.SlotQueryResult{
		Date:    date,
		Found:   true,
		Slots:   available,
		Summary: summarizeSlots(date, available, query.Morning, query.Evening),
	}, nil
}

func filterSlots(slots []models.Slot, morning, evening bool) []models.Slot {
	out := []models.Slot{}
	for _, slot := range slots {
		if !slot.Availability {
			continue
		}
		if morning || evening {
			inMorning := morning && compareClock(slot.StartTime, morningEndsBefore) < 0
			inEvening := evening && compareClock(slot.StartTime, eveningStartsAt) >= 0
			if !inMorning && !inEvening {
				continue
			}
		}
		out = append(out, slot)
	}
	return out
}

func summarizeSlots(date string, slots []models.Slot, morning, evening bool) string {
	when := ""
	switch {
	case morning && evening:
	case morning:
		when = " in the morning"
	case evening:
		when = " in the evening"
	}
	if len(slots) == 0 {
		return fmt.Sprintf("No slots available%s on %s", when, date)
	}
	ranges := make([]string, len(slots))
	for i, slot := range slots {
		ranges[i] = slot.StartTime + "-" + slot.EndTime
	}
	return fmt.Sprintf("Following slots are available%s on %s: %s", when, date, strings.Join(ranges, ", "))
}
