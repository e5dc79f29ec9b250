package appointment

import (
	"context"
	"errors"

	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"

	"go.uber.org/zap"
)

// UpdateSlotAvailability sets availability on every slot of date contained in
// [startTime, endTime] and returns how many slots lie in the range. A missing calendar
// entry is logged and reported as zero slots.
func (s *DefaultAppointmentService) UpdateSlotAvailability(ctx context.Context, date, startTime, endTime string, availability bool) (int, error) {
	rng, err := parseRange(date, startTime, endTime)
	if err != nil {
		return 0, err
	}
	logger := s.log().With(zap.String("date", rng.date), zap.String("start", rng.start), zap.String("end", rng.end), zap.Bool("availability", availability))

	unlock, err := s.lockDate(ctx, rng.date)
	if err != nil {
		return 0, err
	}
	defer unlock()

	for attempt := 1; attempt <= s.attempts(); attempt++ {
		entry, err := s.Repo.GetCalendarEntry(ctx, rng.date)
		if errors.Is(err, appointmentRepo.ErrCalendarNotFound) {
			logger.Info("no calendar entry found, nothing to update")
			return 0, nil
		}
		if err != nil {
			logger.Error("failed to fetch calendar entry", zap.Error(err))
			return 0, newStoreFailure("failed to fetch calendar entry", err)
		}

		idx := slotsWithin(entry.Slots, rng.start, rng.end)
		slots, changed := setAvailability(entry.Slots, idx, availability)
		if changed == 0 {
			logger.Debug("slots already in requested state", zap.Int("slots", len(idx)))
			return len(idx), nil
		}

		err = s.Repo.ReplaceSlots(ctx, rng.date, entry.Version, slots)
		if errors.Is(err, appointmentRepo.ErrVersionConflict) {
			logger.Warn("calendar changed during availability update, retrying", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			logger.Error("failed to write slots", zap.Error(err))
			return 0, newStoreFailure("failed to update slot availability", err)
		}
		logger.Info("updated slot availability", zap.Int("slots", len(idx)), zap.Int("changed", changed))
		return len(idx), nil
	}
	return 0, newConflict("the calendar is being changed by someone else, please try again")
}

// setAvailability returns a copy of slots with the flag applied at idx, and how many
// slots actually changed.
func setAvailability(slots []models.Slot, idx []int, availability bool) ([]models.Slot, int) {
	out := make([]models.Slot, len(slots))
	copy(out, slots)
	changed := 0
	for _, i := range idx {
		if out[i].Availability != availability {
			out[i].Availability = availability
			changed++
		}
	}
	return out, changed
}
