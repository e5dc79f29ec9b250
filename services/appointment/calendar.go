package appointment

import (
	"context"
	"errors"

	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"

	"go.uber.org/zap"
)

// UpsertCalendar creates or replaces the calendar entry of a date. Slots are canonicalized
// and sorted; overlapping slots are rejected.
func (s *DefaultAppointmentService) UpsertCalendar(ctx context.Context, date string, slots []models.Slot) (*models.CalendarEntry, error) {
	day, err := CanonicalDate(date)
	if err != nil {
		return nil, newValidation(err.Error())
	}
	normalized, err := normalizeSlots(slots)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockDate(ctx, day)
	if err != nil {
		return nil, err
	}
	defer unlock()

	entry := &models.CalendarEntry{Date: day, Slots: normalized}
	existing, err := s.Repo.GetCalendarEntry(ctx, day)
	switch {
	case err == nil:
		// Keep the version moving forward so stale conditional writes keep failing.
		entry.Version = existing.Version
	case !errors.Is(err, appointmentRepo.ErrCalendarNotFound):
		s.log().Error("failed to fetch calendar entry", zap.String("date", day), zap.Error(err))
		return nil, newStoreFailure("failed to fetch calendar entry", err)
	}

	if err := s.Repo.UpsertCalendarEntry(ctx, entry); err != nil {
		s.log().Error("failed to store calendar entry", zap.String("date", day), zap.Error(err))
		return nil, newStoreFailure("failed to store calendar entry", err)
	}
	s.log().Info("calendar entry stored", zap.String("date", day), zap.Int("slots", len(normalized)), zap.Int("version", entry.Version))
	return entry, nil
}
