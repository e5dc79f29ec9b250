package appointmentRepo

import (
	"context"
	"sort"
	"sync"

	"frontdesk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryAppointmentRepo keeps both collections in process. It backs the demo mode and
// the service tests; every method is safe for concurrent use.
type MemoryAppointmentRepo struct {
	mu       sync.Mutex
	calendar map[string]models.CalendarEntry
	bookings map[primitive.ObjectID]models.Booking
}

func NewMemoryAppointmentRepo() *MemoryAppointmentRepo {
	return &MemoryAppointmentRepo{
		calendar: make(map[string]models.CalendarEntry),
		bookings: make(map[primitive.ObjectID]models.Booking),
	}
}

func (m *MemoryAppointmentRepo) GetCalendarEntry(_ context.Context, date string) (*models.CalendarEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.calendar[date]
	if !ok {
		return nil, ErrCalendarNotFound
	}
	entry.Slots = copySlots(entry.Slots)
	return &entry, nil
}

func (m *MemoryAppointmentRepo) UpsertCalendarEntry(_ context.Context, entry *models.CalendarEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.Version++
	m.calendar[entry.Date] = models.CalendarEntry{
		Date:    entry.Date,
		Slots:   copySlots(entry.Slots),
		Version: entry.Version,
	}
	return nil
}

func (m *MemoryAppointmentRepo) ReplaceSlots(_ context.Context, date string, expectedVersion int, slots []models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replaceSlotsLocked(date, expectedVersion, slots)
}

func (m *MemoryAppointmentRepo) replaceSlotsLocked(date string, expectedVersion int, slots []models.Slot) error {
	entry, ok := m.calendar[date]
	if !ok || entry.Version != expectedVersion {
		return ErrVersionConflict
	}
	entry.Slots = copySlots(slots)
	entry.Version++
	m.calendar[date] = entry
	return nil
}

func (m *MemoryAppointmentRepo) GetBooking(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (m *MemoryAppointmentRepo) ListBookingsByDate(_ context.Context, date string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Booking{}
	for _, b := range m.bookings {
		if b.AppointmentDate == date {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppointmentStartTime < out[j].AppointmentStartTime
	})
	return out, nil
}

func (m *MemoryAppointmentRepo) InsertBooking(_ context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertLocked(booking)
	return nil
}

func (m *MemoryAppointmentRepo) insertLocked(booking *models.Booking) {
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	stored := *booking
	stored.SlotIndices = append([]int(nil), booking.SlotIndices...)
	m.bookings[booking.ID] = stored
}

func (m *MemoryAppointmentRepo) DeleteBooking(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bookings[id]; !ok {
		return ErrBookingNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *MemoryAppointmentRepo) BookTransactionally(_ context.Context, booking *models.Booking, expectedVersion int, slots []models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.replaceSlotsLocked(booking.CalendarID, expectedVersion, slots); err != nil {
		return err
	}
	m.insertLocked(booking)
	return nil
}

func (m *MemoryAppointmentRepo) CancelTransactionally(_ context.Context, id primitive.ObjectID, date string, expectedVersion int, slots []models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bookings[id]; !ok {
		return ErrBookingNotFound
	}
	if err := m.replaceSlotsLocked(date, expectedVersion, slots); err != nil {
		return err
	}
	delete(m.bookings, id)
	return nil
}

func (m *MemoryAppointmentRepo) EnsureIndexes() error { return nil }

// BookingCount returns the number of stored bookings.
func (m *MemoryAppointmentRepo) BookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

func copySlots(slots []models.Slot) []models.Slot {
	if slots == nil {
		return nil
	}
	out := make([]models.Slot, len(slots))
	copy(out, slots)
	return out
}
