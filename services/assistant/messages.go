package assistant

import (
	"fmt"

	"frontdesk/models"
)

// EscalationMessage is returned whenever an internal failure must not reach the caller.
const EscalationMessage = "I'm having trouble processing that right now, please connect me to a human"

// Response statuses.
const (
	StatusOK         = "ok"
	StatusNotFound   = "not_found"
	StatusInvalid    = "invalid"
	StatusConflict   = "conflict"
	StatusEscalation = "escalate"
)

func slotsText(res *models.SlotQueryResult) string {
	if !res.Found {
		return res.Summary
	}
	return res.Summary + "."
}

func bookedText(b *models.Booking) string {
	return fmt.Sprintf("Successfully booked a %s appointment for %s on %s from %s to %s, the booking id is %s.",
		b.VisitType, b.Name, b.AppointmentDate, b.AppointmentStartTime, b.AppointmentEndTime, b.ID.Hex())
}

func cancelledText(res *models.CancelResult) string {
	return fmt.Sprintf("Booking ID %s has been successfully cancelled.", res.BookingID)
}
