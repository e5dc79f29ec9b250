package models

// ReminderPayload is the body of a queued appointment reminder.
type ReminderPayload struct {
	BookingID    string `json:"bookingId"`
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	FireDate     string `json:"fireDate"` // RFC3339, informational
}
