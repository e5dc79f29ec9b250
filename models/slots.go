package models

// Slot is one fixed interval of a calendar day.
type Slot struct {
	StartTime    string `bson:"start_time" json:"start_time"` // "HH:MM"
	EndTime      string `bson:"end_time" json:"end_time"`     // "HH:MM"
	Availability bool   `bson:"availability" json:"availability"`
}

// CalendarEntry holds every slot of one date. The document key is the date itself
// in "dd-mm-yyyy" form.
type CalendarEntry struct {
	Date    string `bson:"_id" json:"date"`
	Slots   []Slot `bson:"slots" json:"slots"`
	Version int    `bson:"version" json:"version"`
}

// SlotQuery describes a lookup of available slots for a date.
type SlotQuery struct {
	Date    string `json:"date" form:"date"`
	Morning bool   `json:"morning" form:"morning"`
	Evening bool   `json:"evening" form:"evening"`
}

// SlotQueryResult is what GetAvailableSlots returns to the caller. Found is false when the
// calendar has no entry for the date.
type SlotQueryResult struct {
	Date    string `json:"date"`
	Found   bool   `json:"found"`
	Slots   []Slot `json:"slots"`
	Summary string `json:"summary"`
}

// AvailabilityUpdate sets the availability flag for every slot inside [StartTime, EndTime].
type AvailabilityUpdate struct {
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	Availability bool   `json:"availability"`
}

// SetupCalendarRequest defines the payload for creating or replacing a calendar entry.
type SetupCalendarRequest struct {
	Slots []Slot `json:"slots" binding:"required"`
}
