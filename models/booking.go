package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking represents a confirmed appointment.
type Booking struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"booking_id"`
	VisitType            VisitType          `bson:"visit_type" json:"visit_type"`
	ReasonForTheVisit    string             `bson:"reason_for_the_visit" json:"reason_for_the_visit"`
	Name                 string             `bson:"name" json:"name"`
	DateOfBirth          string             `bson:"date_of_birth" json:"date_of_birth"`
	MobileNumber         string             `bson:"mobile_number" json:"mobile_number"`
	InsuranceName        string             `bson:"insurance_name" json:"insurance_name"`
	AppointmentDate      string             `bson:"appointment_date" json:"appointment_date"`             // "dd-mm-yyyy"
	AppointmentStartTime string             `bson:"appointment_start_time" json:"appointment_start_time"` // "HH:MM"
	AppointmentEndTime   string             `bson:"appointment_end_time" json:"appointment_end_time"`     // "HH:MM"

	// CalendarID and SlotIndices point at the reserved slots of the calendar entry.
	CalendarID  string    `bson:"calendar_id" json:"calendar_id"`
	SlotIndices []int     `bson:"slot_indices" json:"slot_indices"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// BookingRequest carries the caller supplied fields of a new appointment.
type BookingRequest struct {
	VisitType            string `json:"visit_type" validate:"required"`
	ReasonForTheVisit    string `json:"reason_for_the_visit" validate:"required"`
	Name                 string `json:"name" validate:"required"`
	DateOfBirth          string `json:"date_of_birth" validate:"required"`
	MobileNumber         string `json:"mobile_number" validate:"required"`
	InsuranceName        string `json:"insurance_name" validate:"required"`
	AppointmentDate      string `json:"appointment_date" validate:"required"`
	AppointmentStartTime string `json:"appointment_start_time" validate:"required"`
	AppointmentEndTime   string `json:"appointment_end_time" validate:"required"`
}

// CancelResult reports the outcome of a cancellation.
type CancelResult struct {
	BookingID     string `json:"booking_id"`
	Cancelled     bool   `json:"cancelled"`
	SlotsRestored int    `json:"slots_restored"`
}
