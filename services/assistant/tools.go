package assistant

import (
	"frontdesk/models"

	genai "github.com/google/generative-ai-go/genai"
)

// Names of the callables offered to the language model.
const (
	FnGetAppointments   = "get_appointments"
	FnBookAppointment   = "book_appointment"
	FnCancelAppointment = "cancel_appointment"
)

func stringParam(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func boolParam(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeBoolean, Description: desc}
}

// FunctionDeclarations describes the appointment callables with the argument names the
// dispatcher reads.
func FunctionDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        FnGetAppointments,
			Description: "Look up the available appointment slots for a day",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date":    stringParam("The date in dd-mm-yyyy format"),
					"morning": boolParam("Whether the caller prefers morning slots"),
					"evening": boolParam("Whether the caller prefers evening slots"),
				},
				Required: []string{"date"},
			},
		},
		{
			Name:        FnBookAppointment,
			Description: "Book an appointment",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"visit_type": {
						Type:        genai.TypeString,
						Description: "Type of the visit",
						Enum:        models.VisitTypeStrings(),
					},
					"reason_for_the_visit":   stringParam("Reason for the visit"),
					"name":                   stringParam("Name of the patient"),
					"date_of_birth":          stringParam("The date of birth of the patient in dd-mm-yyyy format"),
					"mobile_number":          stringParam("Valid mobile number of the patient"),
					"insurance_name":         stringParam("Patient insurance firm information"),
					"appointment_date":       stringParam("The date of the appointment in dd-mm-yyyy format"),
					"appointment_start_time": stringParam("Appointment start time in HH:MM format"),
					"appointment_end_time":   stringParam("Appointment end time in HH:MM format"),
				},
				Required: []string{
					"visit_type", "reason_for_the_visit", "name", "date_of_birth", "mobile_number",
					"insurance_name", "appointment_date", "appointment_start_time", "appointment_end_time",
				},
			},
		},
		{
			Name:        FnCancelAppointment,
			Description: "Cancel the appointment with a given booking id",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"booking_id": stringParam("Booking ID of the appointment to cancel"),
				},
				Required: []string{"booking_id"},
			},
		},
	}
}

// Tool bundles the declarations for a generative model's Tools list.
func Tool() *genai.Tool {
	return &genai.Tool{FunctionDeclarations: FunctionDeclarations()}
}
