package assistant

import (
	"context"
	"fmt"
	"strings"

	"frontdesk/models"
	"frontdesk/services/appointment"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// Dispatcher executes function calls emitted by the language model against the
// appointment service. Every call yields a response; failures become caller-facing text.
type Dispatcher struct {
	Appointments appointment.AppointmentService
	Logger       *zap.Logger
}

func NewDispatcher(svc appointment.AppointmentService, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Appointments: svc, Logger: logger}
}

// Dispatch runs call and wraps the outcome as {"status", "result", "data"}.
func (d *Dispatcher) Dispatch(ctx context.Context, call genai.FunctionCall) *genai.FunctionResponse {
	logger := d.Logger.With(zap.String("function", call.Name))
	logger.Info("function call", zap.Any("args", call.Args))

	var (
		result string
		data   map[string]any
		err    error
	)
	switch call.Name {
	case FnGetAppointments:
		result, data, err = d.getAppointments(ctx, call.Args)
	case FnBookAppointment:
		result, data, err = d.bookAppointment(ctx, call.Args)
	case FnCancelAppointment:
		result, data, err = d.cancelAppointment(ctx, call.Args)
	default:
		return response(call.Name, StatusInvalid, fmt.Sprintf("Unknown function %q.", call.Name), nil)
	}

	if err != nil {
		status, text := callerFacing(err)
		if status == StatusEscalation {
			logger.Error("function call failed", zap.Error(err))
		} else {
			logger.Info("function call rejected", zap.String("status", status), zap.Error(err))
		}
		return response(call.Name, status, text, nil)
	}
	return response(call.Name, StatusOK, result, data)
}

func (d *Dispatcher) getAppointments(ctx context.Context, args map[string]any) (string, map[string]any, error) {
	query := models.SlotQuery{
		Date:    stringArg(args, "date"),
		Morning: boolArg(args, "morning"),
		Evening: boolArg(args, "evening"),
	}
	res, err := d.Appointments.GetAvailableSlots(ctx, query)
	if err != nil {
		return "", nil, err
	}
	slots := make([]any, len(res.Slots))
	for i, s := range res.Slots {
		slots[i] = map[string]any{
			"start_time":   s.StartTime,
			"end_time":     s.EndTime,
			"availability": s.Availability,
		}
	}
	return slotsText(res), map[string]any{"date": res.Date, "found": res.Found, "slots": slots}, nil
}

func (d *Dispatcher) bookAppointment(ctx context.Context, args map[string]any) (string, map[string]any, error) {
	req := models.BookingRequest{
		VisitType:            stringArg(args, "visit_type"),
		ReasonForTheVisit:    stringArg(args, "reason_for_the_visit"),
		Name:                 stringArg(args, "name"),
		DateOfBirth:          stringArg(args, "date_of_birth"),
		MobileNumber:         stringArg(args, "mobile_number"),
		InsuranceName:        stringArg(args, "insurance_name"),
		AppointmentDate:      stringArg(args, "appointment_date"),
		AppointmentStartTime: stringArg(args, "appointment_start_time"),
		AppointmentEndTime:   stringArg(args, "appointment_end_time"),
	}
	b, err := d.Appointments.BookAppointment(ctx, req)
	if err != nil {
		return "", nil, err
	}
	return bookedText(b), map[string]any{
		"booking_id":             b.ID.Hex(),
		"visit_type":             string(b.VisitType),
		"reason_for_the_visit":   b.ReasonForTheVisit,
		"name":                   b.Name,
		"date_of_birth":          b.DateOfBirth,
		"mobile_number":          b.MobileNumber,
		"insurance_name":         b.InsuranceName,
		"appointment_date":       b.AppointmentDate,
		"appointment_start_time": b.AppointmentStartTime,
		"appointment_end_time":   b.AppointmentEndTime,
	}, nil
}

func (d *Dispatcher) cancelAppointment(ctx context.Context, args map[string]any) (string, map[string]any, error) {
	res, err := d.Appointments.CancelAppointment(ctx, stringArg(args, "booking_id"))
	if err != nil {
		return "", nil, err
	}
	return cancelledText(res), map[string]any{
		"booking_id":     res.BookingID,
		"slots_restored": res.SlotsRestored,
	}, nil
}

// callerFacing maps a service error to a status and the text read back to the caller.
func callerFacing(err error) (string, string) {
	msg := appointment.ErrorMessage(err)
	switch appointment.ErrorCode(err) {
	case appointment.CodeNotFound:
		return StatusNotFound, capitalize(msg) + "."
	case appointment.CodeValidation:
		return StatusInvalid, "Some details look wrong: " + msg + "."
	case appointment.CodeConflict:
		return StatusConflict, capitalize(msg) + ", please pick another slot."
	default:
		return StatusEscalation, EscalationMessage
	}
}

func response(name, status, result string, data map[string]any) *genai.FunctionResponse {
	body := map[string]any{"status": status, "result": result}
	if data != nil {
		body["data"] = data
	}
	return &genai.FunctionResponse{Name: name, Response: body}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
