package assistant

import (
	"context"
	"errors"
	"testing"

	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"
	"frontdesk/services/appointment"
	"frontdesk/utils"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newDispatcher(t *testing.T) (*Dispatcher, *appointmentRepo.MemoryAppointmentRepo) {
	t.Helper()
	repo := appointmentRepo.NewMemoryAppointmentRepo()
	require.NoError(t, repo.UpsertCalendarEntry(context.Background(), &models.CalendarEntry{
		Date: "14-10-2026",
		Slots: []models.Slot{
			{StartTime: "09:00", EndTime: "10:00", Availability: true},
			{StartTime: "12:00", EndTime: "13:00", Availability: true},
			{StartTime: "15:00", EndTime: "16:00", Availability: false},
		},
	}))
	svc := &appointment.DefaultAppointmentService{
		Repo:            repo,
		Locker:          utils.NewLocalLocker(),
		Logger:          zaptest.NewLogger(t),
		RestoreOnCancel: true,
	}
	return NewDispatcher(svc, zaptest.NewLogger(t)), repo
}

func bookingArgs() map[string]any {
	return map[string]any{
		"visit_type":             "consultation",
		"reason_for_the_visit":   "headache",
		"name":                   "Alex Kim",
		"date_of_birth":          "01-01-1990",
		"mobile_number":          7135550100.0,
		"insurance_name":         "Acme Health",
		"appointment_date":       "14-10-2026",
		"appointment_start_time": "09:00",
		"appointment_end_time":   "10:00",
	}
}

func TestDispatchGetAppointments(t *testing.T) {
	d, _ := newDispatcher(t)

	resp := d.Dispatch(context.Background(), genai.FunctionCall{
		Name: FnGetAppointments,
		Args: map[string]any{"date": "14-10-2026", "evening": "true"},
	})
	require.NotNil(t, resp)
	assert.Equal(t, FnGetAppointments, resp.Name)
	assert.Equal(t, StatusOK, resp.Response["status"])
	assert.Contains(t, resp.Response["result"], "12:00-13:00")

	data := resp.Response["data"].(map[string]any)
	slots := data["slots"].([]any)
	require.Len(t, slots, 1)
	assert.Equal(t, "12:00", slots[0].(map[string]any)["start_time"])
}

func TestDispatchGetAppointmentsUnknownDay(t *testing.T) {
	d, _ := newDispatcher(t)

	resp := d.Dispatch(context.Background(), genai.FunctionCall{Name: FnGetAppointments, Args: map[string]any{"date": "01-01-2030"}})
	assert.Equal(t, StatusOK, resp.Response["status"])
	assert.Equal(t, appointment.NoSlotsSummary, resp.Response["result"])
}

func TestDispatchBookAndCancel(t *testing.T) {
	d, repo := newDispatcher(t)
	ctx := context.Background()

	booked := d.Dispatch(ctx, genai.FunctionCall{Name: FnBookAppointment, Args: bookingArgs()})
	require.Equal(t, StatusOK, booked.Response["status"], booked.Response["result"])
	data := booked.Response["data"].(map[string]any)
	id := data["booking_id"].(string)
	assert.Equal(t, "7135550100", data["mobile_number"])
	assert.Contains(t, booked.Response["result"], id)

	again := d.Dispatch(ctx, genai.FunctionCall{Name: FnBookAppointment, Args: bookingArgs()})
	assert.Equal(t, StatusConflict, again.Response["status"])

	cancelled := d.Dispatch(ctx, genai.FunctionCall{Name: FnCancelAppointment, Args: map[string]any{"booking_id": id}})
	assert.Equal(t, StatusOK, cancelled.Response["status"])
	assert.Equal(t, "Booking ID "+id+" has been successfully cancelled.", cancelled.Response["result"])
	assert.Zero(t, repo.BookingCount())

	missing := d.Dispatch(ctx, genai.FunctionCall{Name: FnCancelAppointment, Args: map[string]any{"booking_id": id}})
	assert.Equal(t, StatusNotFound, missing.Response["status"])
}

func TestDispatchInvalidInput(t *testing.T) {
	d, _ := newDispatcher(t)

	args := bookingArgs()
	args["visit_type"] = "x-ray"
	resp := d.Dispatch(context.Background(), genai.FunctionCall{Name: FnBookAppointment, Args: args})
	assert.Equal(t, StatusInvalid, resp.Response["status"])
	assert.Contains(t, resp.Response["result"], "unknown visit type")
	assert.NotContains(t, resp.Response, "data")
}

func TestDispatchUnknownFunction(t *testing.T) {
	d, _ := newDispatcher(t)

	resp := d.Dispatch(context.Background(), genai.FunctionCall{Name: "modify_appointment"})
	assert.Equal(t, StatusInvalid, resp.Response["status"])
}

type mockAppointmentService struct {
	mock.Mock
	appointment.AppointmentService
}

func (m *mockAppointmentService) CancelAppointment(ctx context.Context, id string) (*models.CancelResult, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.CancelResult)
	return res, args.Error(1)
}

func TestDispatchStoreFailureEscalates(t *testing.T) {
	svc := new(mockAppointmentService)
	svc.On("CancelAppointment", mock.Anything, "65f000000000000000000000").
		Return(nil, errors.New("server selection timeout"))
	d := NewDispatcher(svc, zaptest.NewLogger(t))

	resp := d.Dispatch(context.Background(), genai.FunctionCall{
		Name: FnCancelAppointment,
		Args: map[string]any{"booking_id": "65f000000000000000000000"},
	})
	assert.Equal(t, StatusEscalation, resp.Response["status"])
	assert.Equal(t, EscalationMessage, resp.Response["result"])
	assert.NotContains(t, resp.Response["result"], "timeout")
	svc.AssertExpectations(t)
}

func TestFunctionDeclarations(t *testing.T) {
	decls := FunctionDeclarations()
	require.Len(t, decls, 3)

	book := decls[1]
	assert.Equal(t, FnBookAppointment, book.Name)
	assert.Len(t, book.Parameters.Required, 9)
	assert.Equal(t, models.VisitTypeStrings(), book.Parameters.Properties["visit_type"].Enum)
	for _, name := range book.Parameters.Required {
		assert.Contains(t, book.Parameters.Properties, name)
	}
	assert.Len(t, Tool().FunctionDeclarations, 3)
}

func TestArgs(t *testing.T) {
	args := map[string]any{"s": "x", "n": 42.0, "b": true, "bs": "TRUE", "bad": "maybe"}
	assert.Equal(t, "x", stringArg(args, "s"))
	assert.Equal(t, "42", stringArg(args, "n"))
	assert.Equal(t, "", stringArg(args, "missing"))
	assert.True(t, boolArg(args, "b"))
	assert.True(t, boolArg(args, "bs"))
	assert.False(t, boolArg(args, "bad"))
	assert.False(t, boolArg(args, "missing"))
}
