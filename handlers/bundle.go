package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Calendar endpoints
	GetSlotsHandler           gin.HandlerFunc
	SetupCalendarHandler      gin.HandlerFunc
	UpdateAvailabilityHandler gin.HandlerFunc

	// Booking endpoints
	BookHandler         gin.HandlerFunc
	GetBookingHandler   gin.HandlerFunc
	ListBookingsHandler gin.HandlerFunc
	CancelHandler       gin.HandlerFunc

	// Assistant function endpoints
	ListFunctionsHandler gin.HandlerFunc
	CallFunctionHandler  gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from its handlers.
func NewHandlerBundle(ah *AppointmentHandler, fh *FunctionsHandler) *HandlerBundle {
	return &HandlerBundle{
		GetSlotsHandler:           ah.GetSlotsHandler,
		SetupCalendarHandler:      ah.SetupCalendarHandler,
		UpdateAvailabilityHandler: ah.UpdateAvailabilityHandler,

		BookHandler:         ah.BookHandler,
		GetBookingHandler:   ah.GetBookingHandler,
		ListBookingsHandler: ah.ListBookingsHandler,
		CancelHandler:       ah.CancelHandler,

		ListFunctionsHandler: fh.ListFunctionsHandler,
		CallFunctionHandler:  fh.CallFunctionHandler,

		HealthHandler: HealthHandler,
	}
}
