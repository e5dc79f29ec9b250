package handlers

import (
	"net/http"

	"frontdesk/models"
	"frontdesk/services/appointment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	Service appointment.AppointmentService
}

func NewAppointmentHandler(svc appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

// GetSlotsHandler answers GET /api/calendar/:date/slots?morning=&evening=.
func (h *AppointmentHandler) GetSlotsHandler(c *gin.Context) {
	var query models.SlotQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidPayload(c, err)
		return
	}
	query.Date = c.Param("date")

	result, err := h.Service.GetAvailableSlots(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "fetch slots")
		return
	}
	c.JSON(http.StatusOK, result)
}

// SetupCalendarHandler creates or replaces the slots of a date.
func (h *AppointmentHandler) SetupCalendarHandler(c *gin.Context) {
	var req models.SetupCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}

	entry, err := h.Service.UpsertCalendar(c.Request.Context(), c.Param("date"), req.Slots)
	if err != nil {
		respondError(c, err, "set up calendar")
		return
	}
	getLogger(c).Info("Calendar updated", zap.String("date", entry.Date), zap.Int("slots", len(entry.Slots)))
	c.JSON(http.StatusOK, gin.H{"message": "Calendar updated", "calendar": entry})
}

func (h *AppointmentHandler) UpdateAvailabilityHandler(c *gin.Context) {
	var req models.AvailabilityUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}

	updated, err := h.Service.UpdateSlotAvailability(c.Request.Context(), c.Param("date"), req.StartTime, req.EndTime, req.Availability)
	if err != nil {
		respondError(c, err, "update availability")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated", "updated": updated})
}

// BookHandler books a slot range and answers 201 with the stored booking.
func (h *AppointmentHandler) BookHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}

	booking, err := h.Service.BookAppointment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "book appointment")
		return
	}
	getLogger(c).Info("Appointment booked", zap.String("bookingId", booking.ID.Hex()))
	c.JSON(http.StatusCreated, gin.H{"message": "Appointment booked", "booking": booking})
}

func (h *AppointmentHandler) GetBookingHandler(c *gin.Context) {
	booking, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookingsHandler requires ?date=dd-mm-yyyy.
func (h *AppointmentHandler) ListBookingsHandler(c *gin.Context) {
	bookings, err := h.Service.ListBookings(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err, "list bookings")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *AppointmentHandler) CancelHandler(c *gin.Context) {
	result, err := h.Service.CancelAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "cancel appointment")
		return
	}
	getLogger(c).Info("Appointment cancelled", zap.String("bookingId", result.BookingID), zap.Int("restored", result.SlotsRestored))
	c.JSON(http.StatusOK, result)
}
