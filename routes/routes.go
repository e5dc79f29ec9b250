package routes

import (
	"time"

	"frontdesk/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCalendarRoutes registers slot lookup and calendar maintenance endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.GET("/:date/slots", hb.GetSlotsHandler)
		api.PUT("/:date", hb.SetupCalendarHandler)
		api.PATCH("/:date/availability", hb.UpdateAvailabilityHandler)
	}
}

// RegisterBookingRoutes registers booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.BookHandler)
		api.GET("", hb.ListBookingsHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.DELETE("/:id", hb.CancelHandler)
	}
}

// RegisterFunctionRoutes exposes the assistant's callable functions to the voice agent.
func RegisterFunctionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/functions")
	{
		api.GET("", hb.ListFunctionsHandler)
		api.POST("/call", hb.CallFunctionHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterCalendarRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterFunctionRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
