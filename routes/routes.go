package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"petties/handlers"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Petties"})
	})
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.POST("", hb.CreateBookingHandler)
		bookingGroup.GET("/:id", hb.GetBookingHandler)
		bookingGroup.GET("/:id/availability", hb.CheckAvailabilityHandler)
		bookingGroup.POST("/:id/confirm", hb.ConfirmBookingHandler)
		bookingGroup.PATCH("/:id/status", hb.UpdateProgressHandler)
		bookingGroup.POST("/:id/check-in", hb.CheckInHandler)
		bookingGroup.POST("/:id/checkout", hb.CheckoutHandler)
		bookingGroup.POST("/:id/cancel", hb.CancelBookingHandler)
	}
}

// RegisterShiftRoutes sets up the shift management endpoints.
func RegisterShiftRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	shiftGroup := r.Group("/api/shifts")
	{
		shiftGroup.POST("", hb.CreateShiftsHandler)
		shiftGroup.PUT("/:id", hb.UpdateShiftHandler)
		shiftGroup.GET("/:id/slots", hb.GetShiftSlotsHandler)
	}
}

// RegisterSosRoutes sets up the emergency cascade-match endpoints.
func RegisterSosRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	sosGroup := r.Group("/api/sos")
	{
		sosGroup.POST("", hb.PlaceSosRequestHandler)
		sosGroup.GET("/:bookingId", hb.GetSosSessionHandler)
		sosGroup.GET("/:bookingId/events", hb.GetSosEventsHandler)
		sosGroup.POST("/:bookingId/accept", hb.AcceptSosHandler)
		sosGroup.POST("/:bookingId/decline", hb.DeclineSosHandler)
		sosGroup.POST("/:bookingId/cancel", hb.CancelSosHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterShiftRoutes(r, hb)
	RegisterSosRoutes(r, hb)
}
