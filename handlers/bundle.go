package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	CreateBookingHandler     gin.HandlerFunc
	GetBookingHandler        gin.HandlerFunc
	CheckAvailabilityHandler gin.HandlerFunc
	ConfirmBookingHandler    gin.HandlerFunc
	UpdateProgressHandler    gin.HandlerFunc
	CheckInHandler           gin.HandlerFunc
	CheckoutHandler          gin.HandlerFunc
	CancelBookingHandler     gin.HandlerFunc

	// Shift endpoints
	CreateShiftsHandler  gin.HandlerFunc
	UpdateShiftHandler   gin.HandlerFunc
	GetShiftSlotsHandler gin.HandlerFunc

	// SOS endpoints
	PlaceSosRequestHandler gin.HandlerFunc
	AcceptSosHandler       gin.HandlerFunc
	DeclineSosHandler      gin.HandlerFunc
	CancelSosHandler       gin.HandlerFunc
	GetSosSessionHandler   gin.HandlerFunc
	GetSosEventsHandler    gin.HandlerFunc
}
