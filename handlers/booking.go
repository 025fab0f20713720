package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petties/models"
	"petties/services/booking"
	"petties/utils"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	b, err := h.Service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to create booking", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	id := c.Param("id")
	b, err := h.Service.GetBooking(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// CheckAvailabilityHandler handles GET /api/bookings/:id/availability.
func (h *BookingHandler) CheckAvailabilityHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("id")
	result, err := h.Service.CheckAvailability(c.Request.Context(), id)
	if err != nil {
		logger.Error("Availability check failed", zap.String("bookingID", id), zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConfirmBookingHandler handles POST /api/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("id")
	var opts models.ConfirmOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
	}
	result, err := h.Service.ConfirmBooking(c.Request.Context(), id, opts)
	if err != nil {
		var noCand *booking.NoCandidateError
		if errors.As(err, &noCand) && result != nil {
			// Recoverable: return the per-item statuses and alternatives
			// so the client can retry with different options.
			c.JSON(http.StatusConflict, result)
			return
		}
		logger.Error("Booking confirmation failed", zap.String("bookingID", id), zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateProgressHandler handles PATCH /api/bookings/:id/status.
func (h *BookingHandler) UpdateProgressHandler(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	b, err := h.Service.UpdateProgress(c.Request.Context(), id, req.Status)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// CheckInHandler handles POST /api/bookings/:id/check-in.
func (h *BookingHandler) CheckInHandler(c *gin.Context) {
	id := c.Param("id")
	b, err := h.Service.CheckIn(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// CheckoutHandler handles POST /api/bookings/:id/checkout.
func (h *BookingHandler) CheckoutHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("id")
	var req struct {
		DistanceFee *float64 `json:"distanceFee,omitempty"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
	}
	b, err := h.Service.Checkout(c.Request.Context(), id, req.DistanceFee)
	if err != nil {
		logger.Error("Checkout failed", zap.String("bookingID", id), zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBookingHandler handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	id := c.Param("id")
	b, err := h.Service.Cancel(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	var validation *booking.ValidationError
	var notFound *booking.NotFoundError
	var conflict *booking.ConflictError
	var noCand *booking.NoCandidateError
	var stale *booking.StaleOfferError
	var invalid *models.InvalidTransitionError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict), errors.As(err, &noCand), errors.As(err, &stale):
		return http.StatusConflict
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
