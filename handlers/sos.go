package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petties/models"
	"petties/services/sos"
	"petties/utils"
)

// SosHandler exposes the emergency cascade-match endpoints.
type SosHandler struct {
	Service     sos.SosService
	Broadcaster *sos.RedisBroadcaster
}

// PlaceSosRequestHandler handles POST /api/sos.
func (h *SosHandler) PlaceSosRequestHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var req models.SosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	b, err := h.Service.PlaceRequest(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to place SOS request", zap.String("ownerID", req.OwnerID), zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}

// AcceptSosHandler handles POST /api/sos/:bookingId/accept.
func (h *SosHandler) AcceptSosHandler(c *gin.Context) {
	logger := utils.GetLogger()
	bookingID := c.Param("bookingId")
	var reply models.SosClinicReply
	if err := c.ShouldBindJSON(&reply); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := h.Service.Accept(c.Request.Context(), bookingID, reply); err != nil {
		logger.Warn("SOS accept rejected",
			zap.String("bookingID", bookingID), zap.String("clinicID", reply.ClinicID), zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

// DeclineSosHandler handles POST /api/sos/:bookingId/decline.
func (h *SosHandler) DeclineSosHandler(c *gin.Context) {
	bookingID := c.Param("bookingId")
	var reply models.SosClinicReply
	if err := c.ShouldBindJSON(&reply); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := h.Service.Decline(c.Request.Context(), bookingID, reply); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "declined"})
}

// CancelSosHandler handles POST /api/sos/:bookingId/cancel.
func (h *SosHandler) CancelSosHandler(c *gin.Context) {
	bookingID := c.Param("bookingId")
	if err := h.Service.Cancel(c.Request.Context(), bookingID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// GetSosSessionHandler handles GET /api/sos/:bookingId.
func (h *SosHandler) GetSosSessionHandler(c *gin.Context) {
	bookingID := c.Param("bookingId")
	session, err := h.Service.Session(c.Request.Context(), bookingID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSosEventsHandler handles GET /api/sos/:bookingId/events. It returns the
// persisted event history; live updates arrive over the Redis channel.
func (h *SosHandler) GetSosEventsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	bookingID := c.Param("bookingId")
	events, err := h.Broadcaster.History(c.Request.Context(), bookingID)
	if err != nil {
		logger.Error("Failed to load SOS event history", zap.String("bookingID", bookingID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
