package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petties/models"
	"petties/services/shift"
	"petties/utils"
)

// ShiftHandler exposes shift and slot management endpoints.
type ShiftHandler struct {
	Service shift.ShiftService
}

// CreateShiftsHandler handles POST /api/shifts.
func (h *ShiftHandler) CreateShiftsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var req models.ShiftSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	shifts, err := h.Service.CreateShifts(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to create shifts", zap.String("staffID", req.StaffID), zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"shifts": shifts})
}

// UpdateShiftHandler handles PUT /api/shifts/:id.
func (h *ShiftHandler) UpdateShiftHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("id")
	var req models.ShiftUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	result, err := h.Service.UpdateShift(c.Request.Context(), id, req)
	if err != nil {
		logger.Error("Failed to update shift", zap.String("shiftID", id), zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetShiftSlotsHandler handles GET /api/shifts/:id/slots.
func (h *ShiftHandler) GetShiftSlotsHandler(c *gin.Context) {
	id := c.Param("id")
	slots, err := h.Service.GetShiftSlots(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
