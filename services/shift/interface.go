package shift

import (
	"context"

	shiftRepo "petties/database/repository/shift"
	"petties/models"
)

// ShiftService manages staff shifts and their generated slot grids.
type ShiftService interface {
	CreateShifts(ctx context.Context, req models.ShiftSetupRequest) ([]models.StaffShift, error)
	UpdateShift(ctx context.Context, shiftID string, req models.ShiftUpdateRequest) (*models.ShiftUpdateResult, error)
	GetShiftSlots(ctx context.Context, shiftID string) ([]models.Slot, error)
}

// DefaultShiftService implements ShiftService.
type DefaultShiftService struct {
	Repo shiftRepo.ShiftRepository
}
