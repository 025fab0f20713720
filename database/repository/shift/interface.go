package shift

import (
	"context"
	"errors"

	"petties/models"
)

// ErrSlotConflict is returned when a claim races with another booking or a
// regeneration would destroy booked slots.
var ErrSlotConflict = errors.New("slot already claimed")

// ShiftRepository defines data access for shifts and their generated slots.
type ShiftRepository interface {
	GetShift(ctx context.Context, id string) (*models.StaffShift, error)
	CreateShift(ctx context.Context, s *models.StaffShift, slots []models.Slot) error
	ListShiftsByStaffAndDate(ctx context.Context, staffID, date string) ([]models.StaffShift, error)
	ListSlots(ctx context.Context, staffID, date string) ([]models.Slot, error)
	ListSlotsByShift(ctx context.Context, shiftID string) ([]models.Slot, error)
	// ReplaceShiftSlots deletes a shift's slots and inserts the regenerated set.
	ReplaceShiftSlots(ctx context.Context, s *models.StaffShift, slots []models.Slot) error

	// ClaimSlots atomically flips every AVAILABLE slot of staffID covering
	// [start, end) on date to BOOKED, tagging it with the booking and
	// service item. If any slot in the window is not AVAILABLE the whole
	// claim is rolled back and ErrSlotConflict is returned.
	ClaimSlots(ctx context.Context, staffID, date string, start, end int, bookingID, itemID string) error
	// ReleaseSlots frees every slot held by a booking.
	ReleaseSlots(ctx context.Context, bookingID string) error
}
