package shift

import (
	"context"
	"fmt"
	"time"

	"petties/models"
	"petties/services/booking"
	"petties/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxRepeatWeeks caps how far a weekly shift pattern may be repeated.
const maxRepeatWeeks = 12

// CreateShifts creates a shift for the given date and, when RepeatWeeks is
// set, repeats the same pattern weekly. Each shift gets its 30-minute slot
// grid generated up front.
func (s *DefaultShiftService) CreateShifts(ctx context.Context, req models.ShiftSetupRequest) ([]models.StaffShift, error) {
	if err := validateShiftWindow(req.Start, req.End, req.Overnight); err != nil {
		return nil, err
	}
	repeat := req.RepeatWeeks
	if repeat < 0 {
		repeat = 0
	}
	if repeat > maxRepeatWeeks {
		repeat = maxRepeatWeeks
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, booking.NewValidationError("invalid date %q", req.Date)
	}

	var created []models.StaffShift
	for week := 0; week <= repeat; week++ {
		sh := models.StaffShift{
			ID:        uuid.New().String(),
			StaffID:   req.StaffID,
			ClinicID:  req.ClinicID,
			Date:      day.AddDate(0, 0, week*7).Format("2006-01-02"),
			Start:     req.Start,
			End:       req.End,
			Overnight: req.Overnight,
			Breaks:    req.Breaks,
		}
		slots := GenerateSlots(sh)
		if err := s.Repo.CreateShift(ctx, &sh, slots); err != nil {
			return created, fmt.Errorf("failed to create shift for %s: %w", sh.Date, err)
		}
		created = append(created, sh)
	}
	utils.GetLogger().Info("shifts created",
		zap.String("staffID", req.StaffID),
		zap.Int("count", len(created)))
	return created, nil
}

// UpdateShift regenerates a shift's slots. Without Force the update fails
// with a conflict as soon as any existing slot is BOOKED; with Force the
// booked slots are destroyed and their bookings reported as orphaned.
func (s *DefaultShiftService) UpdateShift(ctx context.Context, shiftID string, req models.ShiftUpdateRequest) (*models.ShiftUpdateResult, error) {
	if err := validateShiftWindow(req.Start, req.End, req.Overnight); err != nil {
		return nil, err
	}
	sh, err := s.Repo.GetShift(ctx, shiftID)
	if err != nil {
		return nil, booking.NewNotFoundError("shift", shiftID)
	}

	existing, err := s.Repo.ListSlotsByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	var orphaned []string
	seen := make(map[string]bool)
	for _, sl := range existing {
		if sl.Status == models.SlotBooked && sl.BookingID != "" && !seen[sl.BookingID] {
			seen[sl.BookingID] = true
			orphaned = append(orphaned, sl.BookingID)
		}
	}
	if len(orphaned) > 0 && !req.Force {
		return nil, booking.NewConflictError("shift %s has %d booked slot(s); pass force to regenerate", shiftID, len(orphaned))
	}

	sh.Start = req.Start
	sh.End = req.End
	sh.Overnight = req.Overnight
	sh.Breaks = req.Breaks
	slots := GenerateSlots(*sh)
	if err := s.Repo.ReplaceShiftSlots(ctx, sh, slots); err != nil {
		return nil, fmt.Errorf("failed to regenerate slots: %w", err)
	}
	if len(orphaned) > 0 {
		utils.GetLogger().Warn("forced shift update orphaned bookings",
			zap.String("shiftID", shiftID),
			zap.Strings("bookingIDs", orphaned))
	}
	return &models.ShiftUpdateResult{Shift: sh, OrphanedBookings: orphaned}, nil
}

func (s *DefaultShiftService) GetShiftSlots(ctx context.Context, shiftID string) ([]models.Slot, error) {
	return s.Repo.ListSlotsByShift(ctx, shiftID)
}

// GenerateSlots breaks a shift into its 30-minute slot grid, skipping break
// sub-intervals. Overnight shifts simply run past 1440.
func GenerateSlots(sh models.StaffShift) []models.Slot {
	var slots []models.Slot
	for start := sh.Start; start+models.SlotMinutes <= sh.End; start += models.SlotMinutes {
		end := start + models.SlotMinutes
		if sh.InBreak(start, end) {
			continue
		}
		slots = append(slots, models.Slot{
			ID:       uuid.New().String(),
			ShiftID:  sh.ID,
			StaffID:  sh.StaffID,
			ClinicID: sh.ClinicID,
			Date:     sh.Date,
			Start:    start,
			End:      end,
			Status:   models.SlotAvailable,
		})
	}
	return slots
}

func validateShiftWindow(start, end int, overnight bool) error {
	if start < 0 || end <= start {
		return booking.NewValidationError("invalid shift window [%d, %d)", start, end)
	}
	if !overnight && end > 24*60 {
		return booking.NewValidationError("shift past midnight requires the overnight flag")
	}
	if end-start < models.SlotMinutes {
		return booking.NewValidationError("shift shorter than one slot")
	}
	return nil
}
