package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	bookingRepo "petties/database/repository/booking"
	shiftRepo "petties/database/repository/shift"
	staffRepo "petties/database/repository/staff"
	"petties/models"
	"petties/utils"

	"go.uber.org/zap"
)

// alternativeSearchDays bounds the forward scan for an alternative slot.
const alternativeSearchDays = 14

// AvailabilityResolver finds and ranks staff able to cover a time window.
type AvailabilityResolver struct {
	StaffRepo   staffRepo.StaffRepository
	ShiftRepo   shiftRepo.ShiftRepository
	BookingRepo bookingRepo.BookingRepository
}

// staffCheck holds one staff member's evaluation for a window.
type staffCheck struct {
	staff        models.Staff
	bookingCount int
	hasShift     bool
	slotsFree    bool
	err          error
}

// FindAvailableStaff returns ranked candidates for one specialty and window
// at a clinic on a date. When nobody qualifies the result carries a reason
// and, when possible, the nearest future alternative slot.
func (r *AvailabilityResolver) FindAvailableStaff(
	ctx context.Context,
	clinicID, date string,
	required models.Specialty,
	window models.TimeWindow,
	itemIDs []string,
) (models.AvailabilityResult, error) {
	logger := utils.GetLogger()

	staffList, err := r.StaffRepo.ListActiveByClinic(ctx, clinicID)
	if err != nil {
		return models.AvailabilityResult{}, fmt.Errorf("failed to list clinic staff: %w", err)
	}

	var qualified []models.Staff
	for _, s := range staffList {
		if s.CanCover(required) {
			qualified = append(qualified, s)
		}
	}
	if len(qualified) == 0 {
		return models.AvailabilityResult{
			UnavailableReason: fmt.Sprintf("no active staff with specialty %s", required),
		}, nil
	}

	resultsCh := make(chan staffCheck, len(qualified))
	var wg sync.WaitGroup
	for _, s := range qualified {
		wg.Add(1)
		go func(s models.Staff) {
			defer wg.Done()
			resultsCh <- r.evaluateStaff(ctx, s, date, window)
		}(s)
	}
	wg.Wait()
	close(resultsCh)

	var candidates []models.VetCandidate
	anyShift := false
	for chk := range resultsCh {
		if chk.err != nil {
			logger.Warn("availability check failed for staff",
				zap.String("staffID", chk.staff.ID), zap.Error(chk.err))
			continue
		}
		if chk.hasShift {
			anyShift = true
		}
		if !chk.hasShift || !chk.slotsFree {
			continue
		}
		candidates = append(candidates, models.VetCandidate{
			StaffID:          chk.staff.ID,
			Name:             chk.staff.Name,
			Specialty:        chk.staff.Specialty,
			BookingCount:     chk.bookingCount,
			CoverableItemIDs: itemIDs,
		})
	}

	if len(candidates) == 0 {
		reason := "insufficient open slots in the requested window"
		if !anyShift {
			reason = "no shift covering the requested window"
		}
		result := models.AvailabilityResult{UnavailableReason: reason}
		if alt, altErr := r.findAlternativeSlot(ctx, clinicID, date, required, window); altErr == nil && alt != nil {
			result.Alternative = alt
		}
		return result, nil
	}

	// Load balancing: fewest same-day assignments first, staff id as the
	// deterministic tie-break.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].BookingCount != candidates[j].BookingCount {
			return candidates[i].BookingCount < candidates[j].BookingCount
		}
		return candidates[i].StaffID < candidates[j].StaffID
	})
	candidates[0].IsSuggested = true

	return models.AvailabilityResult{Candidates: candidates}, nil
}

// evaluateStaff checks one staff member's shift coverage, slot availability
// and same-day load for a window.
func (r *AvailabilityResolver) evaluateStaff(ctx context.Context, s models.Staff, date string, window models.TimeWindow) staffCheck {
	chk := staffCheck{staff: s}

	shifts, err := r.ShiftRepo.ListShiftsByStaffAndDate(ctx, s.ID, date)
	if err != nil {
		chk.err = err
		return chk
	}
	for _, sh := range shifts {
		if sh.Covers(window.Start, window.End) {
			chk.hasShift = true
			break
		}
	}
	if !chk.hasShift {
		return chk
	}

	slots, err := r.ShiftRepo.ListSlots(ctx, s.ID, date)
	if err != nil {
		chk.err = err
		return chk
	}
	chk.slotsFree = windowFullyAvailable(slots, window)
	if !chk.slotsFree {
		return chk
	}

	count, err := r.BookingRepo.CountByStaffAndDate(ctx, s.ID, date)
	if err != nil {
		chk.err = err
		return chk
	}
	chk.bookingCount = count
	return chk
}

// windowFullyAvailable reports whether the slot grid covers [start, end)
// completely with AVAILABLE slots. A partially covered or partially booked
// window fails the candidate.
func windowFullyAvailable(slots []models.Slot, window models.TimeWindow) bool {
	needed := (window.End - window.Start) / models.SlotMinutes
	if needed <= 0 {
		return false
	}
	free := 0
	for _, sl := range slots {
		if sl.Start < window.Start || sl.Start >= window.End {
			continue
		}
		if sl.Status != models.SlotAvailable {
			return false
		}
		free++
	}
	return free == needed
}

// findAlternativeSlot scans forward day by day for the earliest window of the
// same length where any specialty-matching staff has open slots.
func (r *AvailabilityResolver) findAlternativeSlot(
	ctx context.Context,
	clinicID, date string,
	required models.Specialty,
	window models.TimeWindow,
) (*models.AlternativeSlot, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, NewValidationError("invalid date %q", date)
	}
	length := window.End - window.Start
	if length <= 0 {
		length = models.SlotMinutes
	}

	staffList, err := r.StaffRepo.ListActiveByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	var qualified []models.Staff
	for _, s := range staffList {
		if s.CanCover(required) {
			qualified = append(qualified, s)
		}
	}
	sort.Slice(qualified, func(i, j int) bool { return qualified[i].ID < qualified[j].ID })

	for offset := 0; offset <= alternativeSearchDays; offset++ {
		dayStr := day.AddDate(0, 0, offset).Format("2006-01-02")
		// On the requested day only look past the requested window.
		minStart := 0
		if offset == 0 {
			minStart = window.End
		}
		best := (*models.AlternativeSlot)(nil)
		for _, s := range qualified {
			slots, err := r.ShiftRepo.ListSlots(ctx, s.ID, dayStr)
			if err != nil {
				continue
			}
			if start, ok := earliestOpenRun(slots, minStart, length); ok {
				if best == nil || start < best.Start {
					best = &models.AlternativeSlot{
						Date:    dayStr,
						Start:   start,
						End:     start + length,
						StaffID: s.ID,
					}
				}
			}
		}
		if best != nil {
			return best, nil
		}
	}
	return nil, nil
}

// earliestOpenRun finds the start of the first contiguous run of AVAILABLE
// slots of the given length, at or after minStart. Slots must be sorted by
// start time.
func earliestOpenRun(slots []models.Slot, minStart, length int) (int, bool) {
	needed := length / models.SlotMinutes
	runStart, run := 0, 0
	for _, sl := range slots {
		if sl.Start < minStart || sl.Status != models.SlotAvailable {
			run = 0
			continue
		}
		if run == 0 || sl.Start != runStart+run*models.SlotMinutes {
			runStart = sl.Start
			run = 0
		}
		run++
		if run >= needed {
			return runStart, true
		}
	}
	return 0, false
}
