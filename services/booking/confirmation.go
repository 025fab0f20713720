package booking

import (
	"context"
	"errors"
	"fmt"

	shiftRepo "petties/database/repository/shift"
	"petties/models"
	"petties/utils"

	"go.uber.org/zap"
)

// ConfirmBooking resolves staff for every service item and claims their
// slots. Claims are atomic claim-if-still-available operations; a lost race
// is retried once against the next ranked candidate. Items left unresolved
// follow the manager's options: kept unassigned (AllowPartial), stripped
// with a price recompute (RemoveUnavailableServices), or the whole
// confirmation is reported as NoCandidate with per-item reasons.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, bookingID string, opts models.ConfirmOptions) (*models.ConfirmationResult, error) {
	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusPending {
		return nil, &models.InvalidTransitionError{From: b.Status, To: models.StatusConfirmed}
	}

	statuses, err := s.assignStaff(ctx, b, opts)
	if err != nil {
		return nil, err
	}

	unresolved := 0
	for _, st := range statuses {
		if !st.Assigned && !st.Removed {
			unresolved++
		}
	}

	if unresolved > 0 && !opts.AllowPartial {
		// Nothing may stay half-claimed when the confirmation is refused.
		if relErr := s.ShiftRepo.ReleaseSlots(ctx, b.ID); relErr != nil {
			utils.GetLogger().Warn("failed to release slots after refused confirmation",
				zap.String("bookingID", b.ID), zap.Error(relErr))
		}
		return &models.ConfirmationResult{Booking: b, ItemStatuses: statuses},
			NewNoCandidateError("%d of %d services could not be staffed", unresolved, len(statuses))
	}

	if err := b.Transition(models.StatusConfirmed); err != nil {
		return nil, err
	}
	if unresolved == 0 {
		if err := b.Transition(models.StatusAssigned); err != nil {
			return nil, err
		}
	}
	b.TotalPrice = TotalPrice(b.ServiceItems, b.DistanceFee)

	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to persist confirmed booking: %w", err)
	}
	s.cacheBooking(ctx, b)

	s.scheduleReminder(b)
	if s.Notifier != nil {
		if pushErr := s.Notifier.SendOwnerPush(ctx, b.OwnerID, "Booking confirmed",
			fmt.Sprintf("Your booking %s is confirmed for %s %s", b.Code, b.Date, models.MinutesToClock(b.Start)),
			map[string]string{"bookingId": b.ID}); pushErr != nil {
			utils.GetLogger().Warn("confirmation push failed", zap.String("bookingID", b.ID), zap.Error(pushErr))
		}
	}

	return &models.ConfirmationResult{Booking: b, ItemStatuses: statuses}, nil
}

// assignStaff runs the resolve-and-claim pass. When RemoveUnavailableServices
// strips items the schedule shifts, so all claims are released and the pass
// reruns once over the remaining items.
func (s *DefaultBookingService) assignStaff(ctx context.Context, b *models.Booking, opts models.ConfirmOptions) ([]models.ServiceItemStatus, error) {
	ApplySchedule(b)
	statuses, err := s.resolveAndClaim(ctx, b, opts)
	if err != nil {
		return nil, err
	}

	if !opts.RemoveUnavailableServices {
		return statuses, nil
	}

	var keep []models.BookingServiceItem
	removedAny := false
	for _, st := range statuses {
		if st.Assigned {
			continue
		}
		removedAny = true
	}
	if !removedAny {
		return statuses, nil
	}

	// Strip unresolved items and redo the whole pass: removal changes every
	// subsequent item's window.
	if err := s.ShiftRepo.ReleaseSlots(ctx, b.ID); err != nil {
		return nil, fmt.Errorf("failed to release slots before re-pass: %w", err)
	}
	unresolvedIDs := make(map[string]bool)
	for _, st := range statuses {
		if !st.Assigned {
			unresolvedIDs[st.ServiceItemID] = true
		}
	}
	for _, it := range b.ServiceItems {
		if !unresolvedIDs[it.ID] {
			it.StaffID = ""
			keep = append(keep, it)
		}
	}
	if len(keep) == 0 {
		return statuses, NewNoCandidateError("no service in the booking could be staffed")
	}
	b.ServiceItems = keep

	ApplySchedule(b)
	finalStatuses, err := s.resolveAndClaim(ctx, b, opts)
	if err != nil {
		return nil, err
	}
	// Report the stripped items alongside the final pass.
	for id := range unresolvedIDs {
		finalStatuses = append(finalStatuses, models.ServiceItemStatus{
			ServiceItemID: id,
			Removed:       true,
		})
	}
	return finalStatuses, nil
}

// resolveAndClaim picks a staff member for each item and claims the slots.
func (s *DefaultBookingService) resolveAndClaim(ctx context.Context, b *models.Booking, opts models.ConfirmOptions) ([]models.ServiceItemStatus, error) {
	statuses := make([]models.ServiceItemStatus, 0, len(b.ServiceItems))

	for i := range b.ServiceItems {
		it := &b.ServiceItems[i]
		st := models.ServiceItemStatus{ServiceItemID: it.ID}
		window := models.TimeWindow{Start: it.ScheduledStart, End: it.ScheduledEnd}

		var ranked []models.VetCandidate
		if opts.SelectedVetID != "" {
			// Explicit override bypasses ranking; the slot claim still
			// enforces availability.
			ranked = []models.VetCandidate{{StaffID: opts.SelectedVetID}}
		} else {
			svc, err := s.Catalog.GetService(ctx, it.ServiceID)
			if err != nil {
				return nil, NewNotFoundError("service", it.ServiceID)
			}
			res, err := s.Resolver.FindAvailableStaff(ctx, b.ClinicID, b.Date,
				models.SpecialtyForCategory(svc.Category), window, []string{it.ID})
			if err != nil {
				return nil, err
			}
			ranked = res.Candidates
			st.UnavailableReason = res.UnavailableReason
			st.Alternative = res.Alternative
		}

		staffID, claimErr := s.claimWithRetry(ctx, b, it, window, ranked)
		if claimErr != nil {
			if st.UnavailableReason == "" {
				st.UnavailableReason = claimErr.Error()
			}
			statuses = append(statuses, st)
			continue
		}
		it.StaffID = staffID
		st.StaffID = staffID
		st.Assigned = true
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// claimWithRetry claims the window against the top candidate, retrying once
// against the next candidate when the claim loses a race.
func (s *DefaultBookingService) claimWithRetry(ctx context.Context, b *models.Booking, it *models.BookingServiceItem, window models.TimeWindow, ranked []models.VetCandidate) (string, error) {
	if len(ranked) == 0 {
		return "", NewNoCandidateError("no staff available for service item %s", it.ID)
	}
	attempts := len(ranked)
	if attempts > 2 {
		attempts = 2 // one retry against the next ranked candidate
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		cand := ranked[i]
		err := s.ShiftRepo.ClaimSlots(ctx, cand.StaffID, b.Date, window.Start, window.End, b.ID, it.ID)
		if err == nil {
			return cand.StaffID, nil
		}
		if errors.Is(err, shiftRepo.ErrSlotConflict) {
			lastErr = NewConflictError("slots for staff %s were claimed concurrently", cand.StaffID)
			continue
		}
		return "", err
	}
	return "", lastErr
}
