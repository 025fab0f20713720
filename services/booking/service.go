package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"petties/models"
	"petties/services/tasks"
	"petties/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking builds the service-item list for a (possibly multi-pet)
// request, computes the provisional schedule and total price, and persists
// the booking at PENDING.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	logger := utils.GetLogger()

	bookingID := uuid.New().String()
	b := &models.Booking{
		ID:            bookingID,
		Code:          bookingCode(),
		OwnerID:       req.OwnerID,
		ClinicID:      req.ClinicID,
		Type:          req.Type,
		Date:          req.Date,
		Start:         req.Start,
		Status:        models.StatusPending,
		HomeAddress:   req.HomeAddress,
		HomeGeo:       req.HomeGeo,
		PaymentStatus: models.PaymentUnpaid,
	}

	for _, sel := range req.PetServices {
		pet, err := s.Catalog.GetPet(ctx, sel.PetID)
		if err != nil {
			return nil, NewNotFoundError("pet", sel.PetID)
		}
		for _, svcID := range sel.ServiceIDs {
			svc, err := s.Catalog.GetService(ctx, svcID)
			if err != nil {
				return nil, NewNotFoundError("service", svcID)
			}
			base, weight, unit := ItemPrice(*svc, *pet)
			b.ServiceItems = append(b.ServiceItems, models.BookingServiceItem{
				ID:              uuid.New().String(),
				BookingID:       bookingID,
				PetID:           pet.ID,
				ServiceID:       svc.ID,
				DurationMinutes: svc.DurationMinutes,
				SlotsRequired:   SlotsRequired(svc.DurationMinutes),
				BasePrice:       base,
				WeightPrice:     weight,
				UnitPrice:       unit,
				IsAddOn:         svc.IsAddOn,
			})
		}
	}
	if len(b.ServiceItems) == 0 {
		return nil, NewValidationError("booking must contain at least one service")
	}

	ApplySchedule(b)
	b.TotalPrice = TotalPrice(b.ServiceItems, 0)

	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}
	s.cacheBooking(ctx, b)
	logger.Info("booking created",
		zap.String("bookingID", b.ID),
		zap.String("code", b.Code),
		zap.Int("services", len(b.ServiceItems)))
	return b, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	if s.Cache != nil {
		if b, ok := s.Cache.Get(ctx, id); ok {
			return b, nil
		}
	}
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("booking", id)
	}
	s.cacheBooking(ctx, b)
	return b, nil
}

// cacheBooking refreshes the cached copy after every successful read-miss
// or write, keeping cached state in step with the repository.
func (s *DefaultBookingService) cacheBooking(ctx context.Context, b *models.Booking) {
	if s.Cache != nil {
		s.Cache.Set(ctx, b)
	}
}

// CheckAvailability reports, per service item, the ranked staff candidates
// for the item's scheduled window, for a manager UI to review or override.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, bookingID string) (*models.AvailabilityCheckResult, error) {
	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	ApplySchedule(b)

	out := &models.AvailabilityCheckResult{
		BookingID: b.ID,
		Services:  make(map[string]models.AvailabilityResult, len(b.ServiceItems)),
	}
	for _, it := range b.ServiceItems {
		svc, err := s.Catalog.GetService(ctx, it.ServiceID)
		if err != nil {
			return nil, NewNotFoundError("service", it.ServiceID)
		}
		window := models.TimeWindow{Start: it.ScheduledStart, End: it.ScheduledEnd}
		res, err := s.Resolver.FindAvailableStaff(ctx, b.ClinicID, b.Date,
			models.SpecialtyForCategory(svc.Category), window, []string{it.ID})
		if err != nil {
			return nil, err
		}
		out.Services[it.ID] = res
	}
	return out, nil
}

// UpdateProgress drives ON_THE_WAY / ARRIVED / ASSIGNED style transitions.
func (s *DefaultBookingService) UpdateProgress(ctx context.Context, bookingID string, next models.BookingStatus) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := b.Transition(next); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.cacheBooking(ctx, b)
	return b, nil
}

// CheckIn is the only transition into IN_PROGRESS.
func (s *DefaultBookingService) CheckIn(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := b.CheckIn(); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.cacheBooking(ctx, b)
	return b, nil
}

// Checkout completes the booking, computes the final price (applying any
// explicit distance-fee override for home visits) and flips payment status.
func (s *DefaultBookingService) Checkout(ctx context.Context, bookingID string, distanceFeeOverride *float64) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := b.Checkout(); err != nil {
		return nil, err
	}

	if distanceFeeOverride != nil {
		b.DistanceFee = *distanceFeeOverride
	}
	b.TotalPrice = TotalPrice(b.ServiceItems, b.DistanceFee)
	if b.PaymentStatus == models.PaymentUnpaid {
		b.PaymentStatus = models.PaymentPending
	}

	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.cacheBooking(ctx, b)

	if s.Notifier != nil {
		if err := s.Notifier.SendOwnerPush(ctx, b.OwnerID, "Visit completed",
			fmt.Sprintf("Total due: %.2f", b.TotalPrice),
			map[string]string{"bookingId": b.ID}); err != nil {
			utils.GetLogger().Warn("checkout push failed", zap.String("bookingID", b.ID), zap.Error(err))
		}
	}
	return b, nil
}

// Cancel moves the booking to CANCELLED and frees any claimed slots.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := b.Transition(models.StatusCancelled); err != nil {
		return nil, err
	}
	if err := s.ShiftRepo.ReleaseSlots(ctx, b.ID); err != nil {
		utils.GetLogger().Warn("failed to release slots on cancel",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.cacheBooking(ctx, b)
	return b, nil
}

// scheduleReminder queues a push one hour before the booking starts.
func (s *DefaultBookingService) scheduleReminder(b *models.Booking) {
	if s.Reminders == nil {
		return
	}
	day, err := time.Parse("2006-01-02", b.Date)
	if err != nil {
		return
	}
	fireAt := day.Add(time.Duration(b.Start)*time.Minute - time.Hour)
	if fireAt.Before(time.Now()) {
		return
	}
	payload := tasks.ReminderPayload{
		BookingID: b.ID,
		OwnerID:   b.OwnerID,
		ClinicID:  b.ClinicID,
		Date:      b.Date,
		Start:     b.Start,
	}
	if err := s.Reminders.ScheduleBookingReminder(payload, fireAt); err != nil {
		utils.GetLogger().Warn("failed to schedule reminder",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
}

// bookingCode returns a short human-facing booking reference.
func bookingCode() string {
	return "PT-" + strings.ToUpper(uuid.New().String()[:8])
}
