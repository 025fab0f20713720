package booking

import (
	"context"

	bookingRepo "petties/database/repository/booking"
	catalogRepo "petties/database/repository/catalog"
	shiftRepo "petties/database/repository/shift"
	"petties/models"
	"petties/services/notification"
	"petties/services/tasks"
)

// BookingService drives a booking from creation through completion.
type BookingService interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	CheckAvailability(ctx context.Context, bookingID string) (*models.AvailabilityCheckResult, error)
	ConfirmBooking(ctx context.Context, bookingID string, opts models.ConfirmOptions) (*models.ConfirmationResult, error)
	UpdateProgress(ctx context.Context, bookingID string, next models.BookingStatus) (*models.Booking, error)
	CheckIn(ctx context.Context, bookingID string) (*models.Booking, error)
	Checkout(ctx context.Context, bookingID string, distanceFeeOverride *float64) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	Catalog   catalogRepo.CatalogRepository
	ShiftRepo shiftRepo.ShiftRepository
	Resolver  *AvailabilityResolver
	Notifier  notification.NotificationService
	Reminders *tasks.Scheduler
	Cache     BookingCache // optional
}
