package booking

import (
	"context"

	"petties/models"
)

// BookingRepository defines data access for bookings and their service items.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	Create(ctx context.Context, b *models.Booking) error
	Update(ctx context.Context, b *models.Booking) error
	// CountByStaffAndDate counts service-item assignments a staff member
	// already has on a date, across non-cancelled bookings.
	CountByStaffAndDate(ctx context.Context, staffID, date string) (int, error)
}
