package staff

import (
	"context"

	"petties/models"
)

// StaffRepository defines staff lookups consumed by the availability resolver.
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*models.Staff, error)
	ListActiveByClinic(ctx context.Context, clinicID string) ([]models.Staff, error)
}
