package clinic

import (
	"context"

	"petties/models"
)

// ClinicRepository defines clinic lookups consumed by the booking engine.
type ClinicRepository interface {
	GetByID(ctx context.Context, id string) (*models.Clinic, error)
	// FindSosWithinRadius returns active SOS-enabled clinics within radiusKm
	// of center, ordered by ascending distance, capped at limit.
	FindSosWithinRadius(ctx context.Context, center models.GeoPoint, radiusKm float64, limit int) ([]models.Clinic, error)
}
