package catalog

import (
	"context"

	"petties/models"
)

// CatalogRepository provides pet and service lookups. Pet and service CRUD
// live in another service; the booking engine only reads them by id.
type CatalogRepository interface {
	GetPet(ctx context.Context, id string) (*models.Pet, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
}
