package catalog

import (
	"context"
	"fmt"

	"petties/database"
	"petties/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalogRepo implements CatalogRepository over MongoDB.
type MongoCatalogRepo struct {
	pets     *mongo.Collection
	services *mongo.Collection
}

func NewMongoCatalogRepo() *MongoCatalogRepo {
	return &MongoCatalogRepo{
		pets:     database.Collection("pets"),
		services: database.Collection("services"),
	}
}

func (r *MongoCatalogRepo) GetPet(ctx context.Context, id string) (*models.Pet, error) {
	var p models.Pet
	if err := r.pets.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("pet %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to fetch pet %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoCatalogRepo) GetService(ctx context.Context, id string) (*models.Service, error) {
	var s models.Service
	if err := r.services.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("service %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, err)
	}
	return &s, nil
}
