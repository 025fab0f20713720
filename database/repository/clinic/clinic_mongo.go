package clinic

import (
	"context"
	"fmt"

	"petties/database"
	"petties/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const clinicColl = "clinics"

// MongoClinicRepo implements ClinicRepository over MongoDB. It relies on a
// 2dsphere index on location_geo.
type MongoClinicRepo struct {
	coll *mongo.Collection
}

func NewMongoClinicRepo() *MongoClinicRepo {
	return &MongoClinicRepo{coll: database.Collection(clinicColl)}
}

func (r *MongoClinicRepo) GetByID(ctx context.Context, id string) (*models.Clinic, error) {
	var c models.Clinic
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("clinic %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to fetch clinic %s: %w", id, err)
	}
	return &c, nil
}

func (r *MongoClinicRepo) FindSosWithinRadius(ctx context.Context, center models.GeoPoint, radiusKm float64, limit int) ([]models.Clinic, error) {
	filter := bson.M{
		"active":      true,
		"sos_enabled": true,
		"location_geo": bson.M{
			"$nearSphere": bson.M{
				"$geometry":    center,
				"$maxDistance": radiusKm * 1000, // metres
			},
		},
	}
	opts := options.Find().SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("geo search for SOS clinics failed: %w", err)
	}
	defer cur.Close(ctx)

	var clinics []models.Clinic
	if err := cur.All(ctx, &clinics); err != nil {
		return nil, fmt.Errorf("failed to decode SOS clinic results: %w", err)
	}
	return clinics, nil
}
