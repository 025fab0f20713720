package staff

import (
	"context"
	"fmt"

	"petties/database"
	"petties/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const staffColl = "staff"

// MongoStaffRepo implements StaffRepository over MongoDB.
type MongoStaffRepo struct {
	coll *mongo.Collection
}

func NewMongoStaffRepo() *MongoStaffRepo {
	return &MongoStaffRepo{coll: database.Collection(staffColl)}
}

func (r *MongoStaffRepo) GetByID(ctx context.Context, id string) (*models.Staff, error) {
	var s models.Staff
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("staff %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to fetch staff %s: %w", id, err)
	}
	return &s, nil
}

func (r *MongoStaffRepo) ListActiveByClinic(ctx context.Context, clinicID string) ([]models.Staff, error) {
	cur, err := r.coll.Find(ctx, bson.M{"clinic_id": clinicID, "status": models.StaffActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list staff for clinic %s: %w", clinicID, err)
	}
	defer cur.Close(ctx)

	var staff []models.Staff
	if err := cur.All(ctx, &staff); err != nil {
		return nil, fmt.Errorf("failed to decode staff list: %w", err)
	}
	return staff, nil
}
