package booking

import (
	"context"
	"fmt"
	"time"

	"petties/database"
	"petties/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const bookingColl = "bookings"

// MongoBookingRepo implements BookingRepository over MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{coll: database.Collection(bookingColl)}
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("booking %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) Update(ctx context.Context, b *models.Booking) error {
	b.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": b.ID}, b)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", b.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found: %w", b.ID, mongo.ErrNoDocuments)
	}
	return nil
}

func (r *MongoBookingRepo) CountByStaffAndDate(ctx context.Context, staffID, date string) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"date":   date,
			"status": bson.M{"$nin": bson.A{models.StatusCancelled, models.StatusNoShow}},
		}}},
		{{Key: "$unwind", Value: "$service_items"}},
		{{Key: "$match", Value: bson.M{"service_items.staff_id": staffID}}},
		{{Key: "$count", Value: "n"}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to count staff assignments: %w", err)
	}
	defer cur.Close(ctx)

	var out []struct {
		N int `bson:"n"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, fmt.Errorf("failed to decode assignment count: %w", err)
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].N, nil
}
