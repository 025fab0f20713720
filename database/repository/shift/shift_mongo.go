package shift

import (
	"context"
	"fmt"

	"petties/database"
	"petties/models"
	"petties/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	shiftColl = "shifts"
	slotColl  = "slots"
)

// MongoShiftRepo implements ShiftRepository over MongoDB.
type MongoShiftRepo struct {
	shifts *mongo.Collection
	slots  *mongo.Collection
}

func NewMongoShiftRepo() *MongoShiftRepo {
	return &MongoShiftRepo{
		shifts: database.Collection(shiftColl),
		slots:  database.Collection(slotColl),
	}
}

func (r *MongoShiftRepo) GetShift(ctx context.Context, id string) (*models.StaffShift, error) {
	var s models.StaffShift
	if err := r.shifts.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("shift %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to fetch shift %s: %w", id, err)
	}
	return &s, nil
}

func (r *MongoShiftRepo) CreateShift(ctx context.Context, s *models.StaffShift, slots []models.Slot) error {
	if _, err := r.shifts.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	if len(slots) == 0 {
		return nil
	}
	docs := make([]interface{}, len(slots))
	for i := range slots {
		docs[i] = slots[i]
	}
	if _, err := r.slots.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert slots for shift %s: %w", s.ID, err)
	}
	return nil
}

func (r *MongoShiftRepo) ListShiftsByStaffAndDate(ctx context.Context, staffID, date string) ([]models.StaffShift, error) {
	cur, err := r.shifts.Find(ctx, bson.M{"staff_id": staffID, "date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer cur.Close(ctx)
	var shifts []models.StaffShift
	if err := cur.All(ctx, &shifts); err != nil {
		return nil, fmt.Errorf("failed to decode shifts: %w", err)
	}
	return shifts, nil
}

func (r *MongoShiftRepo) ListSlots(ctx context.Context, staffID, date string) ([]models.Slot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cur, err := r.slots.Find(ctx, bson.M{"staff_id": staffID, "date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer cur.Close(ctx)
	var slots []models.Slot
	if err := cur.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *MongoShiftRepo) ListSlotsByShift(ctx context.Context, shiftID string) ([]models.Slot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cur, err := r.slots.Find(ctx, bson.M{"shift_id": shiftID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots for shift %s: %w", shiftID, err)
	}
	defer cur.Close(ctx)
	var slots []models.Slot
	if err := cur.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *MongoShiftRepo) ReplaceShiftSlots(ctx context.Context, s *models.StaffShift, slots []models.Slot) error {
	if _, err := r.slots.DeleteMany(ctx, bson.M{"shift_id": s.ID}); err != nil {
		return fmt.Errorf("failed to delete slots for shift %s: %w", s.ID, err)
	}
	res, err := r.shifts.ReplaceOne(ctx, bson.M{"id": s.ID}, s)
	if err != nil {
		return fmt.Errorf("failed to update shift %s: %w", s.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("shift %s not found: %w", s.ID, mongo.ErrNoDocuments)
	}
	if len(slots) == 0 {
		return nil
	}
	docs := make([]interface{}, len(slots))
	for i := range slots {
		docs[i] = slots[i]
	}
	if _, err := r.slots.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert regenerated slots for shift %s: %w", s.ID, err)
	}
	return nil
}

// ClaimSlots is the single mutation concurrent bookings race over. The
// conditional UpdateMany only matches AVAILABLE slots; when fewer slots match
// than the window requires the partial claim is compensated and the caller
// gets ErrSlotConflict to retry against another candidate.
func (r *MongoShiftRepo) ClaimSlots(ctx context.Context, staffID, date string, start, end int, bookingID, itemID string) error {
	needed := (end - start) / models.SlotMinutes
	if needed <= 0 {
		return fmt.Errorf("invalid claim window [%d, %d)", start, end)
	}

	filter := bson.M{
		"staff_id": staffID,
		"date":     date,
		"start":    bson.M{"$gte": start, "$lt": end},
		"status":   models.SlotAvailable,
	}
	update := bson.M{"$set": bson.M{
		"status":          models.SlotBooked,
		"booking_id":      bookingID,
		"service_item_id": itemID,
	}}
	res, err := r.slots.UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to claim slots: %w", err)
	}
	if int(res.ModifiedCount) != needed {
		// Another booking got there first; free whatever we grabbed.
		if _, rbErr := r.slots.UpdateMany(ctx,
			bson.M{"booking_id": bookingID, "service_item_id": itemID},
			bson.M{"$set": bson.M{"status": models.SlotAvailable, "booking_id": "", "service_item_id": ""}},
		); rbErr != nil {
			utils.GetLogger().Error("failed to roll back partial slot claim",
				zap.String("bookingID", bookingID), zap.Error(rbErr))
		}
		return ErrSlotConflict
	}
	return nil
}

func (r *MongoShiftRepo) ReleaseSlots(ctx context.Context, bookingID string) error {
	_, err := r.slots.UpdateMany(ctx,
		bson.M{"booking_id": bookingID, "status": models.SlotBooked},
		bson.M{"$set": bson.M{"status": models.SlotAvailable, "booking_id": "", "service_item_id": ""}},
	)
	if err != nil {
		return fmt.Errorf("failed to release slots for booking %s: %w", bookingID, err)
	}
	return nil
}
