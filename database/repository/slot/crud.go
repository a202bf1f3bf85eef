package slotRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusshuttle/models"
)

// Upsert writes the slot keyed by (location, date, time, direction). All
// mutable fields go through $setOnInsert, so re-running generation for an
// existing slot never resets a custom capacity or clears occupants.
func (r *mongoSlotRepo) Upsert(ctx context.Context, slot models.Slot) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	if slot.Students == nil {
		slot.Students = []string{}
	}
	now := time.Now()

	filter := bson.M{
		"location":  slot.Location,
		"date":      slot.Date,
		"time":      slot.Time,
		"direction": slot.Direction,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"id":        slot.ID,
			"location":  slot.Location,
			"date":      slot.Date,
			"time":      slot.Time,
			"direction": slot.Direction,
			"capacity":  slot.Capacity,
			"students":  slot.Students,
			"createdAt": now,
			"updatedAt": now,
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to upsert slot %s %s %s: %w", slot.Location, slot.Date, slot.Time, err)
	}
	return res.UpsertedCount > 0, nil
}

// GetByID retrieves a slot by its unique ID. Returns (nil, nil) when absent.
func (r *mongoSlotRepo) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Slot
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch slot with id %s: %w", id, err)
	}
	return &slot, nil
}

// UpdateFields applies a partial admin update to time and capacity. The
// capacity change is guarded so it can never drop below the occupant count.
func (r *mongoSlotRepo) UpdateFields(ctx context.Context, id string, upd models.SlotUpdate) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	if upd.Time != nil {
		set["time"] = *upd.Time
	}
	if upd.Capacity != nil {
		set["capacity"] = *upd.Capacity
	}

	filter := bson.M{"id": id}
	if upd.Capacity != nil {
		filter["$expr"] = bson.M{"$lte": bson.A{bson.M{"$size": "$students"}, *upd.Capacity}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var slot models.Slot
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		// Distinguish a missing slot from a rejected capacity shrink.
		existing, lookupErr := r.GetByID(ctx, id)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		return nil, ErrCapacityBelowOccupancy
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update slot with id %s: %w", id, err)
	}
	return &slot, nil
}

// Delete removes a slot only when no student occupies it.
func (r *mongoSlotRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "students": bson.M{"$size": 0}})
	if err != nil {
		return fmt.Errorf("failed to delete slot with id %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		existing, lookupErr := r.GetByID(ctx, id)
		if lookupErr != nil {
			return lookupErr
		}
		if existing == nil {
			return ErrNotFound
		}
		return ErrHasBookings
	}
	return nil
}
