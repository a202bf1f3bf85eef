package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusshuttle/models"
)

// GetByIDs fetches multiple slots by their unique IDs.
func (r *mongoSlotRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

// Query lists slots filtered by date, location and direction, ordered by
// departure time.
func (r *mongoSlotRepo) Query(ctx context.Context, q models.SlotQuery) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if q.Date != "" {
		filter["date"] = q.Date
	}
	if q.Location != "" {
		filter["location"] = q.Location
	}
	if q.Direction != "" {
		filter["direction"] = q.Direction
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

// UsageByDate aggregates seat usage per direction for one date.
func (r *mongoSlotRepo) UsageByDate(ctx context.Context, date, location string) ([]models.UsageStat, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	match := bson.M{"date": date}
	if location != "" {
		match["location"] = location
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$direction",
			"slotCount":     bson.M{"$sum": 1},
			"totalCapacity": bson.M{"$sum": "$capacity"},
			"bookedSeats":   bson.M{"$sum": bson.M{"$size": "$students"}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate slot usage: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []models.UsageStat
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode slot usage: %w", err)
	}
	for i := range stats {
		if stats[i].TotalCapacity > 0 {
			stats[i].Occupancy = float64(stats[i].BookedSeats) / float64(stats[i].TotalCapacity)
		}
	}
	return stats, nil
}
