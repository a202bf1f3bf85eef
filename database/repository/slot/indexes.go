package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the necessary indexes on the slots collection.
func (r *mongoSlotRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Backstop for the generator's upsert-by-natural-key semantics.
		{
			Keys: bson.D{
				{Key: "location", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time", Value: 1},
				{Key: "direction", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("unique_natural_key"),
		},
		// Primary listing pattern: slots for a date, filtered by location/direction.
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "location", Value: 1}, {Key: "direction", Value: 1}},
			Options: options.Index().SetName("date_location_direction_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}
	return nil
}
