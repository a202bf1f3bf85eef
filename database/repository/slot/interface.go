package slotRepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"campusshuttle/config"
	"campusshuttle/database"
	"campusshuttle/models"
)

// Sentinel errors for guarded slot mutations.
var (
	ErrNotFound               = errors.New("slot not found")
	ErrHasBookings            = errors.New("slot has active bookings")
	ErrCapacityBelowOccupancy = errors.New("capacity below current occupancy")
)

// SlotRepository persists shuttle slots. Occupant lists are mutated only by
// the booking engine's transactional repository; this repository covers
// generation, queries and admin maintenance.
type SlotRepository interface {
	// Upsert creates the slot if no slot with the same natural key
	// (location, date, time, direction) exists. Existing slots are left
	// untouched, including capacity and occupants. Reports whether a new
	// slot was created.
	Upsert(ctx context.Context, slot models.Slot) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Slot, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Slot, error)
	Query(ctx context.Context, q models.SlotQuery) ([]models.Slot, error)
	// UpdateFields applies a partial admin update. Shrinking capacity below
	// the current occupant count fails with ErrCapacityBelowOccupancy.
	UpdateFields(ctx context.Context, id string, upd models.SlotUpdate) (*models.Slot, error)
	// Delete removes an empty slot; occupied slots fail with ErrHasBookings.
	Delete(ctx context.Context, id string) error
	UsageByDate(ctx context.Context, date, location string) ([]models.UsageStat, error)
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	repo := &mongoSlotRepo{coll: db.Collection("slots")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create slot indexes: %v\n", err)
	}
	return repo
}
