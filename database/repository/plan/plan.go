package planRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusshuttle/config"
	"campusshuttle/database"
	"campusshuttle/models"
)

// ErrNotFound is returned when no plan matches the given id.
var ErrNotFound = errors.New("plan not found")

// PlanRepository persists ride-credit plans.
type PlanRepository interface {
	Create(plan *models.Plan) error
	Update(plan *models.Plan) error
	Delete(id string) error
	GetByID(id string) (*models.Plan, error)
	// GetAll lists plans; a non-empty location also includes plans scoped to
	// that location alongside unscoped ones.
	GetAll(location string) ([]models.Plan, error)
}

// MongoPlanRepo implements PlanRepository using MongoDB.
type MongoPlanRepo struct {
	coll *mongo.Collection
}

// NewMongoPlanRepo constructs a new MongoDB PlanRepository.
func NewMongoPlanRepo() PlanRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("plans")
	return &MongoPlanRepo{coll: coll}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new plan document.
func (r *MongoPlanRepo) Create(plan *models.Plan) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	now := time.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, plan); err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

// Update modifies an existing plan document.
func (r *MongoPlanRepo) Update(plan *models.Plan) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	plan.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": plan.ID}, bson.M{"$set": plan})
	if err != nil {
		return fmt.Errorf("failed to update plan with id %s: %w", plan.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a plan document by its ID.
func (r *MongoPlanRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete plan with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a plan by its unique ID. Returns (nil, nil) when absent.
func (r *MongoPlanRepo) GetByID(id string) (*models.Plan, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var plan models.Plan
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&plan); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch plan with id %s: %w", id, err)
	}
	return &plan, nil
}

// GetAll lists plans, optionally scoped by location.
func (r *MongoPlanRepo) GetAll(location string) ([]models.Plan, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{}
	if location != "" {
		filter["$or"] = bson.A{
			bson.M{"location": location},
			bson.M{"location": bson.M{"$in": bson.A{"", nil}}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve plans: %w", err)
	}
	defer cursor.Close(ctx)

	var plans []models.Plan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("failed to decode plans: %w", err)
	}
	return plans, nil
}
