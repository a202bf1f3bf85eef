package studentRepo

import (
	"fmt"
	"time"

	"campusshuttle/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new student document.
func (r *MongoStudentRepo) Create(student *models.Student) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now
	if student.Bookings == nil {
		student.Bookings = []models.Booking{}
	}

	_, err := r.coll.InsertOne(ctx, student)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// Update modifies an existing student document.
func (r *MongoStudentRepo) Update(student *models.Student) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	student.UpdatedAt = time.Now()
	filter := bson.M{"id": student.ID}
	update := bson.M{"$set": student}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update student with id %s: %w", student.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a student document by its ID.
func (r *MongoStudentRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete student with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTokenHash stores (or clears) the hash of the student's session token.
func (r *MongoStudentRepo) UpdateTokenHash(id, tokenHash string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"tokenHash": tokenHash, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update token hash for student %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddRides atomically adjusts the ride balance and returns the new value.
func (r *MongoStudentRepo) AddRides(id string, n int) (int, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"remainingRides": n},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"remainingRides": 1})

	var updated models.Student
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add rides for student %s: %w", id, err)
	}
	return updated.RemainingRides, nil
}
