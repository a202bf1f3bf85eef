package studentRepo

import (
	"fmt"
	"time"

	"campusshuttle/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByIDWithProjection retrieves a student by its ID with an optional
// projection. Pass nil for the default safe view, which strips credential
// fields. Returns (nil, nil) when absent.
func (r *MongoStudentRepo) GetByIDWithProjection(id string, projection bson.M) (*models.Student, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if projection == nil {
		projection = bson.M{"passwordHash": 0, "tokenHash": 0}
	}
	opts := options.FindOne().SetProjection(projection)

	var student models.Student
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&student); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch student with id %s: %w", id, err)
	}
	return &student, nil
}

// GetByID retrieves a student by its unique ID (safe view).
func (r *MongoStudentRepo) GetByID(id string) (*models.Student, error) {
	return r.GetByIDWithProjection(id, nil)
}

// GetByEmail retrieves the full student document for authentication.
func (r *MongoStudentRepo) GetByEmail(email string) (*models.Student, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var student models.Student
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&student); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch student with email %s: %w", email, err)
	}
	return &student, nil
}

// GetAll retrieves all students (safe view).
func (r *MongoStudentRepo) GetAll() ([]models.Student, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"passwordHash": 0, "tokenHash": 0}).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve students: %w", err)
	}
	defer cursor.Close(ctx)

	var students []models.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}
	return students, nil
}
