package studentRepo

import (
	"errors"

	"campusshuttle/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotFound is returned by mutations targeting a missing student.
var ErrNotFound = errors.New("student not found")

// StudentRepository defines persistence operations for student documents.
type StudentRepository interface {
	Create(student *models.Student) error
	Update(student *models.Student) error
	Delete(id string) error
	// GetByID retrieves a student (safe view, no credential fields).
	// Returns (nil, nil) when absent.
	GetByID(id string) (*models.Student, error)
	// GetByEmail retrieves the full student document including credential
	// hashes, for authentication. Returns (nil, nil) when absent.
	GetByEmail(email string) (*models.Student, error)
	GetByIDWithProjection(id string, projection bson.M) (*models.Student, error)
	GetAll() ([]models.Student, error)
	UpdateTokenHash(id, tokenHash string) error
	// AddRides atomically adjusts the ride-credit balance and returns the
	// updated value. Negative deltas that would push the balance below zero
	// are rejected by the caller, not here.
	AddRides(id string, n int) (int, error)
}
