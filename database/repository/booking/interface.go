package bookingRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"campusshuttle/config"
	"campusshuttle/database"
	"campusshuttle/models"
)

// Sentinel errors describing why a booking transaction was rejected. The
// booking engine maps these onto user-facing rejection reasons.
var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrSlotNotFound      = errors.New("slot not found")
	ErrSlotFull          = errors.New("slot full")
	ErrAlreadyBooked     = errors.New("student already occupies slot")
	ErrInsufficientRides = errors.New("insufficient rides")
	ErrBookingNotFound   = errors.New("booking not found")
)

// TxRepository performs the cross-aggregate writes of the booking engine:
// slot occupancy on the slots collection and the embedded booking plus ride
// balance on the students collection, as one multi-document transaction.
// Every capacity and balance check is re-verified inside the transaction by
// a guarded conditional update, so concurrent bookers cannot overshoot a
// slot's capacity or drive a balance negative.
type TxRepository interface {
	// BookRoundTrip seats the student in both slots, appends the booking and
	// debits the ride cost. Returns the updated ride balance.
	BookRoundTrip(ctx context.Context, studentID string, booking models.Booking) (int, error)
	// CancelRoundTrip removes the student from both slots, deletes the
	// booking and refunds the ride cost. Returns the updated ride balance.
	CancelRoundTrip(ctx context.Context, studentID string, booking models.Booking) (int, error)
}

// MongoTxRepo implements TxRepository over the slots and students collections.
type MongoTxRepo struct {
	slotColl    *mongo.Collection
	studentColl *mongo.Collection
}

// NewMongoTxRepo constructs the transactional booking repository.
func NewMongoTxRepo() TxRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoTxRepo{
		slotColl:    db.Collection("slots"),
		studentColl: db.Collection("students"),
	}
}
