package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusshuttle/models"
)

// occupySlot seats the student in one slot. The filter carries the capacity
// guard and the duplicate guard, so the check and the append are a single
// atomic conditional update. A zero match is classified by re-reading the
// slot inside the same session.
func (r *MongoTxRepo) occupySlot(sc mongo.SessionContext, slotID, studentID string) error {
	filter := bson.M{
		"id":       slotID,
		"students": bson.M{"$ne": studentID},
		"$expr":    bson.M{"$lt": bson.A{bson.M{"$size": "$students"}, "$capacity"}},
	}
	update := bson.M{
		"$push": bson.M{"students": studentID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	res, err := r.slotColl.UpdateOne(sc, filter, update)
	if err != nil {
		return fmt.Errorf("failed to occupy slot %s: %w", slotID, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	var slot models.Slot
	err = r.slotColl.FindOne(sc, bson.M{"id": slotID}).Decode(&slot)
	switch {
	case err == mongo.ErrNoDocuments:
		return ErrSlotNotFound
	case err != nil:
		return fmt.Errorf("failed to inspect slot %s: %w", slotID, err)
	case slot.HasStudent(studentID):
		return ErrAlreadyBooked
	default:
		return ErrSlotFull
	}
}

// releaseSlot removes the student from one slot's occupant list.
func (r *MongoTxRepo) releaseSlot(sc mongo.SessionContext, slotID, studentID string) error {
	update := bson.M{
		"$pull": bson.M{"students": studentID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	if _, err := r.slotColl.UpdateOne(sc, bson.M{"id": slotID}, update); err != nil {
		return fmt.Errorf("failed to release slot %s: %w", slotID, err)
	}
	return nil
}

// currentRides reads back the ride balance inside the session.
func (r *MongoTxRepo) currentRides(sc mongo.SessionContext, studentID string) (int, error) {
	opts := options.FindOne().SetProjection(bson.M{"remainingRides": 1})
	var student models.Student
	if err := r.studentColl.FindOne(sc, bson.M{"id": studentID}, opts).Decode(&student); err != nil {
		return 0, fmt.Errorf("failed to read ride balance for student %s: %w", studentID, err)
	}
	return student.RemainingRides, nil
}

// withTransaction runs fn inside a mongo session transaction, aborting on error.
func (r *MongoTxRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.slotColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// BookRoundTrip performs the four booking writes as one atomic unit.
func (r *MongoTxRepo) BookRoundTrip(ctx context.Context, studentID string, booking models.Booking) (int, error) {
	var remaining int

	txnFn := func(sc mongo.SessionContext) error {
		if err := r.occupySlot(sc, booking.GoSlotID, studentID); err != nil {
			return err
		}
		if err := r.occupySlot(sc, booking.ReturnSlotID, studentID); err != nil {
			return err
		}

		// Debit guarded by the non-negativity invariant; the booking record
		// rides on the same update so slot occupancy and booking list can
		// never diverge.
		filter := bson.M{
			"id":             studentID,
			"remainingRides": bson.M{"$gte": models.RideCostPerBooking},
		}
		update := bson.M{
			"$inc":  bson.M{"remainingRides": -models.RideCostPerBooking},
			"$push": bson.M{"bookings": booking},
			"$set":  bson.M{"updatedAt": time.Now()},
		}
		res, err := r.studentColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("failed to debit student %s: %w", studentID, err)
		}
		if res.MatchedCount == 0 {
			var student models.Student
			err := r.studentColl.FindOne(sc, bson.M{"id": studentID}).Decode(&student)
			if err == mongo.ErrNoDocuments {
				return ErrStudentNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to inspect student %s: %w", studentID, err)
			}
			return ErrInsufficientRides
		}

		remaining, err = r.currentRides(sc, studentID)
		return err
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return 0, err
	}
	return remaining, nil
}

// CancelRoundTrip reverses a booking's writes as one atomic unit.
func (r *MongoTxRepo) CancelRoundTrip(ctx context.Context, studentID string, booking models.Booking) (int, error) {
	var remaining int

	txnFn := func(sc mongo.SessionContext) error {
		// Removing the booking drives the refund; a repeated cancel matches
		// nothing and is rejected before any slot is touched.
		filter := bson.M{"id": studentID, "bookings.id": booking.ID}
		update := bson.M{
			"$pull": bson.M{"bookings": bson.M{"id": booking.ID}},
			"$inc":  bson.M{"remainingRides": models.RideCostPerBooking},
			"$set":  bson.M{"updatedAt": time.Now()},
		}
		res, err := r.studentColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("failed to refund student %s: %w", studentID, err)
		}
		if res.MatchedCount == 0 {
			return ErrBookingNotFound
		}

		if err := r.releaseSlot(sc, booking.GoSlotID, studentID); err != nil {
			return err
		}
		if err := r.releaseSlot(sc, booking.ReturnSlotID, studentID); err != nil {
			return err
		}

		remaining, err = r.currentRides(sc, studentID)
		return err
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return 0, err
	}
	return remaining, nil
}
