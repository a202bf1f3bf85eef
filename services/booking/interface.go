package booking

import (
	"context"
	"time"

	bookingRepo "campusshuttle/database/repository/booking"
	slotRepo "campusshuttle/database/repository/slot"
	studentRepo "campusshuttle/database/repository/student"
	"campusshuttle/models"
)

// Engine is the slot booking core: the only writer of slot occupancy and
// the student ride ledger outside the admin adjustment layer.
type Engine interface {
	// Book reserves a round trip (outbound + return slot) for the student
	// and debits the ride cost atomically.
	Book(ctx context.Context, studentID string, req models.BookingRequest) (*models.BookingResult, error)
	// Cancel releases a booked round trip and refunds the ride cost.
	Cancel(ctx context.Context, studentID, bookingID string) (int, error)
	// ListSlots returns slots matching the query with availability fields
	// computed relative to the calling student.
	ListSlots(ctx context.Context, studentID string, q models.SlotQuery) ([]models.SlotResponse, error)
	// ListBookings returns the student's ride balance and booking summaries.
	ListBookings(ctx context.Context, studentID string) (*models.BookingList, error)
}

// DefaultEngine is the production implementation.
type DefaultEngine struct {
	Slots    slotRepo.SlotRepository
	Students studentRepo.StudentRepository
	Tx       bookingRepo.TxRepository

	// CancelCutoff rejects cancellations closer than this to the outbound
	// departure. Zero disables the check.
	CancelCutoff time.Duration
	// Timezone the slot timetable is expressed in.
	Timezone *time.Location
	// Now is the clock, overridable in tests.
	Now func() time.Time
}

func (e *DefaultEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *DefaultEngine) timezone() *time.Location {
	if e.Timezone != nil {
		return e.Timezone
	}
	return time.Local
}
