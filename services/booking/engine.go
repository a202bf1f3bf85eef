package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "campusshuttle/database/repository/booking"
	"campusshuttle/models"
	"campusshuttle/utils"
)

// Book validates the request and performs the booking as one atomic unit.
// Preconditions are checked in order so every rejection carries a distinct
// reason; the transactional repository re-verifies capacity and balance
// under the transaction, which closes the check-then-act race against
// concurrent bookers.
func (e *DefaultEngine) Book(ctx context.Context, studentID string, req models.BookingRequest) (*models.BookingResult, error) {
	logger := utils.GetLogger().With(
		zap.String("op", "book"),
		zap.String("studentID", studentID),
		zap.String("goSlotID", req.GoSlotID),
		zap.String("returnSlotID", req.ReturnSlotID),
	)

	student, err := e.Students.GetByID(studentID)
	if err != nil {
		logger.Error("failed to fetch student", zap.Error(err))
		return nil, NewInternalError("booking failed, please try again")
	}
	if student == nil {
		return nil, NewNotFoundError("student not found")
	}
	if student.RemainingRides < models.RideCostPerBooking {
		return nil, NewInvalidStateError("insufficient rides")
	}

	goSlot, returnSlot, err := e.fetchPair(ctx, req.GoSlotID, req.ReturnSlotID)
	if err != nil {
		return nil, err
	}
	if goSlot.IsFull() || returnSlot.IsFull() {
		return nil, NewInvalidStateError("slot full")
	}
	if goSlot.HasStudent(studentID) || returnSlot.HasStudent(studentID) {
		return nil, NewInvalidStateError("already booked on this slot")
	}

	booking := models.Booking{
		ID:           uuid.New().String(),
		Date:         req.Date,
		GoSlotID:     req.GoSlotID,
		ReturnSlotID: req.ReturnSlotID,
		CreatedAt:    e.now(),
	}

	remaining, err := e.Tx.BookRoundTrip(ctx, studentID, booking)
	if err != nil {
		return nil, e.mapTxError(logger, err)
	}

	// Re-read for the response so seat counts reflect this booking.
	goSlot, returnSlot, err = e.fetchPair(ctx, req.GoSlotID, req.ReturnSlotID)
	if err != nil {
		return nil, err
	}

	logger.Info("booking confirmed",
		zap.String("bookingID", booking.ID),
		zap.Int("remainingRides", remaining),
	)

	return &models.BookingResult{
		RemainingRides: remaining,
		Booking: models.BookingSummary{
			ID:         booking.ID,
			Date:       booking.Date,
			GoSlot:     goSlot.ToResponse(studentID),
			ReturnSlot: returnSlot.ToResponse(studentID),
			CreatedAt:  booking.CreatedAt,
		},
	}, nil
}

// Cancel releases the booking after the cutoff check and refunds the rides.
func (e *DefaultEngine) Cancel(ctx context.Context, studentID, bookingID string) (int, error) {
	logger := utils.GetLogger().With(
		zap.String("op", "cancel"),
		zap.String("studentID", studentID),
		zap.String("bookingID", bookingID),
	)

	student, err := e.Students.GetByID(studentID)
	if err != nil {
		logger.Error("failed to fetch student", zap.Error(err))
		return 0, NewInternalError("cancellation failed, please try again")
	}
	if student == nil {
		return 0, NewNotFoundError("student not found")
	}

	booking := student.FindBooking(bookingID)
	if booking == nil {
		return 0, NewNotFoundError("booking not found")
	}

	if err := e.checkCutoff(ctx, booking); err != nil {
		return 0, err
	}

	remaining, err := e.Tx.CancelRoundTrip(ctx, studentID, *booking)
	if err != nil {
		return 0, e.mapTxError(logger, err)
	}

	logger.Info("booking cancelled", zap.Int("remainingRides", remaining))
	return remaining, nil
}

// checkCutoff rejects cancellations inside the cutoff window before the
// outbound departure.
func (e *DefaultEngine) checkCutoff(ctx context.Context, booking *models.Booking) error {
	if e.CancelCutoff <= 0 {
		return nil
	}

	goSlot, err := e.Slots.GetByID(ctx, booking.GoSlotID)
	if err != nil {
		utils.GetLogger().Error("failed to fetch outbound slot for cutoff check", zap.Error(err))
		return NewInternalError("cancellation failed, please try again")
	}
	if goSlot == nil {
		// Slot deleted out from under the booking; let the refund proceed.
		return nil
	}

	departure, err := goSlot.DepartureTime(e.timezone())
	if err != nil {
		return nil
	}
	if e.now().Add(e.CancelCutoff).After(departure) {
		return NewInvalidStateError("cancellation window closed")
	}
	return nil
}

func (e *DefaultEngine) fetchPair(ctx context.Context, goSlotID, returnSlotID string) (*models.Slot, *models.Slot, error) {
	goSlot, err := e.Slots.GetByID(ctx, goSlotID)
	if err != nil {
		utils.GetLogger().Error("failed to fetch slot", zap.String("slotID", goSlotID), zap.Error(err))
		return nil, nil, NewInternalError("booking failed, please try again")
	}
	if goSlot == nil {
		return nil, nil, NewNotFoundError("outbound slot not found")
	}

	returnSlot, err := e.Slots.GetByID(ctx, returnSlotID)
	if err != nil {
		utils.GetLogger().Error("failed to fetch slot", zap.String("slotID", returnSlotID), zap.Error(err))
		return nil, nil, NewInternalError("booking failed, please try again")
	}
	if returnSlot == nil {
		return nil, nil, NewNotFoundError("return slot not found")
	}
	return goSlot, returnSlot, nil
}

// mapTxError converts transactional sentinel errors into user-facing
// rejections. Guard failures surface here when a concurrent booker won the
// last seat between the precondition read and the transaction.
func (e *DefaultEngine) mapTxError(logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrStudentNotFound):
		return NewNotFoundError("student not found")
	case errors.Is(err, bookingRepo.ErrSlotNotFound):
		return NewNotFoundError("slot not found")
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		return NewNotFoundError("booking not found")
	case errors.Is(err, bookingRepo.ErrSlotFull):
		return NewInvalidStateError("slot full")
	case errors.Is(err, bookingRepo.ErrAlreadyBooked):
		return NewInvalidStateError("already booked on this slot")
	case errors.Is(err, bookingRepo.ErrInsufficientRides):
		return NewInvalidStateError("insufficient rides")
	default:
		logger.Error("booking transaction failed", zap.Error(err))
		return NewInternalError("booking failed, please try again")
	}
}
