package booking

import (
	"context"

	"go.uber.org/zap"

	"campusshuttle/models"
	"campusshuttle/utils"
)

// ListSlots returns slots matching the query with availability computed
// relative to the calling student.
func (e *DefaultEngine) ListSlots(ctx context.Context, studentID string, q models.SlotQuery) ([]models.SlotResponse, error) {
	slots, err := e.Slots.Query(ctx, q)
	if err != nil {
		utils.GetLogger().Error("failed to list slots", zap.String("studentID", studentID), zap.Error(err))
		return nil, NewInternalError("failed to list slots")
	}

	out := make([]models.SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, slots[i].ToResponse(studentID))
	}
	return out, nil
}

// ListBookings returns the student's ride balance and booking summaries,
// each joined with the current state of its two slots.
func (e *DefaultEngine) ListBookings(ctx context.Context, studentID string) (*models.BookingList, error) {
	student, err := e.Students.GetByID(studentID)
	if err != nil {
		utils.GetLogger().Error("failed to fetch student", zap.String("studentID", studentID), zap.Error(err))
		return nil, NewInternalError("failed to list bookings")
	}
	if student == nil {
		return nil, NewNotFoundError("student not found")
	}

	ids := make([]string, 0, len(student.Bookings)*2)
	for _, b := range student.Bookings {
		ids = append(ids, b.GoSlotID, b.ReturnSlotID)
	}

	slotsByID := make(map[string]models.Slot)
	if len(ids) > 0 {
		slots, err := e.Slots.GetByIDs(ctx, ids)
		if err != nil {
			utils.GetLogger().Error("failed to fetch booked slots", zap.String("studentID", studentID), zap.Error(err))
			return nil, NewInternalError("failed to list bookings")
		}
		for _, s := range slots {
			slotsByID[s.ID] = s
		}
	}

	summaries := make([]models.BookingSummary, 0, len(student.Bookings))
	for _, b := range student.Bookings {
		goSlot := slotsByID[b.GoSlotID]
		returnSlot := slotsByID[b.ReturnSlotID]
		summaries = append(summaries, models.BookingSummary{
			ID:         b.ID,
			Date:       b.Date,
			GoSlot:     goSlot.ToResponse(studentID),
			ReturnSlot: returnSlot.ToResponse(studentID),
			CreatedAt:  b.CreatedAt,
		})
	}

	return &models.BookingList{
		RemainingRides: student.RemainingRides,
		Bookings:       summaries,
	}, nil
}
