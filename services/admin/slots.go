package admin

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	slotRepo "campusshuttle/database/repository/slot"
	"campusshuttle/models"
	"campusshuttle/services/booking"
	slotSvc "campusshuttle/services/slot"
	"campusshuttle/utils"
)

// timeNow is the clock, overridable in tests.
var timeNow = time.Now

// ListSlots returns raw slot records, occupant lists included.
func (s *DefaultService) ListSlots(ctx context.Context, q models.SlotQuery) ([]models.Slot, error) {
	slots, err := s.Slots.Query(ctx, q)
	if err != nil {
		utils.GetLogger().Error("admin slot listing failed", zap.Error(err))
		return nil, booking.NewInternalError("failed to list slots")
	}
	return slots, nil
}

// UpdateSlot applies a partial update. Capacity can never be shrunk below
// the current occupant count; the repository enforces the guard atomically.
func (s *DefaultService) UpdateSlot(ctx context.Context, id string, upd models.SlotUpdate) (*models.Slot, error) {
	if upd.Capacity != nil && *upd.Capacity < 1 {
		return nil, booking.NewInvalidStateError("capacity must be at least 1")
	}

	slot, err := s.Slots.UpdateFields(ctx, id, upd)
	switch {
	case errors.Is(err, slotRepo.ErrNotFound):
		return nil, booking.NewNotFoundError("slot not found")
	case errors.Is(err, slotRepo.ErrCapacityBelowOccupancy):
		return nil, booking.NewInvalidStateError("capacity below current occupancy")
	case err != nil:
		utils.GetLogger().Error("admin slot update failed", zap.String("slotID", id), zap.Error(err))
		return nil, booking.NewInternalError("failed to update slot")
	}
	return slot, nil
}

// DeleteSlot removes an empty slot; occupied slots are rejected.
func (s *DefaultService) DeleteSlot(ctx context.Context, id string) error {
	err := s.Slots.Delete(ctx, id)
	switch {
	case errors.Is(err, slotRepo.ErrNotFound):
		return booking.NewNotFoundError("slot not found")
	case errors.Is(err, slotRepo.ErrHasBookings):
		return booking.NewInvalidStateError("slot has active bookings")
	case err != nil:
		utils.GetLogger().Error("admin slot delete failed", zap.String("slotID", id), zap.Error(err))
		return booking.NewInternalError("failed to delete slot")
	}
	return nil
}

// GenerateSlots runs the daily generator for one location and date.
func (s *DefaultService) GenerateSlots(ctx context.Context, location, date string) (int, error) {
	created, err := s.Generator.GenerateDailySlots(ctx, location, date)
	if err != nil {
		utils.GetLogger().Error("admin slot generation failed",
			zap.String("location", location), zap.String("date", date), zap.Error(err))
		return created, booking.NewInternalError("slot generation failed")
	}
	return created, nil
}

// AutoGenerateNext generates the timetable for the next operating day,
// skipping over non-operating weekdays.
func (s *DefaultService) AutoGenerateNext(ctx context.Context, location string) (string, int, error) {
	date := s.Generator.NextOperatingDay(timeNow()).Format(slotSvc.DateLayout)
	created, err := s.GenerateSlots(ctx, location, date)
	if err != nil {
		return date, created, err
	}
	return date, created, nil
}

// UsageStats aggregates per-direction seat usage for one date.
func (s *DefaultService) UsageStats(ctx context.Context, date, location string) ([]models.UsageStat, error) {
	stats, err := s.Slots.UsageByDate(ctx, date, location)
	if err != nil {
		utils.GetLogger().Error("usage stats failed", zap.String("date", date), zap.Error(err))
		return nil, booking.NewInternalError("failed to compute usage stats")
	}
	return stats, nil
}
