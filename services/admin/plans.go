package admin

import (
	"context"
	"errors"

	"go.uber.org/zap"

	planRepo "campusshuttle/database/repository/plan"
	"campusshuttle/models"
	"campusshuttle/services/booking"
	"campusshuttle/utils"
)

// ListPlans returns the full plan catalogue.
func (s *DefaultService) ListPlans(ctx context.Context) ([]models.Plan, error) {
	plans, err := s.Plans.GetAll("")
	if err != nil {
		utils.GetLogger().Error("admin plan listing failed", zap.Error(err))
		return nil, booking.NewInternalError("failed to list plans")
	}
	return plans, nil
}

// CreatePlan adds a new ride bundle to the catalogue.
func (s *DefaultService) CreatePlan(ctx context.Context, plan models.Plan) (*models.Plan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	if err := s.Plans.Create(&plan); err != nil {
		utils.GetLogger().Error("plan creation failed", zap.Error(err))
		return nil, booking.NewInternalError("failed to create plan")
	}
	return &plan, nil
}

// UpdatePlan replaces an existing plan's details.
func (s *DefaultService) UpdatePlan(ctx context.Context, plan models.Plan) (*models.Plan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	err := s.Plans.Update(&plan)
	switch {
	case errors.Is(err, planRepo.ErrNotFound):
		return nil, booking.NewNotFoundError("plan not found")
	case err != nil:
		utils.GetLogger().Error("plan update failed", zap.String("planID", plan.ID), zap.Error(err))
		return nil, booking.NewInternalError("failed to update plan")
	}
	return &plan, nil
}

// DeletePlan removes a plan from the catalogue.
func (s *DefaultService) DeletePlan(ctx context.Context, id string) error {
	err := s.Plans.Delete(id)
	switch {
	case errors.Is(err, planRepo.ErrNotFound):
		return booking.NewNotFoundError("plan not found")
	case err != nil:
		utils.GetLogger().Error("plan delete failed", zap.String("planID", id), zap.Error(err))
		return booking.NewInternalError("failed to delete plan")
	}
	return nil
}

func validatePlan(plan models.Plan) error {
	if plan.Name == "" {
		return booking.NewInvalidStateError("plan name is required")
	}
	if plan.Rides <= 0 {
		return booking.NewInvalidStateError("plan rides must be a positive integer")
	}
	if plan.Price < 0 {
		return booking.NewInvalidStateError("plan price cannot be negative")
	}
	return nil
}
