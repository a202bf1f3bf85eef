package student

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	studentRepo "campusshuttle/database/repository/student"
	"campusshuttle/models"
	"campusshuttle/services/booking"
	"campusshuttle/utils"
)

// ListPlans returns plans visible to the student, scoped by their location
// when one is set.
func (s *DefaultService) ListPlans(ctx context.Context, studentID string) ([]models.Plan, error) {
	rec, err := s.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	plans, err := s.Plans.GetAll(rec.Location)
	if err != nil {
		utils.GetLogger().Error("plan listing failed", zap.String("studentID", studentID), zap.Error(err))
		return nil, booking.NewInternalError("failed to list plans")
	}
	return plans, nil
}

// StartPurchase creates a Stripe payment intent for the plan's price.
func (s *DefaultService) StartPurchase(ctx context.Context, studentID, planID string) (*models.PurchaseIntent, error) {
	if _, err := s.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	plan, err := s.Plans.GetByID(planID)
	if err != nil {
		utils.GetLogger().Error("plan fetch failed", zap.String("planID", planID), zap.Error(err))
		return nil, booking.NewInternalError("purchase failed, please try again")
	}
	if plan == nil {
		return nil, booking.NewNotFoundError("plan not found")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(plan.Price * 100)),
		Currency: stripe.String(string(stripe.CurrencyINR)),
	}
	params.AddMetadata("studentId", studentID)
	params.AddMetadata("planId", plan.ID)

	pi, err := paymentintent.New(params)
	if err != nil {
		utils.GetLogger().Error("payment intent creation failed",
			zap.String("studentID", studentID), zap.String("planID", planID), zap.Error(err))
		return nil, booking.NewInternalError("payment initiation failed")
	}

	return &models.PurchaseIntent{
		PlanID:       plan.ID,
		Amount:       plan.Price,
		Currency:     string(stripe.CurrencyINR),
		IntentID:     pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

// ConfirmPurchase credits the plan's rides to the student.
//
// TODO: verify the payment intent status with Stripe before crediting once
// the webhook endpoint lands; for now the client's confirmation is trusted,
// matching the placeholder payment flow.
func (s *DefaultService) ConfirmPurchase(ctx context.Context, studentID, planID string) (int, error) {
	plan, err := s.Plans.GetByID(planID)
	if err != nil {
		utils.GetLogger().Error("plan fetch failed", zap.String("planID", planID), zap.Error(err))
		return 0, booking.NewInternalError("purchase confirmation failed")
	}
	if plan == nil {
		return 0, booking.NewNotFoundError("plan not found")
	}

	remaining, err := s.Repo.AddRides(studentID, plan.Rides)
	switch {
	case errors.Is(err, studentRepo.ErrNotFound):
		return 0, booking.NewNotFoundError("student not found")
	case err != nil:
		utils.GetLogger().Error("ride crediting failed",
			zap.String("studentID", studentID), zap.String("planID", planID), zap.Error(err))
		return 0, booking.NewInternalError("purchase confirmation failed")
	}

	utils.GetLogger().Info("plan purchase confirmed",
		zap.String("studentID", studentID),
		zap.String("planID", planID),
		zap.Int("ridesAdded", plan.Rides),
		zap.Int("remainingRides", remaining),
	)
	return remaining, nil
}
