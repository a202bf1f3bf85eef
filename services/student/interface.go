package student

import (
	"context"

	planRepo "campusshuttle/database/repository/plan"
	studentRepo "campusshuttle/database/repository/student"
	"campusshuttle/models"
)

// Service defines account and plan-purchase operations for students.
type Service interface {
	// Register creates the account and signs the student in.
	Register(ctx context.Context, reg models.StudentRegistrationData) (*models.AuthResponse, error)
	// Authenticate verifies credentials and issues a session token.
	Authenticate(ctx context.Context, email, password string) (*models.AuthResponse, error)
	// RevokeToken invalidates the student's current session (logout).
	RevokeToken(ctx context.Context, studentID string) error
	GetByID(ctx context.Context, studentID string) (*models.Student, error)

	// ListPlans returns plans purchasable by the student.
	ListPlans(ctx context.Context, studentID string) ([]models.Plan, error)
	// StartPurchase creates a payment intent for the plan.
	StartPurchase(ctx context.Context, studentID, planID string) (*models.PurchaseIntent, error)
	// ConfirmPurchase credits the plan's rides after payment confirmation.
	ConfirmPurchase(ctx context.Context, studentID, planID string) (int, error)
}

// DefaultService is the production implementation.
type DefaultService struct {
	Repo  studentRepo.StudentRepository
	Plans planRepo.PlanRepository
}
