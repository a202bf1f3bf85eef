package admin

import (
	"context"

	planRepo "campusshuttle/database/repository/plan"
	slotRepo "campusshuttle/database/repository/slot"
	studentRepo "campusshuttle/database/repository/student"
	"campusshuttle/models"
	slotSvc "campusshuttle/services/slot"
)

// Service is the admin query/mutation layer over the slot store, the
// student ledger and the plan catalogue. It is a thin consumer of the
// booking core's storage, never of slot occupancy directly.
type Service interface {
	ListSlots(ctx context.Context, q models.SlotQuery) ([]models.Slot, error)
	UpdateSlot(ctx context.Context, id string, upd models.SlotUpdate) (*models.Slot, error)
	DeleteSlot(ctx context.Context, id string) error
	GenerateSlots(ctx context.Context, location, date string) (int, error)
	// AutoGenerateNext generates the timetable for the next operating day.
	// Returns the generated date.
	AutoGenerateNext(ctx context.Context, location string) (string, int, error)

	ListStudents(ctx context.Context) ([]models.Student, error)
	AddRides(ctx context.Context, studentID string, rides int) (int, error)

	UsageStats(ctx context.Context, date, location string) ([]models.UsageStat, error)

	ListPlans(ctx context.Context) ([]models.Plan, error)
	CreatePlan(ctx context.Context, plan models.Plan) (*models.Plan, error)
	UpdatePlan(ctx context.Context, plan models.Plan) (*models.Plan, error)
	DeletePlan(ctx context.Context, id string) error
}

// DefaultService is the production implementation.
type DefaultService struct {
	Slots     slotRepo.SlotRepository
	Students  studentRepo.StudentRepository
	Plans     planRepo.PlanRepository
	Generator slotSvc.Service
}
