package admin

import (
	"context"
	"errors"

	"go.uber.org/zap"

	studentRepo "campusshuttle/database/repository/student"
	"campusshuttle/services/booking"
	"campusshuttle/utils"

	"campusshuttle/models"
)

// ListStudents returns all students (safe view).
func (s *DefaultService) ListStudents(ctx context.Context) ([]models.Student, error) {
	students, err := s.Students.GetAll()
	if err != nil {
		utils.GetLogger().Error("admin student listing failed", zap.Error(err))
		return nil, booking.NewInternalError("failed to list students")
	}
	return students, nil
}

// AddRides manually tops up a student's ride-credit balance. The count must
// be a positive integer; negative adjustments go through the booking engine
// or a dedicated revocation flow, never this endpoint.
func (s *DefaultService) AddRides(ctx context.Context, studentID string, rides int) (int, error) {
	if rides <= 0 {
		return 0, booking.NewInvalidStateError("rides must be a positive integer")
	}

	remaining, err := s.Students.AddRides(studentID, rides)
	switch {
	case errors.Is(err, studentRepo.ErrNotFound):
		return 0, booking.NewNotFoundError("student not found")
	case err != nil:
		utils.GetLogger().Error("admin add rides failed",
			zap.String("studentID", studentID), zap.Int("rides", rides), zap.Error(err))
		return 0, booking.NewInternalError("failed to add rides")
	}

	utils.GetLogger().Info("rides credited",
		zap.String("studentID", studentID),
		zap.Int("rides", rides),
		zap.Int("remainingRides", remaining),
	)
	return remaining, nil
}
