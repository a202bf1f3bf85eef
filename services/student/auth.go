package student

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campusshuttle/models"
	"campusshuttle/services/booking"
	"campusshuttle/utils"
)

// Register creates the student account and signs them in. New accounts
// start with zero ride credits; rides arrive through plan purchase or an
// admin top-up.
func (s *DefaultService) Register(ctx context.Context, reg models.StudentRegistrationData) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(reg.Email))

	existing, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("registration lookup failed", zap.Error(err))
		return nil, booking.NewInternalError("registration failed, please try again")
	}
	if existing != nil {
		return nil, booking.NewInvalidStateError("a student with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("password hashing failed", zap.Error(err))
		return nil, booking.NewInternalError("registration failed, please try again")
	}

	rec := &models.Student{
		ID:           uuid.New().String(),
		Name:         reg.Name,
		Email:        email,
		PasswordHash: string(hash),
		PhoneNumber:  reg.PhoneNumber,
		Location:     reg.Location,
		Bookings:     []models.Booking{},
	}
	if err := s.Repo.Create(rec); err != nil {
		utils.GetLogger().Error("student creation failed", zap.Error(err))
		return nil, booking.NewInternalError("registration failed, please try again")
	}

	return s.issueToken(rec)
}

// Authenticate verifies credentials and issues a fresh session token,
// invalidating any previous session.
func (s *DefaultService) Authenticate(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	rec, err := s.Repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		utils.GetLogger().Error("authentication lookup failed", zap.Error(err))
		return nil, booking.NewInternalError("authentication failed, please try again")
	}
	if rec == nil {
		return nil, &booking.Error{Code: booking.CodeUnauthorized, Message: "invalid email or password"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, &booking.Error{Code: booking.CodeUnauthorized, Message: "invalid email or password"}
	}

	return s.issueToken(rec)
}

// RevokeToken clears the stored token hash, invalidating the session.
func (s *DefaultService) RevokeToken(ctx context.Context, studentID string) error {
	if err := s.Repo.UpdateTokenHash(studentID, ""); err != nil {
		utils.GetLogger().Error("token revocation failed", zap.String("studentID", studentID), zap.Error(err))
		return booking.NewInternalError("logout failed, please try again")
	}
	// Drop the cached auth entry so the old token dies immediately.
	utils.GetCacheClient().Del(ctx, utils.AuthCachePrefix+studentID)
	return nil
}

// GetByID returns the student's safe profile view.
func (s *DefaultService) GetByID(ctx context.Context, studentID string) (*models.Student, error) {
	rec, err := s.Repo.GetByID(studentID)
	if err != nil {
		utils.GetLogger().Error("profile fetch failed", zap.String("studentID", studentID), zap.Error(err))
		return nil, booking.NewInternalError("failed to fetch profile")
	}
	if rec == nil {
		return nil, booking.NewNotFoundError("student not found")
	}
	return rec, nil
}

// issueToken signs a JWT, persists its hash and builds the auth response.
func (s *DefaultService) issueToken(rec *models.Student) (*models.AuthResponse, error) {
	token, err := utils.GenerateToken(rec.ID, rec.Email, utils.AuthTokenTTL)
	if err != nil {
		utils.GetLogger().Error("token generation failed", zap.Error(err))
		return nil, booking.NewInternalError("authentication failed, please try again")
	}
	if err := s.Repo.UpdateTokenHash(rec.ID, utils.HashToken(token)); err != nil {
		utils.GetLogger().Error("token persistence failed", zap.Error(err))
		return nil, booking.NewInternalError("authentication failed, please try again")
	}

	return &models.AuthResponse{
		ID:             rec.ID,
		Name:           rec.Name,
		Email:          rec.Email,
		Token:          token,
		RemainingRides: rec.RemainingRides,
	}, nil
}
