package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusshuttle/models"
	"campusshuttle/services/student"
)

// StudentHandler exposes account endpoints.
type StudentHandler struct {
	Service student.Service
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(svc student.Service) *StudentHandler {
	return &StudentHandler{Service: svc}
}

// RegisterHandler creates a new student account.
func (h *StudentHandler) RegisterHandler(c *gin.Context) {
	var reg models.StudentRegistrationData
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Service.Register(c.Request.Context(), reg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler authenticates a student and returns a session token.
func (h *StudentHandler) LoginHandler(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Service.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProfileHandler returns the authenticated student's profile.
func (h *StudentHandler) ProfileHandler(c *gin.Context) {
	studentID, ok := authedStudentID(c)
	if !ok {
		return
	}

	rec, err := h.Service.GetByID(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// LogoutHandler revokes the current session token.
func (h *StudentHandler) LogoutHandler(c *gin.Context) {
	studentID, ok := authedStudentID(c)
	if !ok {
		return
	}

	if err := h.Service.RevokeToken(c.Request.Context(), studentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// ListPlansHandler lists plans purchasable by the student.
func (h *StudentHandler) ListPlansHandler(c *gin.Context) {
	studentID, ok := authedStudentID(c)
	if !ok {
		return
	}

	plans, err := h.Service.ListPlans(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// StartPurchaseHandler begins a plan purchase.
func (h *StudentHandler) StartPurchaseHandler(c *gin.Context) {
	studentID, ok := authedStudentID(c)
	if !ok {
		return
	}

	intent, err := h.Service.StartPurchase(c.Request.Context(), studentID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

// ConfirmPurchaseHandler credits the plan's rides after payment.
func (h *StudentHandler) ConfirmPurchaseHandler(c *gin.Context) {
	studentID, ok := authedStudentID(c)
	if !ok {
		return
	}

	remaining, err := h.Service.ConfirmPurchase(c.Request.Context(), studentID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "purchase confirmed", "remainingRides": remaining})
}
