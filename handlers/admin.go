package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusshuttle/models"
	"campusshuttle/services/admin"
)

// AdminHandler exposes the admin query/mutation layer.
type AdminHandler struct {
	Service admin.Service
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(svc admin.Service) *AdminHandler {
	return &AdminHandler{Service: svc}
}

// GenerateSlotsHandler runs the daily generator for one location and date.
func (h *AdminHandler) GenerateSlotsHandler(c *gin.Context) {
	var input struct {
		Location string `json:"location" binding:"required"`
		Date     string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.Service.GenerateSlots(c.Request.Context(), input.Location, input.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "slots generated", "created": created})
}

// AutoGenerateNextHandler generates slots for the next operating day.
func (h *AdminHandler) AutoGenerateNextHandler(c *gin.Context) {
	var input struct {
		Location string `json:"location" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "details": err.Error()})
		return
	}

	date, created, err := h.Service.AutoGenerateNext(c.Request.Context(), input.Location)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "slots generated", "date": date, "created": created})
}

// ListSlotsHandler lists raw slot records for admins.
func (h *AdminHandler) ListSlotsHandler(c *gin.Context) {
	q := models.SlotQuery{
		Date:      c.Query("date"),
		Location:  c.Query("location"),
		Direction: c.Query("direction"),
	}

	slots, err := h.Service.ListSlots(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// UpdateSlotHandler applies a partial update to a slot.
func (h *AdminHandler) UpdateSlotHandler(c *gin.Context) {
	var upd models.SlotUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "details": err.Error()})
		return
	}

	slot, err := h.Service.UpdateSlot(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "slot updated", "slot": slot})
}

// DeleteSlotHandler removes an empty slot.
func (h *AdminHandler) DeleteSlotHandler(c *gin.Context) {
	if err := h.Service.DeleteSlot(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "slot deleted"})
}

// ListStudentsHandler lists all students.
func (h *AdminHandler) ListStudentsHandler(c *gin.Context) {
	students, err := h.Service.ListStudents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// AddRidesHandler manually credits rides to a student.
func (h *AdminHandler) AddRidesHandler(c *gin.Context) {
	var input struct {
		Rides int `json:"rides" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "details": err.Error()})
		return
	}

	remaining, err := h.Service.AddRides(c.Request.Context(), c.Param("id"), input.Rides)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rides added", "remainingRides": remaining})
}

// UsageStatsHandler reports per-direction seat usage for a date.
func (h *AdminHandler) UsageStatsHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "date is required"})
		return
	}

	stats, err := h.Service.UsageStats(c.Request.Context(), date, c.Query("location"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "stats": stats})
}

// ListPlansHandler lists the entire plan catalogue.
func (h *AdminHandler) ListPlansHandler(c *gin.Context) {
	plans, err := h.Service.ListPlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// CreatePlanHandler adds a plan to the catalogue.
func (h *AdminHandler) CreatePlanHandler(c *gin.Context) {
	var plan models.Plan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.Service.CreatePlan(c.Request.Context(), plan)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "plan created", "plan": created})
}

// UpdatePlanHandler replaces a plan's details.
func (h *AdminHandler) UpdatePlanHandler(c *gin.Context) {
	var plan models.Plan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "details": err.Error()})
		return
	}
	plan.ID = c.Param("id")

	updated, err := h.Service.UpdatePlan(c.Request.Context(), plan)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan updated", "plan": updated})
}

// DeletePlanHandler removes a plan from the catalogue.
func (h *AdminHandler) DeletePlanHandler(c *gin.Context) {
	if err := h.Service.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan deleted"})
}
