package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusshuttle/models"
	"campusshuttle/services/booking"
)

// BookingHandler exposes the booking engine over HTTP.
type BookingHandler struct {
	Engine booking.Engine
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(engine booking.Engine) *BookingHandler {
	return &BookingHandler{Engine: engine}
}

// BookHandler reserves a round trip for the authenticated student.
func (h *BookingHandler) BookHandler(c *gin.Context) {
	studentID, ok := authedStudentID(c)
	if !ok {
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Engine.Book(c.Request.Context(), studentID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "booking confirmed",
		"remainingRides": result.RemainingRides,
		"booking":        result.Booking,
	})
}

// CancelHandler releases one of the student's bookings.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	studentID, ok := authedStudentID(c)
	if !ok {
		return
	}

	remaining, err := h.Engine.Cancel(c.Request.Context(), studentID, c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "booking cancelled",
		"remainingRides": remaining,
	})
}

// ListSlotsHandler lists slots with availability relative to the student.
func (h *BookingHandler) ListSlotsHandler(c *gin.Context) {
	studentID, ok := authedStudentID(c)
	if !ok {
		return
	}

	q := models.SlotQuery{
		Date:      c.Query("date"),
		Location:  c.Query("location"),
		Direction: c.Query("direction"),
	}

	slots, err := h.Engine.ListSlots(c.Request.Context(), studentID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// ListBookingsHandler returns the student's ride balance and bookings.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	studentID, ok := authedStudentID(c)
	if !ok {
		return
	}

	list, err := h.Engine.ListBookings(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
