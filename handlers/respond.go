package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusshuttle/middleware"
	"campusshuttle/services/booking"
	"campusshuttle/utils"
)

// respondError maps a domain error onto an HTTP status with the rejection
// reason as the message. Anything else is an internal failure.
func respondError(c *gin.Context, err error) {
	var derr *booking.Error
	if errors.As(err, &derr) {
		status := http.StatusInternalServerError
		switch derr.Code {
		case booking.CodeNotFound:
			status = http.StatusNotFound
		case booking.CodeInvalidState:
			status = http.StatusBadRequest
		case booking.CodeUnauthorized:
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"message": derr.Message})
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
}

// authedStudentID pulls the student identity set by the auth middleware.
func authedStudentID(c *gin.Context) (string, bool) {
	val, exists := c.Get(middleware.ContextStudentID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return "", false
	}
	id, ok := val.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return "", false
	}
	return id, true
}
