package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	studentRepo "campusshuttle/database/repository/student"
	"campusshuttle/handlers"
	"campusshuttle/middleware"
	"campusshuttle/utils"
)

// HandlerBundle groups the handlers and the repositories middleware needs.
type HandlerBundle struct {
	StudentRepo studentRepo.StudentRepository

	Student *handlers.StudentHandler
	Booking *handlers.BookingHandler
	Admin   *handlers.AdminHandler
}

// RegisterStudentRoutes registers student account and booking endpoints.
func RegisterStudentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/students")
	{
		api.POST("/register", hb.Student.RegisterHandler)
		api.POST("/login", hb.Student.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthStudentMiddleware(hb.StudentRepo))
		api.GET("/me", hb.Student.ProfileHandler)
		api.POST("/logout", hb.Student.LogoutHandler)

		api.GET("/slots", hb.Booking.ListSlotsHandler)
		api.POST("/book", hb.Booking.BookHandler)
		api.GET("/bookings", hb.Booking.ListBookingsHandler)
		api.DELETE("/bookings/:bookingId", hb.Booking.CancelHandler)

		api.GET("/plans", hb.Student.ListPlansHandler)
		api.POST("/plans/:id/purchase", hb.Student.StartPurchaseHandler)
		api.POST("/plans/:id/confirm", hb.Student.ConfirmPurchaseHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware())

		adminGroup.POST("/generate-slots", hb.Admin.GenerateSlotsHandler)
		adminGroup.POST("/auto-generate-next", hb.Admin.AutoGenerateNextHandler)
		adminGroup.GET("/slots", hb.Admin.ListSlotsHandler)
		adminGroup.PUT("/slots/:id", hb.Admin.UpdateSlotHandler)
		adminGroup.DELETE("/slots/:id", hb.Admin.DeleteSlotHandler)

		adminGroup.GET("/students", hb.Admin.ListStudentsHandler)
		adminGroup.POST("/students/:id/add-rides", hb.Admin.AddRidesHandler)
		adminGroup.GET("/stats", hb.Admin.UsageStatsHandler)

		adminGroup.GET("/plans", hb.Admin.ListPlansHandler)
		adminGroup.POST("/plans", hb.Admin.CreatePlanHandler)
		adminGroup.PUT("/plans/:id", hb.Admin.UpdatePlanHandler)
		adminGroup.DELETE("/plans/:id", hb.Admin.DeletePlanHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterStudentRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
