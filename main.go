package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"

	"campusshuttle/config"
	"campusshuttle/cron"
	"campusshuttle/database"
	bookingRepo "campusshuttle/database/repository/booking"
	planRepo "campusshuttle/database/repository/plan"
	slotRepo "campusshuttle/database/repository/slot"
	studentRepo "campusshuttle/database/repository/student"
	"campusshuttle/handlers"
	"campusshuttle/middleware"
	"campusshuttle/routes"
	"campusshuttle/services/admin"
	"campusshuttle/services/booking"
	slotSvc "campusshuttle/services/slot"
	"campusshuttle/services/student"
	"campusshuttle/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	slots := slotRepo.NewMongoSlotRepo()
	students := studentRepo.NewMongoStudentRepo()
	plans := planRepo.NewMongoPlanRepo()
	bookingTx := bookingRepo.NewMongoTxRepo()

	// services.
	timezone := config.ShuttleTimezone()
	generator := &slotSvc.DefaultService{
		Repo:            slots,
		Locations:       config.LocationList(),
		MorningTimes:    config.MorningTimeList(),
		AfternoonTimes:  config.AfternoonTimeList(),
		DefaultCapacity: config.AppConfig.DefaultSlotCapacity,
		NonOperating:    config.NonOperatingWeekdays(),
		Timezone:        timezone,
	}

	bookingEngine := &booking.DefaultEngine{
		Slots:        slots,
		Students:     students,
		Tx:           bookingTx,
		CancelCutoff: time.Duration(config.AppConfig.CancelCutoffMinutes) * time.Minute,
		Timezone:     timezone,
	}

	studentService := &student.DefaultService{
		Repo:  students,
		Plans: plans,
	}

	adminService := &admin.DefaultService{
		Slots:     slots,
		Students:  students,
		Plans:     plans,
		Generator: generator,
	}

	// Background worker: daily slot generation for the next operating day.
	cron.InitSlotWorker(generator)
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Assemble the handler bundle and register routes.
	hb := &routes.HandlerBundle{
		StudentRepo: students,
		Student:     handlers.NewStudentHandler(studentService),
		Booking:     handlers.NewBookingHandler(bookingEngine),
		Admin:       handlers.NewAdminHandler(adminService),
	}
	routes.RegisterRoutes(router, hb)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
