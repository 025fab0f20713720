package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petties/config"
	"petties/cron"
	"petties/database"
	bookingRepoPkg "petties/database/repository/booking"
	catalogRepoPkg "petties/database/repository/catalog"
	clinicRepoPkg "petties/database/repository/clinic"
	shiftRepoPkg "petties/database/repository/shift"
	staffRepoPkg "petties/database/repository/staff"
	"petties/handlers"
	"petties/middleware"
	"petties/routes"
	"petties/services/booking"
	"petties/services/notification"
	"petties/services/shift"
	"petties/services/sos"
	"petties/services/tasks"
	"petties/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	clinicRepo := clinicRepoPkg.NewMongoClinicRepo()
	staffRepo := staffRepoPkg.NewMongoStaffRepo()
	shiftRepo := shiftRepoPkg.NewMongoShiftRepo()
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()

	// services.
	notificationService := notification.NewDefaultNotificationService()
	reminderScheduler := tasks.NewScheduler()
	defer reminderScheduler.Close()

	resolver := &booking.AvailabilityResolver{
		StaffRepo:   staffRepo,
		ShiftRepo:   shiftRepo,
		BookingRepo: bookingRepo,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:      bookingRepo,
		Catalog:   catalogRepo,
		ShiftRepo: shiftRepo,
		Resolver:  resolver,
		Notifier:  notificationService,
		Reminders: reminderScheduler,
		Cache:     booking.NewRedisBookingCache(utils.GetCacheClient()),
	}

	shiftService := &shift.DefaultShiftService{
		Repo: shiftRepo,
	}

	sosBroadcaster := sos.NewRedisBroadcaster(utils.GetSosCacheClient())
	sosCoordinator := sos.NewCoordinator(
		bookingRepo,
		clinicRepo,
		staffRepo,
		shiftRepo,
		sosBroadcaster,
		notificationService,
		sos.NewGoogleDistanceEstimator(),
		utils.GetSosCacheClient(),
		time.Duration(config.AppConfig.SosOfferTimeoutSec)*time.Second,
		config.AppConfig.SosRadiusKm,
		config.AppConfig.SosMaxCandidates,
		config.AppConfig.SosHotline,
	)

	// Background reminder worker.
	go cron.InitReminderWorker(notificationService)

	bookingHandler := &handlers.BookingHandler{Service: bookingService}
	shiftHandler := &handlers.ShiftHandler{Service: shiftService}
	sosHandler := &handlers.SosHandler{Service: sosCoordinator, Broadcaster: sosBroadcaster}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CreateBookingHandler:     bookingHandler.CreateBookingHandler,
		GetBookingHandler:        bookingHandler.GetBookingHandler,
		CheckAvailabilityHandler: bookingHandler.CheckAvailabilityHandler,
		ConfirmBookingHandler:    bookingHandler.ConfirmBookingHandler,
		UpdateProgressHandler:    bookingHandler.UpdateProgressHandler,
		CheckInHandler:           bookingHandler.CheckInHandler,
		CheckoutHandler:          bookingHandler.CheckoutHandler,
		CancelBookingHandler:     bookingHandler.CancelBookingHandler,

		CreateShiftsHandler:  shiftHandler.CreateShiftsHandler,
		UpdateShiftHandler:   shiftHandler.UpdateShiftHandler,
		GetShiftSlotsHandler: shiftHandler.GetShiftSlotsHandler,

		PlaceSosRequestHandler: sosHandler.PlaceSosRequestHandler,
		AcceptSosHandler:       sosHandler.AcceptSosHandler,
		DeclineSosHandler:      sosHandler.DeclineSosHandler,
		CancelSosHandler:       sosHandler.CancelSosHandler,
		GetSosSessionHandler:   sosHandler.GetSosSessionHandler,
		GetSosEventsHandler:    sosHandler.GetSosEventsHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

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
