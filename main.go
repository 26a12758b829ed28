package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sportzone/config"
	"sportzone/cron"
	"sportzone/database"
	bookingRepoPkg "sportzone/database/repository/booking"
	ledgerRepoPkg "sportzone/database/repository/ledger"
	paymentRepoPkg "sportzone/database/repository/payment"
	userRepoPkg "sportzone/database/repository/user"
	venueRepoPkg "sportzone/database/repository/venue"
	walletRepoPkg "sportzone/database/repository/wallet"
	"sportzone/handlers"
	"sportzone/middleware"
	"sportzone/routes"
	"sportzone/services/booking"
	"sportzone/services/cancellation"
	"sportzone/services/notification"
	"sportzone/services/payment"
	"sportzone/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	limiterStore := middleware.NewRateLimiterStore(
		config.AppConfig.RateLimitPerMin, config.AppConfig.RateLimitBurst)
	router.Use(middleware.RateLimitMiddleware(limiterStore, logger))

	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	venueRepo := venueRepoPkg.NewMongoVenueRepo()
	ledgerRepo := ledgerRepoPkg.NewMongoLedgerRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	walletRepo := walletRepoPkg.NewMongoWalletRepo()

	txRunner := database.NewMongoTxRunner(config.AppConfig.TxnCommitTimeout)

	// services.
	publisher := notification.NewAsynqPublisher(logger)
	defer publisher.Close()

	engine := &booking.DefaultReservationEngine{
		Venues:     venueRepo,
		Ledger:     ledgerRepo,
		Bookings:   bookingRepo,
		Payments:   paymentRepo,
		Users:      userRepo,
		Wallets:    walletRepo,
		Tx:         txRunner,
		Gateway:    payment.NewStripeGateway(),
		Events:     publisher,
		FeeRate:    config.AppConfig.PlatformFeeRate,
		RetryLimit: config.AppConfig.ConflictRetryLimit,
		Logger:     logger,
	}

	cancellationService := &cancellation.CancellationService{
		Bookings: bookingRepo,
		Ledger:   ledgerRepo,
		Venues:   venueRepo,
		Wallets:  walletRepo,
		Tx:       txRunner,
		Policy:   cancellation.DefaultPolicy,
		Events:   publisher,
		Logger:   logger,
	}

	paymentEventHandler := &payment.EventHandler{
		Payments:     paymentRepo,
		Bookings:     bookingRepo,
		Venues:       venueRepo,
		Wallets:      walletRepo,
		Cancellation: cancellationService,
		Events:       publisher,
		Dedup:        utils.GetDedupClient(),
		Logger:       logger,
	}

	// Booking events fan out through the async worker.
	cron.InitEventWorker(&notification.LogNotifier{Logger: logger})

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Availability: &handlers.AvailabilityHandler{Engine: engine},
		Booking:      &handlers.BookingHandler{Engine: engine, Bookings: bookingRepo},
		Cancellation: &handlers.CancellationHandler{Service: cancellationService},
		Webhook:      &handlers.WebhookHandler{Handler: paymentEventHandler, Logger: logger},
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
