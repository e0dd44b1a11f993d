package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/ownstays/settlement-service/internal/app"
	"github.com/ownstays/settlement-service/internal/config"
	"github.com/ownstays/settlement-service/internal/constants"
	"github.com/ownstays/settlement-service/internal/controllers"
	"github.com/ownstays/settlement-service/internal/middleware"
	"github.com/ownstays/settlement-service/internal/repositories"
	"github.com/ownstays/settlement-service/internal/routes"
	"github.com/ownstays/settlement-service/internal/services"
	"github.com/ownstays/settlement-service/internal/utils"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	stripe "github.com/stripe/stripe-go/v82"
	_ "time/tzdata"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	stripe.Key = cfg.StripeSecretKey

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize settlement-service:", err)
	}
	defer application.Close()

	// Repositories
	collectionRepo := repositories.NewCollectionRepository(application.DB)
	unitRepo := repositories.NewUnitRepository(application.DB)
	ownershipRepo := repositories.NewOwnershipRepository(application.DB)
	tierRepo := repositories.NewPricingTierRepository(application.DB)
	paymentRepo := repositories.NewPaymentRepository(application.DB)
	bookingRepo := repositories.NewBookingRepository(application.DB)
	userRepo := repositories.NewUserRepository(application.DB)
	affiliateRepo := repositories.NewAffiliateLinkRepository(application.DB)

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := app.SeedDemoData(context.Background(), collectionRepo, unitRepo, tierRepo, userRepo, affiliateRepo); err != nil {
			utils.Logger.Fatal("Failed to seed demo data:", err)
		}
	}

	// Services
	allocationService := services.NewAllocationService(unitRepo, ownershipRepo)
	availabilityService := services.NewAvailabilityService(collectionRepo, tierRepo, ownershipRepo)
	ownershipSettlement := services.NewOwnershipSettlementService(
		paymentRepo, userRepo, affiliateRepo, tierRepo, collectionRepo, allocationService,
	)
	bookingSettlement := services.NewBookingSettlementService(paymentRepo, bookingRepo, userRepo)
	dispatcher := services.NewSettlementDispatcher(ownershipSettlement, bookingSettlement)
	bookingService := services.NewBookingService(bookingRepo, collectionRepo)
	webhookCheckService := services.NewStripeWebhookCheckService()

	// Controllers
	healthController := controllers.NewHealthController(application)
	stripeWebhookController := controllers.NewStripeWebhookController(cfg, dispatcher, webhookCheckService)
	cryptoWebhookController := controllers.NewCryptoWebhookController(cfg, dispatcher)
	adminPaymentsController := controllers.NewAdminPaymentsController(dispatcher)
	availabilityController := controllers.NewAvailabilityController(availabilityService, collectionRepo, unitRepo, ownershipRepo, paymentRepo)
	bookingController := controllers.NewBookingController(bookingService)

	// Router setup
	router := mux.NewRouter()

	// Public Routes
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PaymentsStripeWebhook, stripeWebhookController.WebhookHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PaymentsStripeWebhookCheck, stripeWebhookController.WebhookCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PaymentsCryptoWebhook, cryptoWebhookController.WebhookHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.Collections, availabilityController.ListCollectionsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.CollectionAvailability, availabilityController.TierAvailabilityHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.CollectionUnits, availabilityController.ListUnitsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.UnitCapacity, availabilityController.UnitCapacityHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.UserOwnership, availabilityController.OwnershipByUserHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.UserPayments, availabilityController.UserPaymentsHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.Bookings, bookingController.CreateBookingHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.BookingByID, bookingController.GetBookingHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.CollectionBookings, bookingController.ListBookingsHandler).Methods(http.MethodGet)

	// Secured routes for operators
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AdminAuthMiddleware(cfg.RSAPublicKey))
	secured.HandleFunc(routes.AdminManualPayment, adminPaymentsController.ManualPaymentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AdminConfirmBooking, bookingController.ConfirmBookingHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AdminCompleteBooking, bookingController.CompleteBookingHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.AdminCancelBooking, bookingController.CancelBookingHandler).Methods(http.MethodPost)

	// Cron job setup
	c := cron.New(cron.WithLocation(time.UTC))

	// Schedule the stale-booking expiry sweep.
	_, err = c.AddFunc(constants.BookingExpiryCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.BookingExpiryJobTimeout)
		defer cancel()
		utils.Logger.Info("Starting stale booking expiry cron job...")
		if err := bookingService.ExpireStale(ctx); err != nil {
			utils.Logger.WithError(err).Error("Failed to expire stale bookings")
		}
	})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule booking expiry cron")
	}

	c.Start()
	utils.Logger.Info("Scheduled booking expiry cron job")

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("settlement-service failed to start:", err)
	}
}
