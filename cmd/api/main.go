// Parkeo backend service
//
// This is the main entry point for the parking marketplace API.
// It wires up all dependencies and starts the HTTP server.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/parkeo/parkeo-backend/config"
	"github.com/parkeo/parkeo-backend/internal/alerts"
	"github.com/parkeo/parkeo-backend/internal/api"
	"github.com/parkeo/parkeo-backend/internal/catalog"
	"github.com/parkeo/parkeo-backend/internal/notification"
	"github.com/parkeo/parkeo-backend/internal/occupancy"
	"github.com/parkeo/parkeo-backend/internal/payment"
	"github.com/parkeo/parkeo-backend/internal/platform/mercadopago"
	"github.com/parkeo/parkeo-backend/internal/platform/paypal"
	"github.com/parkeo/parkeo-backend/internal/platform/supabase"
	"github.com/parkeo/parkeo-backend/internal/reservation"
	"github.com/parkeo/parkeo-backend/internal/settlement"
)

func main() {
	log.Println("Starting Parkeo backend...")

	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded: Port=%s, SupabaseURL=%s", cfg.Server.Port, cfg.Supabase.URL)

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Wire up dependencies (manual dependency injection)
	//
	// Infrastructure Layer
	supaKey := cfg.Supabase.ServiceKey
	if supaKey == "" {
		supaKey = cfg.Supabase.AnonKey
	}
	supaClient := supabase.NewClient(cfg.Supabase.URL, supaKey)
	reservationStore := supabase.NewReservationStore(supaClient)
	paymentStore := supabase.NewPaymentStore(supaClient)
	slotStore := supabase.NewSlotStore(supaClient)
	establishmentStore := supabase.NewEstablishmentStore(supaClient)
	parkingLotStore := supabase.NewParkingLotStore(supaClient)
	tariffStore := supabase.NewTariffStore(supaClient)
	policyStore := supabase.NewCancellationPolicyStore(supaClient)
	alertStore := supabase.NewAlertStore(supaClient)
	notificationStore := supabase.NewNotificationStore(supaClient)

	paypalClient := paypal.NewClient(cfg.PayPal.BaseURL, cfg.PayPal.ClientID, cfg.PayPal.ClientSecret)
	mpAdapter, err := mercadopago.NewAdapter(cfg.MercadoPago.AccessToken, cfg.MercadoPago.WebhookURL)
	if err != nil {
		log.Fatalf("Mercado Pago configuration error: %v", err)
	}

	// Service Layer
	reservationService := reservation.NewService(reservationStore)
	paymentService := payment.NewService(
		paymentStore,
		paypalClient,
		mpAdapter,
		cfg.Payments.MethodCandidates,
		cfg.Server.PublicBaseURL,
	)
	notificationService := notification.NewService(notificationStore)
	settlementService := settlement.NewService(
		paymentStore,
		reservationStore,
		slotStore,
		paypalClient,
		mpAdapter,
		nil, // log-backed reconciliation journal
		notificationService,
	)
	occupancyService := occupancy.NewService(slotStore, reservationStore)
	catalogService := catalog.NewService(
		establishmentStore,
		parkingLotStore,
		slotStore,
		tariffStore,
		policyStore,
	)
	alertBroker := alerts.NewBroker()
	alertService := alerts.NewService(alertStore, slotStore, parkingLotStore, alertBroker)

	// API Layer
	handler := api.NewHandler(
		reservationService,
		paymentService,
		settlementService,
		occupancyService,
		catalogService,
		alertService,
		notificationService,
	)
	router := api.SetupRouter(handler, cfg.Server.GinMode, cfg.Supabase.JWTSecret)

	// Start server in a goroutine
	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	go func() {
		log.Printf("Server listening on %s", serverAddr)
		if err := router.Run(serverAddr); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}

// validateConfig checks that required configuration values are set.
func validateConfig(cfg *config.Config) error {
	if cfg.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.Supabase.ServiceKey == "" && cfg.Supabase.AnonKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY or SUPABASE_ANON_KEY is required")
	}
	if cfg.Supabase.JWTSecret == "" {
		log.Println("Warning: SUPABASE_JWT_SECRET not set; API tokens cannot be validated")
	}
	if cfg.PayPal.ClientID == "" || cfg.PayPal.ClientSecret == "" {
		log.Println("Warning: PayPal credentials not set")
	}
	if cfg.MercadoPago.AccessToken == "" {
		log.Println("Warning: MP_ACCESS_TOKEN not set")
	}
	return nil
}
