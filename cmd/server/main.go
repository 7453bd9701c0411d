package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"ticketing/internal/app"
	"ticketing/internal/catalog"
	"ticketing/internal/config"
	"ticketing/internal/gateway"
	"ticketing/internal/handler"
	"ticketing/internal/logger"
	"ticketing/internal/messaging"
	"ticketing/internal/ocr"
	internalRedis "ticketing/internal/redis"
	"ticketing/internal/repository/postgres"
	"ticketing/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	logger.Setup(cfg.LogFile)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	ticketRepo := postgres.NewTicketRepository(db)
	challanRepo := postgres.NewChallanRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	// Station catalog and external collaborators.
	stations := catalog.Default()
	razorpayClient := gateway.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	ocrClient := ocr.NewClient(cfg.OCR.BaseURL, cfg.OCR.Timeout)
	notifier := messaging.NewWhatsAppNotifier(cfg.WhatsApp.APIURL)

	// Initialize services.
	fareCalc := service.NewFareCalculator(stations)
	distanceVerifier := service.NewDistanceVerifier(stations)
	inspectionService := service.NewInspectionService(distanceVerifier)
	settler := service.NewTxSettlementStore(db)
	paymentService := service.NewPaymentService(razorpayClient, orderRepo, settler, lockStore)
	ticketService := service.NewTicketService(fareCalc, ticketRepo, paymentService, cacheStore)
	challanService := service.NewChallanService(challanRepo, paymentService, notifier, cfg.PublicURL)

	// Initialize handlers.
	ticketHandler := handler.NewTicketHandler(ticketService, cfg.Razorpay.KeyID)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	challanHandler := handler.NewChallanHandler(challanService)
	inspectHandler := handler.NewInspectHandler(ocrClient, inspectionService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TicketHandler:  ticketHandler,
		PaymentHandler: paymentHandler,
		ChallanHandler: challanHandler,
		InspectHandler: inspectHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
