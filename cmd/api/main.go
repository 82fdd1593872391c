package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"inviteticketing/config"
	_ "inviteticketing/docs"
	"inviteticketing/internal/adapters/auth"
	"inviteticketing/internal/adapters/email"
	"inviteticketing/internal/adapters/gateway"
	"inviteticketing/internal/adapters/rostercache"
	"inviteticketing/internal/adapters/sheets"
	delivery "inviteticketing/internal/delivery/http"
	"inviteticketing/internal/delivery/http/controllers"
	"inviteticketing/internal/delivery/http/middleware"
	"inviteticketing/internal/repository/postgres"
	"inviteticketing/internal/services"
)

// @title Invite Ticketing API
// @version 1.0
// @description Invite-gated event ticket booking with payment reconciliation.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("database unreachable", "err", err)
		os.Exit(1)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("invalid redis url", "err", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	// Repositories
	bookingRepo := postgres.NewBookingRepository(db)
	eventRepo := postgres.NewWebhookEventRepository(db)

	// Adapters
	sheetsClient := sheets.NewClient(sheets.ClientConfig{
		BaseURL: cfg.SheetsBaseURL,
		APIKey:  cfg.SheetsAPIKey,
	})
	roster := rostercache.New(sheetsClient, rdb, cfg.RosterCacheTTL, logger)
	gatewayClient := gateway.NewClient(gateway.ClientConfig{
		BaseURL: cfg.GatewayBaseURL,
		APIKey:  cfg.GatewayAPIKey,
	})
	verifier := gateway.NewHMACVerifier(cfg.GatewayWebhookSecret)
	tokens := auth.NewJWTTokens(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EventName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKey,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	// Services
	notifier := services.NewNotifyService(mailer, email.NewTemplateRenderer())
	bookingSvc := services.NewBookingService(bookingRepo, roster, gatewayClient, logger, services.BookingConfig{
		EventName:       cfg.EventName,
		EventDate:       cfg.EventDate,
		Currency:        cfg.Currency,
		ReferencePrefix: cfg.ReferencePrefix,
		PendingTTL:      cfg.TicketPendingTTL,
	})
	inviteSvc := services.NewInviteService(roster, bookingRepo)
	reconcileSvc := services.NewReconcileService(bookingRepo, eventRepo, gatewayClient, verifier, notifier, sheetsClient, logger, services.ReconcileConfig{
		LedgerRetention: cfg.LedgerRetention,
	})
	checkinSvc := services.NewCheckinService(bookingRepo, sheetsClient, logger, cfg.ScanToken)
	authSvc := services.NewAuthService(cfg.StaffPasswordHash, tokens, cfg.TokenExpiry)

	mux := delivery.NewRouter(logger, tokens, delivery.Controllers{
		Invite:  controllers.NewInviteController(logger, inviteSvc),
		Booking: controllers.NewBookingController(logger, bookingSvc),
		Payment: controllers.NewPaymentController(logger, reconcileSvc),
		Checkin: controllers.NewCheckinController(logger, checkinSvc),
		Auth:    controllers.NewAuthController(logger, authSvc),
		Admin:   controllers.NewAdminController(logger, bookingSvc, reconcileSvc),
		Health:  controllers.NewHealthController(logger, db),
	})

	handler := middleware.LoggingMiddleware(logger, mux)
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}
