// Command server is the application entry point. It wires together all
// layers and starts the HTTP server.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/morsig01/treningsglede/config"
	_ "github.com/morsig01/treningsglede/docs"
	"github.com/morsig01/treningsglede/internal/adapters/auth"
	"github.com/morsig01/treningsglede/internal/adapters/email"
	httpdelivery "github.com/morsig01/treningsglede/internal/delivery/http"
	"github.com/morsig01/treningsglede/internal/delivery/http/controllers"
	"github.com/morsig01/treningsglede/internal/delivery/http/middleware"
	"github.com/morsig01/treningsglede/internal/repository/postgres"
	"github.com/morsig01/treningsglede/internal/services"
)

// @title Treningsglede booking API
// @version 1.0
// @description Gym group-training booking backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	sessionRepo := postgres.NewSessionRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())

	bookingSvc := services.NewBookingService(sessionRepo, regRepo, userRepo, emailSvc, logger)
	scheduleSvc := services.NewScheduleService(sessionRepo, regRepo)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	catalogCtrl := controllers.NewCatalogController(logger, scheduleSvc)
	bookingCtrl := controllers.NewBookingController(logger, bookingSvc)
	adminCtrl := controllers.NewAdminController(logger, scheduleSvc, bookingSvc)

	mux := httpdelivery.NewRouter(logger, verifier, catalogCtrl, bookingCtrl, adminCtrl)
	handler := middleware.CORS(cfg.AllowedOrigins,
		middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
