package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/morningshift/breakfast/internal/config"
	"github.com/morningshift/breakfast/internal/linksign"
	"github.com/morningshift/breakfast/internal/notify"
	"github.com/morningshift/breakfast/internal/repository/postgres"
	"github.com/morningshift/breakfast/internal/service"
	"github.com/morningshift/breakfast/internal/web"
	"github.com/morningshift/breakfast/pkg/logger"
)

func main() {
	// Local development convenience; the file is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting breakfast service...")

	// Database
	db, err := config.NewDatabase(cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate("migrations"); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db.DB)
	agentRepo := postgres.NewAgentRepository(db.DB)
	shiftRepo := postgres.NewShiftRepository(db.DB)
	weeklyMenuRepo := postgres.NewWeeklyMenuRepository(db.DB)
	foodRepo := postgres.NewFoodRepository(db.DB)
	recipeRepo := postgres.NewRecipeRepository(db.DB)
	offerRepo := postgres.NewOfferRepository(db.DB)
	reservationRepo := postgres.NewReservationRepository(db.DB)

	// Service layer
	signer := linksign.New(cfg.LinkSecret)
	svc := service.New(db.DB, l, signer,
		eventRepo, agentRepo, shiftRepo, weeklyMenuRepo,
		foodRepo, recipeRepo, offerRepo, reservationRepo,
	)

	// Optional Telegram announcer
	var announcer notify.Announcer
	if cfg.TelegramToken != "" && cfg.TelegramAnnounceChatID != 0 {
		tg, err := notify.NewTelegramAnnouncer(cfg.TelegramToken, cfg.TelegramAnnounceChatID, l)
		if err != nil {
			l.Errorf("Telegram announcer disabled: %v", err)
		} else {
			announcer = tg
		}
	}

	// Web server
	srv, err := web.NewServer(svc, l, web.Options{
		SessionSecret: cfg.SessionSecret,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		PublicBaseURL: cfg.PublicBaseURL,
		Announcer:     announcer,
	})
	if err != nil {
		l.Fatalf("Failed to create web server: %v", err)
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	l.Info("Breakfast service started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("HTTP server shutdown error: %v", err)
	}

	l.Info("Breakfast service stopped")
}
