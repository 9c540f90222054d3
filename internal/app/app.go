package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"mail-triage-go/config"
	"mail-triage-go/internal/ai"
	"mail-triage-go/internal/auth"
	"mail-triage-go/internal/database"
	"mail-triage-go/internal/handlers"
	"mail-triage-go/internal/housekeeping"
	"mail-triage-go/internal/metrics"
	"mail-triage-go/internal/repository"
	"mail-triage-go/internal/router"
	"mail-triage-go/internal/suggest"
	"mail-triage-go/internal/triage"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting Mail Triage Service")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.NewMetrics()

	emails := repository.NewEmailRepository(db)
	rules := repository.NewRuleRepository(db)
	replies := repository.NewReplyRepository(db)

	aiClient := ai.NewClient(cfg.OpenAI)
	if !aiClient.IsConfigured() {
		logrus.Warn("OpenAI API key not configured, suggestions will use the fallback reply")
	}
	generator := suggest.NewGenerator(emails, aiClient, m)
	triageSvc := triage.NewService(emails, m)

	gate := auth.NewGate(cfg.Google, cfg.Session)

	keeper := housekeeping.New(gate, rules, m, cfg.Housekeeping.IntervalMinutes)
	if err := keeper.Start(); err != nil {
		return fmt.Errorf("failed to start housekeeping: %w", err)
	}

	h := handlers.New(db, emails, rules, replies, triageSvc, generator, gate, m)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := keeper.Stop(); err != nil {
		logrus.Errorf("Failed to stop housekeeping: %v", err)
	}

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
