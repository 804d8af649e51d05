package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/config"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/directory"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/jobs"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/logging"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/payment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(string(cfg.Environment), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger = logger.With(zap.String("component", "scheduler"))
	defer logger.Sync()

	ctx := context.Background()
	store, err := directory.Open(ctx, cfg.DirectoryOptions())
	if err != nil {
		logger.Fatal("Unable to open account directory",
			zap.String("backend", cfg.DirectoryBackend), zap.Error(err))
	}
	defer store.Close()

	processor := payment.NewStripeProcessor(cfg.StripeSecretKey)

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err = c.AddFunc(cfg.AuditSchedule, func() {
		logger.Info("Starting connected account audit")
		if _, err := jobs.AuditConnectedAccounts(context.Background(), processor, store, logger); err != nil {
			logger.Error("Connected account audit failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("Failed to schedule account audit",
			zap.String("schedule", cfg.AuditSchedule), zap.Error(err))
	}

	c.Start()
	logger.Info("Cron scheduler started", zap.String("audit_schedule", cfg.AuditSchedule))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("Shutting down cron scheduler")

	stopCtx := c.Stop()
	<-stopCtx.Done()

	logger.Info("Cron scheduler stopped")
}
