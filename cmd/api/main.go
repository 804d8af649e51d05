package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/bookings"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/config"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/directory"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/logging"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/pages"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/payment"
)

type apiConfig struct {
	payments *bookings.PaymentService
	connect  *bookings.ConnectService
	pages    *pages.Renderer
	logger   *zap.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(string(cfg.Environment), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	store, err := directory.Open(ctx, cfg.DirectoryOptions())
	if err != nil {
		logger.Fatal("Unable to open account directory",
			zap.String("backend", cfg.DirectoryBackend), zap.Error(err))
	}
	defer store.Close()
	logger.Info("Account directory ready", zap.String("backend", cfg.DirectoryBackend))

	renderer, err := pages.NewRenderer(cfg.PagesTemplateDir)
	if err != nil {
		logger.Fatal("Unable to load page templates",
			zap.String("dir", cfg.PagesTemplateDir), zap.Error(err))
	}

	processor := payment.NewStripeProcessor(cfg.StripeSecretKey)

	api := &apiConfig{
		payments: bookings.NewPaymentService(processor, store, logger),
		connect: bookings.NewConnectService(processor, store, bookings.ConnectConfig{
			BaseURL: cfg.AppURL,
			Country: cfg.StripeConnectCountry,
		}, logger),
		pages:  renderer,
		logger: logger,
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(api, cfg.AllowedOrigins(), cfg.IsProduction()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", string(cfg.Environment)))
		serverErr <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}
