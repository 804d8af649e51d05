// Command bookingsctl inspects and repairs the company -> connected account
// directory and drives onboarding without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/bookings"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/config"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/directory"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/jobs"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/logging"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/payment"
)

var Version = "dev"

type app struct {
	directory directory.Directory
	connect   *bookings.ConnectService
	accounts  jobs.AccountLister
	logger    *zap.Logger
}

// appLoader builds the dependencies for one command run. The returned func
// releases them.
type appLoader func(ctx context.Context) (*app, func(), error)

func main() {
	if err := newRootCmd(loadApp).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(load appLoader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bookingsctl",
		Short:         "Operate the bookings payment gateway",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(directoryCmd(load))
	rootCmd.AddCommand(onboardCmd(load))
	rootCmd.AddCommand(statusCmd(load))
	rootCmd.AddCommand(auditCmd(load))

	return rootCmd
}

func loadApp(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(string(cfg.Environment), cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	store, err := directory.Open(ctx, cfg.DirectoryOptions())
	if err != nil {
		logger.Sync()
		return nil, nil, fmt.Errorf("failed to open %s directory: %w", cfg.DirectoryBackend, err)
	}

	logger = logger.With(zap.String("component", "bookingsctl"))
	processor := payment.NewStripeProcessor(cfg.StripeSecretKey)
	a := &app{
		directory: store,
		connect: bookings.NewConnectService(processor, store, bookings.ConnectConfig{
			BaseURL: cfg.AppURL,
			Country: cfg.StripeConnectCountry,
		}, logger),
		accounts: processor,
		logger:   logger,
	}

	cleanup := func() {
		store.Close()
		logger.Sync()
	}
	return a, cleanup, nil
}
