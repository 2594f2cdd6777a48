package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/km-arc/go-wiring/framework/app"
	"github.com/km-arc/go-wiring/garage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	application, err := app.New() // loads .env automatically
	if err != nil {
		return err
	}
	defer func() { _ = application.Logger.Sync() }()

	// ── Demo domain ─────────────────────────────────────────────────────────────

	g, err := garage.NewServiceProvider(application.Config.Garage.File)
	if err != nil {
		application.Logger.Warn("garage blueprint not loaded, using defaults", zap.Error(err))
		g = &garage.ServiceProvider{Blueprint: garage.DefaultBlueprint()}
	}
	if err := application.Register(g); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}
