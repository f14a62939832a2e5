package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/juju/clock"

	"github.com/MrJamesThe3rd/finboard/internal/app"
	"github.com/MrJamesThe3rd/finboard/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.UsesDevSecret() {
		slog.Warn("SESSION_SECRET is not set, signing session cookies with the development default")
	}

	if cfg.Seed.Enabled {
		slog.Info("sample data seeding enabled for new users")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg, clock.WallClock).Run(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
