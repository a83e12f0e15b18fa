package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"paydesk/internal/app/server"
	"paydesk/internal/platform/config"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
