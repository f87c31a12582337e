package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lei/quantum-tracker/pkg/gateway"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	// Load .env if present; credentials may also come from the real env
	_ = godotenv.Load()

	// Optional YAML config overlay
	configFile := os.Getenv("CONFIG_FILE")

	gw, err := gateway.NewFromEnv(configFile)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Blocks until shutdown
	return gw.Start(ctx)
}
