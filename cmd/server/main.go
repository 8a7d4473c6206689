// Package main - Entry point for the habitat-pricer API server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"habitat-pricer/internal/app"
	"habitat-pricer/internal/config"
	"habitat-pricer/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "Config file")
	addr := flag.String("addr", "", "Server address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "init logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	a, err := app.New(cfg)
	if err != nil {
		logging.Logger.Fatal("build app", zap.Error(err))
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("habitat-pricer server starting", zap.String("version", version), zap.String("addr", cfg.Server.Addr))
	if err := a.Serve(ctx, version); err != nil {
		logging.Logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
