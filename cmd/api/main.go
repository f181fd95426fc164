package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"assetTracker/internal/app"
	"assetTracker/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yml", "путь к конфигурации")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg)
	if err := application.Init(ctx); err != nil {
		log.Fatalf("инициализация: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		log.Fatalf("запуск: %v", err)
	}
}
