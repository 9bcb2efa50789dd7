package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"tower-vision/config"
	telegram "tower-vision/internal/api"
	"tower-vision/internal/container"
	"tower-vision/internal/infrastructure/storage"
	"tower-vision/internal/monitoring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}
	monitoring.SetVerbose(cfg.Verbose)

	// Создаём хранилище пользователей
	userRepo := storage.NewMemoryUserRepository()

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg, userRepo)
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}
	defer appContainer.Close()

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
