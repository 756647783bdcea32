// Command notifier consumes booking confirmations from Kafka and delivers them
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"railbook/internal/notifications"
	"railbook/internal/shared/config"
	"railbook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.GetDefault().Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	appLogger := logger.NewWithWriter(os.Stdout, cfg.LogLevel)
	logger.SetDefault(appLogger)

	consumerCfg := notifications.DefaultConsumerConfig()
	consumerCfg.Brokers = cfg.Kafka.Brokers
	consumerCfg.GroupID = cfg.Kafka.ConsumerGroup
	consumerCfg.Topics = []string{cfg.Kafka.Topic}

	consumer, err := notifications.NewConsumer(consumerCfg, notifications.NewLogSender(appLogger))
	if err != nil {
		appLogger.Error("Failed to create notification consumer", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Notifier started",
		slog.Any("brokers", consumerCfg.Brokers),
		slog.String("group", consumerCfg.GroupID),
		slog.String("topic", cfg.Kafka.Topic),
	)
	consumer.Run(ctx, cfg.Kafka.Workers)

	if err := consumer.Close(); err != nil {
		appLogger.Error("Error closing consumer", slog.Any("error", err))
	}
	appLogger.Info("Notifier stopped")
}
