package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/booksandchill/storefront/internal/config"
	"github.com/booksandchill/storefront/internal/events"
	"github.com/booksandchill/storefront/internal/fulfillment"
	kafkax "github.com/booksandchill/storefront/internal/kafka"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	svc := fulfillment.New(log)
	consumer := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroup, events.TopicOrderCompleted, 4, log)
	log.Info("consuming completed orders",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("group", cfg.KafkaGroup),
	)
	if err := consumer.Start(ctx, svc.Handle); err != nil {
		log.Fatal("consumer stopped", zap.Error(err))
	}
}
