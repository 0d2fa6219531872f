package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/tourledger/config"
	"github.com/Domenick1991/tourledger/internal/kafka"
	"github.com/Domenick1991/tourledger/internal/logging"
	"github.com/Domenick1991/tourledger/internal/notify"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log)

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Fatal("kafka.brokers is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic)
	defer consumer.Close()

	sender := notify.NewSender(logger)

	logger.WithField("topic", cfg.Kafka.BookingEventsTopic).Info("worker consuming booking events")
	err = consumer.Consume(ctx, kafka.BookingRecordedHandler(logger, sender.Send))
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("consumer stopped")
		return
	}
	logger.Info("worker stopped")
}
