package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/evgall/ticketline/config"
	"github.com/evgall/ticketline/internal/email"
	"github.com/evgall/ticketline/internal/kafka"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.TicketsTopic, log)
	defer consumer.Close()

	sender := email.NewSender(log)

	if err := consumer.Consume(ctx, sender.Send); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("consumer stopped")
	}
}
