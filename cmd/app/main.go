package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evgall/ticketline/config"
	"github.com/evgall/ticketline/internal/bootstrap"
	"github.com/evgall/ticketline/internal/cache"
	"github.com/evgall/ticketline/internal/kafka"
	"github.com/evgall/ticketline/internal/notify"
	"github.com/evgall/ticketline/internal/repository"
	"github.com/evgall/ticketline/internal/service/booking"
	"github.com/evgall/ticketline/internal/service/events"
	"github.com/evgall/ticketline/internal/service/users"
	"github.com/evgall/ticketline/internal/statuscache"
	"github.com/jackc/pgx/v5/pgxpool"
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

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Cache.EventsTTLSeconds)*time.Second)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	statusCache := statuscache.New()
	notifier := notify.New(cfg.Cache.NotifyBuffer, log)
	go statuscache.Run(ctx, statusCache, notifier.Subscribe())

	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	bookingService := booking.NewBookingService(
		eventRepo,
		bookingRepo,
		statusCache,
		notifier,
		log,
		booking.WithProducer(producer, cfg.Kafka.TicketsTopic),
	)
	eventService := events.NewEventService(eventRepo, redisCache)
	userService := users.NewUserService(userRepo, cfg.Auth.BcryptCost, log)

	if err := bootstrap.Run(ctx, cfg, bookingService, eventService, userService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
