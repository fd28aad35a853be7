package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/salonbooking/config"
	"github.com/Domenick1991/salonbooking/internal/amqp"
	"github.com/Domenick1991/salonbooking/internal/kafka"
	"github.com/Domenick1991/salonbooking/internal/logger"
	"github.com/Domenick1991/salonbooking/internal/notify"
	"go.uber.org/zap"
)

type consumer interface {
	Consume(ctx context.Context, handler func(context.Context, []byte) error) error
}

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var source consumer
	switch cfg.Events.Driver {
	case config.EventsKafka:
		c := kafka.NewConsumer(cfg.Events.Brokers, cfg.Events.GroupID, cfg.Events.Topic, zl)
		defer c.Close()
		source = c
	case config.EventsRabbitMQ:
		source = amqp.NewConsumer(cfg.Events.AMQPURL, cfg.Events.Queue, zl)
	default:
		zl.Fatal("worker needs an events driver", zap.String("driver", cfg.Events.Driver))
	}

	loc, _ := cfg.Booking.Location()
	dispatcher := notify.NewDispatcher(notify.NewLogSender(zl), zl, loc)

	zl.Info("worker started", zap.String("driver", cfg.Events.Driver))
	if err := source.Consume(ctx, dispatcher.Handle); err != nil {
		zl.Error("consumer stopped", zap.Error(err))
	}
	zl.Info("worker stopped")
}
