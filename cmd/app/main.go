package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/salonbooking/api"
	"github.com/Domenick1991/salonbooking/config"
	"github.com/Domenick1991/salonbooking/internal/amqp"
	"github.com/Domenick1991/salonbooking/internal/bootstrap"
	"github.com/Domenick1991/salonbooking/internal/cache"
	"github.com/Domenick1991/salonbooking/internal/kafka"
	"github.com/Domenick1991/salonbooking/internal/lock"
	"github.com/Domenick1991/salonbooking/internal/logger"
	"github.com/Domenick1991/salonbooking/internal/repository"
	"github.com/Domenick1991/salonbooking/internal/repository/memory"
	"github.com/Domenick1991/salonbooking/internal/service/availability"
	"github.com/Domenick1991/salonbooking/internal/service/booking"
	"github.com/Domenick1991/salonbooking/internal/telemetry"
	"github.com/Domenick1991/salonbooking/migrations"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

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

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.App.Env)
	if err != nil {
		zl.Fatal("init telemetry", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	loc, _ := cfg.Booking.Location()
	checks := map[string]api.Check{}

	var (
		salons       repository.SalonRepository
		appointments repository.AppointmentRepository
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		if cfg.Database.SeedPath != "" {
			if err := store.LoadSeed(cfg.Database.SeedPath); err != nil {
				zl.Fatal("load seed", zap.Error(err))
			}
		}
		salons, appointments = store, store
	default:
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			zl.Fatal("parse database config", zap.Error(err))
		}
		if cfg.Database.MaxConns > 0 {
			poolCfg.MaxConns = cfg.Database.MaxConns
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			zl.Fatal("connect postgres", zap.Error(err))
		}
		defer pool.Close()
		if cfg.Database.Migrate {
			if err := repository.Migrate(ctx, pool, migrations.FS); err != nil {
				zl.Fatal("migrate database", zap.Error(err))
			}
		}
		checks["database"] = pool.Ping
		salons = repository.NewSalonRepository(pool)
		appointments = repository.NewAppointmentRepository(pool)
	}

	availabilityOpts := []availability.Option{
		availability.WithLocation(loc),
		availability.WithSlotMinutes(cfg.Booking.SlotMinutes),
		availability.WithWindowDays(cfg.Booking.WindowDays),
		availability.WithLogger(zl),
	}
	bookingOpts := []booking.BookingServiceOption{
		booking.WithPrivilegedRoles(cfg.Auth.PrivilegedRoles...),
		booking.WithLogger(zl),
		booking.WithLocker(lock.NewLocalLocker(cfg.Booking.LockWait)),
	}

	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(cfg.Redis)
		defer client.Close()
		redisCache := cache.NewRedisCache(client, cfg.Booking)
		checks["redis"] = redisCache.Ping
		availabilityOpts = append(availabilityOpts, availability.WithCache(redisCache))
		bookingOpts = append(bookingOpts, booking.WithLocker(redisCache), booking.WithInvalidator(redisCache))
	}

	switch cfg.Events.Driver {
	case config.EventsKafka:
		producer := kafka.NewProducer(cfg.Events.Brokers, zl)
		defer producer.Close()
		checks["kafka"] = producer.CheckConnection
		bookingOpts = append(bookingOpts, booking.WithProducer(producer, cfg.Events.Topic))
	case config.EventsRabbitMQ:
		publisher := amqp.NewPublisher(cfg.Events.AMQPURL, zl)
		defer publisher.Close()
		bookingOpts = append(bookingOpts, booking.WithProducer(publisher, cfg.Events.Queue))
	}

	availabilityService := availability.NewAvailabilityService(salons, appointments, availabilityOpts...)
	bookingService := booking.NewBookingService(salons, appointments, bookingOpts...)

	if cfg.App.Env == "production" || cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterConfig{
		JWTSecret: cfg.Auth.JWTSecret,
		Location:  loc,
		Checks:    checks,
		Logger:    zl,
	}, availabilityService, bookingService)

	if err := bootstrap.NewServers(cfg, router, zl).Run(ctx, cfg.GRPC.Address); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}
