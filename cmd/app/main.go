package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/bootstrap"
	"github.com/Domenick1991/travelbooking/internal/cache"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/provider"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/identity"
	"github.com/Domenick1991/travelbooking/internal/service/search"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Search.CacheTTL())
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	travelProvider := provider.NewAmadeusClient(cfg.Provider, logger)

	flightRepo := repository.NewFlightRepository(pool)
	hotelRepo := repository.NewHotelRepository(pool)
	carRepo := repository.NewCarRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	searchService := search.NewSearchService(flightRepo, hotelRepo, carRepo, travelProvider, redisCache, logger)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		hotelRepo,
		carRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		logger,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithCASRetries(cfg.Booking.CASRetries),
	)
	identityService := identity.NewIdentityService(userRepo, logger)

	if err := bootstrap.Run(ctx, cfg, searchService, bookingService, identityService); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
