package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/bootstrap"
	"github.com/Domenick1991/hotelbooking/internal/cache"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/notification"
	"github.com/Domenick1991/hotelbooking/internal/payment"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/Domenick1991/hotelbooking/internal/service/guests"
	"github.com/Domenick1991/hotelbooking/internal/service/rooms"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
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

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.RoomsCacheTTLDuration())
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka)
	defer producer.Close()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := producer.CheckConnection(checkCtx); err != nil {
		log.Printf("WARNING: kafka is not reachable, notifications will fail: %v", err)
	}
	cancel()

	clock := domain.RealClock{}
	repos := repository.NewRepositories(pool)
	notifier := notification.NewKafkaNotifier(producer, cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic)

	bookingService := booking.NewBookingService(
		repos,
		repository.NewTransactor(pool),
		payment.NewMockGateway(),
		booking.WithCache(redisCache, cfg.Booking.RoomLockTTL()),
		booking.WithNotifier(notifier),
		booking.WithClock(clock),
		booking.WithHoldTTL(cfg.Booking.HoldTTL()),
	)

	svc := bootstrap.Services{
		Bookings: bookingService,
		Rooms:    rooms.NewRoomService(repos.Rooms, repos.Bookings, redisCache, clock),
		Guests:   guests.NewGuestService(repos, clock),
	}

	if err := bootstrap.Run(ctx, cfg, svc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
