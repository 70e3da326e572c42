package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/seed"
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

	db, err := seed.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	seeder := seed.NewSeeder(db)
	if err := seeder.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rates, err := cfg.Booking.NightlyRates()
	if err != nil {
		log.Fatalf("nightly rates: %v", err)
	}
	rooms, err := seed.Inventory(seed.DefaultLayout, rates, domain.RealClock{}.Now())
	if err != nil {
		log.Fatalf("build inventory: %v", err)
	}

	inserted, err := seeder.SeedRooms(ctx, rooms)
	if err != nil {
		log.Fatalf("seed rooms: %v", err)
	}
	log.Printf("seeded %d of %d rooms", inserted, len(rooms))
}
