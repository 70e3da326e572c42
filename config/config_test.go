package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
http:
  address: ":8080"
grpc:
  address: ":9090"
database:
  host: localhost
  port: 5432
  user: hotel
  password: from-file
  name: hotelbooking
redis:
  addr: "localhost:6379"
kafka:
  brokers: ["localhost:9092"]
  booking_events_topic: booking-events
  notifications_topic: notifications
booking:
  hold_ttl_minutes: 15
  rooms_cache_ttl_seconds: 60
  room_lock_ttl_seconds: 10
  rates:
    standard: "100.00"
    deluxe: "200.00"
    suite: "300.00"
worker:
  expiration_sweep_minutes: 1
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := LoadConfig(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "GBP", cfg.Booking.Currency)
	assert.Equal(t, "hotelbooking-worker", cfg.Kafka.GroupID)
	assert.Equal(t, 15*time.Minute, cfg.Booking.HoldTTL())
	assert.Equal(t, time.Minute, cfg.Booking.RoomsCacheTTLDuration())
	assert.Equal(t, 10*time.Second, cfg.Booking.RoomLockTTL())
	assert.Equal(t, time.Minute, cfg.Worker.SweepInterval())
	assert.Equal(t, "host=localhost port=5432 user=hotel password=from-env dbname=hotelbooking sslmode=disable", cfg.Database.DSN())

	rates, err := cfg.Booking.NightlyRates()
	require.NoError(t, err)
	assert.Equal(t, domain.Money{Amount: 20000, Currency: "GBP"}, rates[domain.RoomTypeDeluxe])
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "http:\n  address: \":8080\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grpc.address is required")
	assert.Contains(t, err.Error(), "booking.hold_ttl_minutes must be positive")
	assert.Contains(t, err.Error(), "no nightly rate for room type")
}

func TestBookingConfig_NightlyRates_BadValue(t *testing.T) {
	b := BookingConfig{Currency: "GBP", Rates: map[string]string{"standard": "abc", "deluxe": "200.00", "suite": "300.00"}}
	_, err := b.NightlyRates()
	assert.ErrorIs(t, err, domain.ErrValidation)
}
