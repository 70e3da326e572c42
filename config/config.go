package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address     string   `yaml:"address"`
	SwaggerDir  string   `yaml:"swagger_dir"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	HoldTTLMinutes     int    `yaml:"hold_ttl_minutes"`
	RoomsCacheTTL      int    `yaml:"rooms_cache_ttl_seconds"`
	RoomLockTTLSeconds int    `yaml:"room_lock_ttl_seconds"`
	Currency           string `yaml:"currency"`
	// Rates holds the nightly rate per room type as a decimal string, e.g. "100.00".
	Rates map[string]string `yaml:"rates"`
}

func (b BookingConfig) HoldTTL() time.Duration {
	return time.Duration(b.HoldTTLMinutes) * time.Minute
}

func (b BookingConfig) RoomsCacheTTLDuration() time.Duration {
	return time.Duration(b.RoomsCacheTTL) * time.Second
}

func (b BookingConfig) RoomLockTTL() time.Duration {
	return time.Duration(b.RoomLockTTLSeconds) * time.Second
}

// NightlyRates parses Rates into money per room type.
func (b BookingConfig) NightlyRates() (map[domain.RoomType]domain.Money, error) {
	rates := make(map[domain.RoomType]domain.Money, len(domain.RoomTypes))
	for _, rt := range domain.RoomTypes {
		raw, ok := b.Rates[string(rt)]
		if !ok {
			return nil, fmt.Errorf("no nightly rate for room type %s", rt)
		}
		rate, err := domain.ParseMoney(raw, b.Currency)
		if err != nil {
			return nil, fmt.Errorf("rate of %s: %w", rt, err)
		}
		rates[rt] = rate
	}
	return rates, nil
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes"`
}

func (w WorkerConfig) SweepInterval() time.Duration {
	return time.Duration(w.ExpirationSweepMinutes) * time.Minute
}

// LoadConfig reads the YAML file at path. Variables from a .env file in the
// working directory are loaded first; DB_PASSWORD and REDIS_PASSWORD override
// the file.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Booking.Currency == "" {
		c.Booking.Currency = domain.DefaultCurrency
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "hotelbooking-worker"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Address == "" {
		errs = append(errs, errors.New("http.address is required"))
	}
	if c.GRPC.Address == "" {
		errs = append(errs, errors.New("grpc.address is required"))
	}
	if c.Database.Host == "" || c.Database.Port <= 0 {
		errs = append(errs, errors.New("database.host and database.port are required"))
	}
	if c.Booking.HoldTTLMinutes <= 0 {
		errs = append(errs, errors.New("booking.hold_ttl_minutes must be positive"))
	}
	if c.Booking.RoomsCacheTTL <= 0 {
		errs = append(errs, errors.New("booking.rooms_cache_ttl_seconds must be positive"))
	}
	if c.Booking.RoomLockTTLSeconds <= 0 {
		errs = append(errs, errors.New("booking.room_lock_ttl_seconds must be positive"))
	}
	if _, err := c.Booking.NightlyRates(); err != nil {
		errs = append(errs, err)
	}
	if c.Worker.ExpirationSweepMinutes <= 0 {
		errs = append(errs, errors.New("worker.expiration_sweep_minutes must be positive"))
	}
	return errors.Join(errs...)
}
