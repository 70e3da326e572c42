// Package seed creates the hotel schema and fills the room inventory.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// Floor describes how many rooms of which type a floor holds.
type Floor struct {
	Number int
	Type   domain.RoomType
	Rooms  int
}

// DefaultLayout is the hotel floor plan: two standard floors, two deluxe
// floors and a suite floor on top.
var DefaultLayout = []Floor{
	{Number: 1, Type: domain.RoomTypeStandard, Rooms: 25},
	{Number: 2, Type: domain.RoomTypeStandard, Rooms: 25},
	{Number: 3, Type: domain.RoomTypeDeluxe, Rooms: 20},
	{Number: 4, Type: domain.RoomTypeDeluxe, Rooms: 20},
	{Number: 5, Type: domain.RoomTypeSuite, Rooms: 10},
}

type roomRow struct {
	ID          string    `db:"id"`
	Number      string    `db:"number"`
	RoomType    string    `db:"room_type"`
	MaxCapacity int       `db:"max_capacity"`
	IsAvailable bool      `db:"is_available"`
	NightlyRate int64     `db:"nightly_rate"`
	Currency    string    `db:"currency"`
	CreatedAt   time.Time `db:"created_at"`
}

type Seeder struct {
	db *sqlx.DB
}

func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func NewSeeder(db *sqlx.DB) *Seeder {
	return &Seeder{db: db}
}

// Migrate applies the schema. Every statement is idempotent.
func (s *Seeder) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SeedRooms inserts rooms that do not exist yet and returns how many were added.
func (s *Seeder) SeedRooms(ctx context.Context, rooms []domain.Room) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, room := range rooms {
		res, err := tx.NamedExecContext(ctx, `INSERT INTO rooms (id, number, room_type, max_capacity, is_available, nightly_rate, currency, created_at)
			VALUES (:id, :number, :room_type, :max_capacity, :is_available, :nightly_rate, :currency, :created_at)
			ON CONFLICT (number) DO NOTHING`, toRow(room))
		if err != nil {
			return 0, fmt.Errorf("insert room %s: %w", room.Number, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rooms: %w", err)
	}
	return inserted, nil
}

// Inventory builds the rooms described by layout, priced from rates.
func Inventory(layout []Floor, rates map[domain.RoomType]domain.Money, now time.Time) ([]domain.Room, error) {
	var rooms []domain.Room
	for _, floor := range layout {
		rate, ok := rates[floor.Type]
		if !ok {
			return nil, fmt.Errorf("no nightly rate for room type %s", floor.Type)
		}
		for pos := 1; pos <= floor.Rooms; pos++ {
			number, err := domain.FormatRoomNumber(floor.Number, pos)
			if err != nil {
				return nil, fmt.Errorf("floor %d: %w", floor.Number, err)
			}
			rooms = append(rooms, *domain.NewRoom(number, floor.Type, rate, now))
		}
	}
	return rooms, nil
}

func toRow(r domain.Room) roomRow {
	return roomRow{
		ID:          r.ID.String(),
		Number:      string(r.Number),
		RoomType:    string(r.Type),
		MaxCapacity: r.MaxCapacity.Int(),
		IsAvailable: r.IsAvailable,
		NightlyRate: r.NightlyRate.Amount,
		Currency:    r.NightlyRate.Currency,
		CreatedAt:   r.CreatedAt,
	}
}
