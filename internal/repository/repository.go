package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Finders return (nil, nil) when nothing matches.

type GuestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Guest, error)
	FindByEmail(ctx context.Context, email string) (*domain.Guest, error)
	Save(ctx context.Context, guest *domain.Guest) error
}

type RoomRepository interface {
	FindAll(ctx context.Context) ([]domain.Room, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	FindByType(ctx context.Context, roomType domain.RoomType) ([]domain.Room, error)
	FindByNumber(ctx context.Context, number domain.RoomNumber) (*domain.Room, error)
}

type BookingRepository interface {
	FindByReference(ctx context.Context, ref domain.BookingReference) (*domain.Booking, error)
	// FindByGuestID returns the bookings of a guest, newest first.
	FindByGuestID(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error)
	// FindActiveOverlapping returns active bookings of the room sharing a night with dr.
	FindActiveOverlapping(ctx context.Context, roomID uuid.UUID, dr domain.DateRange) ([]domain.Booking, error)
	FindPendingCreatedBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
	// Save inserts or updates the booking. An insert that would overlap an
	// active booking of the same room fails with domain.ErrConflict.
	Save(ctx context.Context, booking *domain.Booking) error
}

// Repositories is the set of repositories bound to one connection or transaction.
type Repositories struct {
	Guests   GuestRepository
	Rooms    RoomRepository
	Bookings BookingRepository
}

// Transactor runs fn in a single transaction: committed when fn returns nil,
// rolled back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Guests:   NewGuestRepository(db),
		Rooms:    NewRoomRepository(db),
		Bookings: NewBookingRepository(db),
	}
}
