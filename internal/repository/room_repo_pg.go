package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const roomColumns = `id, number, room_type, max_capacity, is_available, nightly_rate, currency, created_at`

type PGRoomRepository struct {
	db DBTX
}

func NewRoomRepository(db DBTX) RoomRepository {
	return &PGRoomRepository{db: db}
}

func (r *PGRoomRepository) FindAll(ctx context.Context) ([]domain.Room, error) {
	return r.list(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY number`)
}

func (r *PGRoomRepository) FindByType(ctx context.Context, roomType domain.RoomType) ([]domain.Room, error) {
	return r.list(ctx, `SELECT `+roomColumns+` FROM rooms WHERE room_type=$1 ORDER BY number`, string(roomType))
}

func (r *PGRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	return r.one(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id=$1`, id)
}

func (r *PGRoomRepository) FindByNumber(ctx context.Context, number domain.RoomNumber) (*domain.Room, error) {
	return r.one(ctx, `SELECT `+roomColumns+` FROM rooms WHERE number=$1`, string(number))
}

func (r *PGRoomRepository) list(ctx context.Context, query string, args ...any) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

func (r *PGRoomRepository) one(ctx context.Context, query string, args ...any) (*domain.Room, error) {
	room, err := scanRoom(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return room, err
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var (
		room      domain.Room
		number    string
		roomType  string
		capacity  int
		rate      int64
		currency  string
		createdAt time.Time
	)
	if err := row.Scan(&room.ID, &number, &roomType, &capacity, &room.IsAvailable, &rate, &currency, &createdAt); err != nil {
		return nil, err
	}
	room.Number = domain.RoomNumber(number)
	room.Type = domain.RoomType(roomType)
	room.MaxCapacity = domain.GuestCapacity(capacity)
	room.NightlyRate = domain.Money{Amount: rate, Currency: currency}
	room.CreatedAt = createdAt
	return &room, nil
}

var _ RoomRepository = (*PGRoomRepository)(nil)
