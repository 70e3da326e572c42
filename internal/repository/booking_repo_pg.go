package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, reference, guest_id, room_id, check_in, check_out, guest_count, total_amount, currency, status, payment_confirmed, created_at, cancelled_at, checked_in_at, checked_out_at`

type PGBookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) BookingRepository {
	return &PGBookingRepository{db: db}
}

func activeStatuses() []string {
	statuses := make([]string, 0, len(domain.ActiveBookingStatuses))
	for _, s := range domain.ActiveBookingStatuses {
		statuses = append(statuses, string(s))
	}
	return statuses
}

func (r *PGBookingRepository) FindByReference(ctx context.Context, ref domain.BookingReference) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1`, string(ref)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *PGBookingRepository) FindByGuestID(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE guest_id=$1 ORDER BY created_at DESC`, guestID)
}

func (r *PGBookingRepository) FindActiveOverlapping(ctx context.Context, roomID uuid.UUID, dr domain.DateRange) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE room_id=$1 AND status = ANY($2) AND check_in < $4 AND $3 < check_out
		ORDER BY check_in`, roomID, activeStatuses(), dr.CheckIn(), dr.CheckOut())
}

func (r *PGBookingRepository) FindPendingCreatedBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 AND created_at <= $2 ORDER BY created_at`,
		string(domain.BookingStatusPending), deadline)
}

func (r *PGBookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	_, err := r.db.Exec(ctx, `INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			payment_confirmed = EXCLUDED.payment_confirmed,
			cancelled_at = EXCLUDED.cancelled_at,
			checked_in_at = EXCLUDED.checked_in_at,
			checked_out_at = EXCLUDED.checked_out_at,
			updated_at = now()`,
		b.ID, string(b.Reference), b.GuestID, b.RoomID, b.DateRange.CheckIn(), b.DateRange.CheckOut(),
		b.GuestCount, b.TotalAmount.Amount, b.TotalAmount.Currency, string(b.Status), b.PaymentConfirmed,
		b.CreatedAt, b.CancelledAt, b.CheckedInAt, b.CheckedOutAt)
	switch {
	case err == nil:
		return nil
	case isExclusionViolation(err):
		return domain.Conflictf("room is already booked for %s", b.DateRange)
	case isUniqueViolation(err):
		return domain.Conflictf("booking reference %s already exists", b.Reference)
	default:
		return fmt.Errorf("save booking %s: %w", b.Reference, err)
	}
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b                 domain.Booking
		ref, status       string
		checkIn, checkOut time.Time
	)
	if err := row.Scan(&b.ID, &ref, &b.GuestID, &b.RoomID, &checkIn, &checkOut, &b.GuestCount,
		&b.TotalAmount.Amount, &b.TotalAmount.Currency, &status, &b.PaymentConfirmed,
		&b.CreatedAt, &b.CancelledAt, &b.CheckedInAt, &b.CheckedOutAt); err != nil {
		return nil, err
	}
	dr, err := domain.RestoreDateRange(checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", ref, err)
	}
	b.Reference = domain.BookingReference(ref)
	b.Status = domain.BookingStatus(status)
	b.DateRange = dr
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
