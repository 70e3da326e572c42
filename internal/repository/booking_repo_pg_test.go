package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDB answers every statement with the configured error and keeps
// what was sent.
type recordingDB struct {
	err  error
	sql  []string
	args [][]any
}

func (db *recordingDB) record(sql string, args []any) {
	db.sql = append(db.sql, sql)
	db.args = append(db.args, args)
}

func (db *recordingDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.record(sql, args)
	if db.err != nil {
		return pgconn.CommandTag{}, db.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (db *recordingDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.record(sql, args)
	return nil, db.err
}

func (db *recordingDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.record(sql, args)
	return errRow{err: db.err}
}

type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error {
	return r.err
}

func testBooking(t *testing.T) *domain.Booking {
	t.Helper()
	dr, err := domain.RestoreDateRange(time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return &domain.Booking{
		ID:          uuid.New(),
		Reference:   "ABC1234567",
		GuestID:     uuid.New(),
		RoomID:      uuid.New(),
		DateRange:   dr,
		GuestCount:  2,
		TotalAmount: domain.Money{Amount: 20000, Currency: "GBP"},
		Status:      domain.BookingStatusPending,
		CreatedAt:   time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewRepositories(t *testing.T) {
	repos := NewRepositories(&pgxpool.Pool{})
	assert.NotNil(t, repos.Guests)
	assert.NotNil(t, repos.Rooms)
	assert.NotNil(t, repos.Bookings)
}

func TestActiveStatuses(t *testing.T) {
	assert.Equal(t, []string{"pending", "confirmed", "checked_in"}, activeStatuses())
}

func TestPGErrorClassification(t *testing.T) {
	exclusion := fmt.Errorf("save booking: %w", &pgconn.PgError{Code: pgExclusionViolation})
	unique := &pgconn.PgError{Code: pgUniqueViolation}
	serialization := fmt.Errorf("commit: %w", &pgconn.PgError{Code: pgSerializationFailure})

	assert.True(t, isExclusionViolation(exclusion))
	assert.False(t, isExclusionViolation(unique))
	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isRetryable(serialization))
	assert.True(t, isRetryable(&pgconn.PgError{Code: pgDeadlockDetected}))
	assert.False(t, isRetryable(errors.New("connection refused")))
	assert.Equal(t, "", pgErrorCode(nil))
}

func TestPGBookingRepository_Save(t *testing.T) {
	testCases := []struct {
		name         string
		dbErr        error
		wantConflict bool
		wantErr      bool
	}{
		{name: "stored"},
		{name: "overlapping active booking", dbErr: &pgconn.PgError{Code: pgExclusionViolation, ConstraintName: "bookings_no_overlap"}, wantConflict: true, wantErr: true},
		{name: "duplicate reference", dbErr: &pgconn.PgError{Code: pgUniqueViolation}, wantConflict: true, wantErr: true},
		{name: "connection lost", dbErr: errors.New("conn closed"), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := &recordingDB{err: tc.dbErr}
			repo := NewBookingRepository(db)
			b := testBooking(t)

			err := repo.Save(context.Background(), b)

			if !tc.wantErr {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tc.wantConflict, errors.Is(err, domain.ErrConflict))
			}
			if tc.dbErr != nil && !tc.wantConflict {
				assert.ErrorIs(t, err, tc.dbErr)
			}

			require.Len(t, db.args, 1)
			args := db.args[0]
			assert.Contains(t, db.sql[0], "ON CONFLICT (id) DO UPDATE")
			assert.Equal(t, b.ID, args[0])
			assert.Equal(t, "ABC1234567", args[1])
			assert.Equal(t, b.DateRange.CheckIn(), args[4])
			assert.Equal(t, b.DateRange.CheckOut(), args[5])
			assert.Equal(t, int64(20000), args[7])
			assert.Equal(t, "pending", args[9])
		})
	}
}

func TestPGBookingRepository_FindActiveOverlapping(t *testing.T) {
	dbErr := errors.New("conn closed")
	db := &recordingDB{err: dbErr}
	repo := NewBookingRepository(db)
	b := testBooking(t)

	_, err := repo.FindActiveOverlapping(context.Background(), b.RoomID, b.DateRange)

	assert.ErrorIs(t, err, dbErr)
	require.Len(t, db.sql, 1)
	// Half-open overlap: existing.check_in < new.check_out AND new.check_in < existing.check_out.
	assert.Contains(t, db.sql[0], "room_id=$1 AND status = ANY($2) AND check_in < $4 AND $3 < check_out")
	assert.Equal(t, []any{b.RoomID, []string{"pending", "confirmed", "checked_in"}, b.DateRange.CheckIn(), b.DateRange.CheckOut()}, db.args[0])
}

func TestPGBookingRepository_FindByReference(t *testing.T) {
	repo := NewBookingRepository(&recordingDB{err: pgx.ErrNoRows})

	found, err := repo.FindByReference(context.Background(), "ZZZZZZZZZZ")

	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestPGBookingRepository_FindByGuestID_NewestFirst(t *testing.T) {
	db := &recordingDB{err: errors.New("conn closed")}
	repo := NewBookingRepository(db)

	_, err := repo.FindByGuestID(context.Background(), uuid.New())

	assert.Error(t, err)
	assert.Contains(t, db.sql[0], "ORDER BY created_at DESC")
}

func TestPGGuestRepository_SaveDuplicateEmail(t *testing.T) {
	repo := NewGuestRepository(&recordingDB{err: &pgconn.PgError{Code: pgUniqueViolation}})
	guest, err := domain.NewGuest("John", "Doe", "john.doe@example.com", "", 30, time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Save(context.Background(), guest), domain.ErrConflict)
}
