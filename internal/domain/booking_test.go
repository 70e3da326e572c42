package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookedAt = time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

func testGuest(t *testing.T) *Guest {
	t.Helper()
	g, err := NewGuest("John", "Doe", "John.Doe@example.com", "+44 20 1234 5678", 25, bookedAt)
	require.NoError(t, err)
	return g
}

func testRoom(t *testing.T, number string, rt RoomType) *Room {
	t.Helper()
	n, err := NewRoomNumber(number)
	require.NoError(t, err)
	rate := map[RoomType]int64{RoomTypeStandard: 10000, RoomTypeDeluxe: 20000, RoomTypeSuite: 30000}[rt]
	return NewRoom(n, rt, Money{Amount: rate, Currency: DefaultCurrency}, bookedAt)
}

func testBooking(t *testing.T) *Booking {
	t.Helper()
	dr, err := NewDateRange(date(2025, 8, 10), date(2025, 8, 12), bookedAt)
	require.NoError(t, err)
	b, err := NewBooking(testGuest(t), testRoom(t, "101", RoomTypeStandard), dr, 2, bookedAt)
	require.NoError(t, err)
	return b
}

func TestNewGuest(t *testing.T) {
	g := testGuest(t)
	assert.Equal(t, "john.doe@example.com", g.Email)
	assert.Equal(t, "John Doe", g.FullName())
	assert.NotEqual(t, uuid.Nil, g.ID)

	_, err := NewGuest("Young", "Guest", "young@example.com", "", 17, bookedAt)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewGuest("", "Doe", "x@example.com", "", 30, bookedAt)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewGuest("John", "Doe", "not-an-email", "", 30, bookedAt)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewBooking_TotalAmount(t *testing.T) {
	b := testBooking(t)

	assert.Equal(t, BookingStatusPending, b.Status)
	assert.False(t, b.PaymentConfirmed)
	assert.Len(t, b.Reference.String(), 10)
	assert.Equal(t, 2, b.Nights())
	assert.Equal(t, Money{Amount: 20000, Currency: "GBP"}, b.TotalAmount)
	assert.Equal(t, "200.00 GBP", b.TotalAmount.String())
}

func TestNewBooking_Capacity(t *testing.T) {
	dr, err := NewDateRange(date(2025, 8, 10), date(2025, 8, 12), bookedAt)
	require.NoError(t, err)
	guest := testGuest(t)

	testCases := []struct {
		roomType   RoomType
		guestCount int
		wantErr    bool
	}{
		{RoomTypeStandard, 2, false},
		{RoomTypeStandard, 3, true},
		{RoomTypeDeluxe, 3, false},
		{RoomTypeDeluxe, 4, true},
		{RoomTypeSuite, 4, false},
		{RoomTypeSuite, 0, true},
	}

	for _, tc := range testCases {
		room := testRoom(t, "301", tc.roomType)
		b, err := NewBooking(guest, room, dr, tc.guestCount, bookedAt)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrValidation)
			assert.Nil(t, b)
			continue
		}
		require.NoError(t, err)
		assert.LessOrEqual(t, b.GuestCount, room.MaxCapacity.Int())
	}
}

func TestBooking_ConfirmPayment(t *testing.T) {
	b := testBooking(t)

	require.NoError(t, b.ConfirmPayment(bookedAt))
	assert.Equal(t, BookingStatusConfirmed, b.Status)
	assert.True(t, b.PaymentConfirmed)

	require.NoError(t, b.ConfirmPayment(bookedAt), "confirming twice is a no-op")
	assert.Equal(t, BookingStatusConfirmed, b.Status)

	require.NoError(t, b.Cancel(bookedAt))
	assert.ErrorIs(t, b.ConfirmPayment(bookedAt), ErrInvalidState)
}

func TestBooking_CheckIn(t *testing.T) {
	arrival := time.Date(2025, 8, 10, 15, 0, 0, 0, time.UTC)

	t.Run("pending booking", func(t *testing.T) {
		b := testBooking(t)
		assert.ErrorIs(t, b.CheckIn(arrival), ErrInvalidState)
	})

	t.Run("confirmed without payment", func(t *testing.T) {
		b := testBooking(t)
		b.Status = BookingStatusConfirmed
		assert.ErrorIs(t, b.CheckIn(arrival), ErrInvalidState)
		assert.Nil(t, b.CheckedInAt)
	})

	t.Run("before check-in date", func(t *testing.T) {
		b := testBooking(t)
		require.NoError(t, b.ConfirmPayment(bookedAt))
		assert.ErrorIs(t, b.CheckIn(time.Date(2025, 8, 9, 23, 0, 0, 0, time.UTC)), ErrInvalidState)
	})

	t.Run("on check-out date", func(t *testing.T) {
		b := testBooking(t)
		require.NoError(t, b.ConfirmPayment(bookedAt))
		assert.ErrorIs(t, b.CheckIn(date(2025, 8, 12)), ErrInvalidState)
	})

	t.Run("success", func(t *testing.T) {
		b := testBooking(t)
		require.NoError(t, b.ConfirmPayment(bookedAt))
		require.NoError(t, b.CheckIn(arrival))
		assert.Equal(t, BookingStatusCheckedIn, b.Status)
		require.NotNil(t, b.CheckedInAt)
		assert.Equal(t, arrival, *b.CheckedInAt)

		assert.ErrorIs(t, b.CheckIn(arrival), ErrInvalidState)
	})
}

func TestBooking_CheckOut(t *testing.T) {
	b := testBooking(t)
	departure := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, b.CheckOut(departure), ErrInvalidState)

	require.NoError(t, b.ConfirmPayment(bookedAt))
	require.NoError(t, b.CheckIn(time.Date(2025, 8, 10, 15, 0, 0, 0, time.UTC)))
	require.NoError(t, b.CheckOut(departure))
	assert.Equal(t, BookingStatusCheckedOut, b.Status)
	require.NotNil(t, b.CheckedOutAt)
	assert.True(t, b.Status.IsTerminal())

	assert.ErrorIs(t, b.Cancel(bookedAt), ErrInvalidState)
}

func TestBooking_Cancel_Window(t *testing.T) {
	checkIn := date(2025, 8, 10)

	testCases := []struct {
		name   string
		before time.Duration
		want   error
	}{
		{name: "50 hours before", before: 50 * time.Hour},
		{name: "48 hours and a minute before", before: 48*time.Hour + time.Minute},
		{name: "exactly 48 hours before", before: 48 * time.Hour, want: ErrPolicyViolation},
		{name: "47h59m before", before: 47*time.Hour + 59*time.Minute, want: ErrPolicyViolation},
		{name: "40 hours before", before: 40 * time.Hour, want: ErrPolicyViolation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := testBooking(t)
			now := checkIn.Add(-tc.before)

			assert.Equal(t, tc.want == nil, b.CanBeCancelled(now))

			err := b.Cancel(now)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
				assert.Equal(t, BookingStatusPending, b.Status)
				assert.Nil(t, b.CancelledAt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, BookingStatusCancelled, b.Status)
			require.NotNil(t, b.CancelledAt)
			assert.Equal(t, now, *b.CancelledAt)
		})
	}
}

func TestBooking_CancelTwice(t *testing.T) {
	b := testBooking(t)
	require.NoError(t, b.Cancel(bookedAt))
	assert.ErrorIs(t, b.Cancel(bookedAt), ErrInvalidState)
	assert.False(t, b.CanBeCancelled(bookedAt))
}

func TestBooking_Expire(t *testing.T) {
	b := testBooking(t)
	lateNight := date(2025, 8, 9)

	require.NoError(t, b.Expire(lateNight), "expiry ignores the cancellation window")
	assert.Equal(t, BookingStatusCancelled, b.Status)

	confirmed := testBooking(t)
	require.NoError(t, confirmed.ConfirmPayment(bookedAt))
	assert.ErrorIs(t, confirmed.Expire(lateNight), ErrInvalidState)
}

func TestBookingStatus_Transitions(t *testing.T) {
	all := []BookingStatus{
		BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn,
		BookingStatusCheckedOut, BookingStatusCancelled,
	}
	allowed := map[[2]BookingStatus]bool{
		{BookingStatusPending, BookingStatusConfirmed}:    true,
		{BookingStatusPending, BookingStatusCancelled}:    true,
		{BookingStatusConfirmed, BookingStatusCheckedIn}:  true,
		{BookingStatusConfirmed, BookingStatusCancelled}:  true,
		{BookingStatusCheckedIn, BookingStatusCheckedOut}: true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]BookingStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBooking_ConflictsWith_Random(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	roomID := uuid.New()
	base := date(2025, 9, 1)

	randomBooking := func() *Booking {
		in := base.AddDate(0, 0, rnd.Intn(60))
		out := in.AddDate(0, 0, 1+rnd.Intn(10))
		dr, err := RestoreDateRange(in, out)
		require.NoError(t, err)
		return &Booking{RoomID: roomID, DateRange: dr, Status: BookingStatusConfirmed}
	}

	for i := 0; i < 500; i++ {
		a, b := randomBooking(), randomBooking()

		nightsShared := false
		for d := a.DateRange.CheckIn(); d.Before(a.DateRange.CheckOut()); d = d.AddDate(0, 0, 1) {
			if b.DateRange.Contains(d) {
				nightsShared = true
				break
			}
		}
		assert.Equal(t, nightsShared, a.ConflictsWith(b), "%s vs %s", a.DateRange, b.DateRange)
		assert.Equal(t, a.ConflictsWith(b), b.ConflictsWith(a))

		b.Status = BookingStatusCancelled
		assert.False(t, a.ConflictsWith(b))
	}
}
