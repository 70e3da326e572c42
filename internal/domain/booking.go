package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// bookingTransitions lists every legal move of the booking lifecycle.
// CheckedOut and Cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn: {BookingStatusCheckedOut},
}

// ActiveBookingStatuses hold a room: their date ranges may not overlap.
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed || s == BookingStatusCheckedIn
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

func ParseBookingStatus(value string) (BookingStatus, error) {
	s := BookingStatus(value)
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn,
		BookingStatusCheckedOut, BookingStatusCancelled:
		return s, nil
	default:
		return "", Validationf("unknown booking status %q", value)
	}
}

type Booking struct {
	ID               uuid.UUID
	Reference        BookingReference
	GuestID          uuid.UUID
	RoomID           uuid.UUID
	DateRange        DateRange
	GuestCount       int
	TotalAmount      Money
	Status           BookingStatus
	PaymentConfirmed bool
	CreatedAt        time.Time
	CancelledAt      *time.Time
	CheckedInAt      *time.Time
	CheckedOutAt     *time.Time
}

// NewBooking creates a pending booking of room for guest. The total is the
// room's nightly rate multiplied by the number of nights.
func NewBooking(guest *Guest, room *Room, dr DateRange, guestCount int, now time.Time) (*Booking, error) {
	if guest == nil || guest.ID == uuid.Nil {
		return nil, Validationf("guest is required")
	}
	if room == nil || room.ID == uuid.Nil {
		return nil, Validationf("room is required")
	}
	if dr.IsZero() {
		return nil, Validationf("date range is required")
	}
	if guestCount < 1 {
		return nil, Validationf("guest count must be at least 1")
	}
	if !room.CanAccommodate(guestCount) {
		return nil, Validationf("room %s accommodates at most %d guests, requested %d", room.Number, room.MaxCapacity, guestCount)
	}
	ref, err := GenerateBookingReference()
	if err != nil {
		return nil, err
	}
	return &Booking{
		ID:          uuid.New(),
		Reference:   ref,
		GuestID:     guest.ID,
		RoomID:      room.ID,
		DateRange:   dr,
		GuestCount:  guestCount,
		TotalAmount: room.PriceFor(dr),
		Status:      BookingStatusPending,
		CreatedAt:   now,
	}, nil
}

func (b *Booking) transition(next BookingStatus) error {
	if !b.Status.CanTransitionTo(next) {
		return InvalidStatef("booking %s cannot move from %s to %s", b.Reference, b.Status, next)
	}
	b.Status = next
	return nil
}

// ConfirmPayment records a successful charge. A pending booking becomes
// confirmed; calling it again on a confirmed booking is a no-op.
func (b *Booking) ConfirmPayment(now time.Time) error {
	switch b.Status {
	case BookingStatusConfirmed:
		b.PaymentConfirmed = true
		return nil
	case BookingStatusPending:
		if err := b.transition(BookingStatusConfirmed); err != nil {
			return err
		}
		b.PaymentConfirmed = true
		return nil
	default:
		return InvalidStatef("payment can only be confirmed for pending or confirmed bookings, booking %s is %s", b.Reference, b.Status)
	}
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.Status != BookingStatusConfirmed {
		return InvalidStatef("only confirmed bookings can be checked in, booking %s is %s", b.Reference, b.Status)
	}
	if !b.PaymentConfirmed {
		return InvalidStatef("payment for booking %s is not confirmed", b.Reference)
	}
	if !b.DateRange.Contains(now) {
		return InvalidStatef("booking %s can only be checked in between %s and %s",
			b.Reference, b.DateRange.CheckIn().Format(DateLayout), b.DateRange.CheckOut().Format(DateLayout))
	}
	if err := b.transition(BookingStatusCheckedIn); err != nil {
		return err
	}
	b.CheckedInAt = &now
	return nil
}

func (b *Booking) CheckOut(now time.Time) error {
	if b.Status != BookingStatusCheckedIn {
		return InvalidStatef("only checked-in bookings can be checked out, booking %s is %s", b.Reference, b.Status)
	}
	if err := b.transition(BookingStatusCheckedOut); err != nil {
		return err
	}
	b.CheckedOutAt = &now
	return nil
}

// CancellationDeadline is the last instant (exclusive) at which the booking
// may still be cancelled.
func (b *Booking) CancellationDeadline() time.Time {
	return b.DateRange.CheckIn().Add(-CancellationCutoff)
}

func (b *Booking) CanBeCancelled(now time.Time) bool {
	return b.Status.CanTransitionTo(BookingStatusCancelled) && now.Before(b.CancellationDeadline())
}

func (b *Booking) Cancel(now time.Time) error {
	if !b.Status.CanTransitionTo(BookingStatusCancelled) {
		return InvalidStatef("booking %s is %s and cannot be cancelled", b.Reference, b.Status)
	}
	if !now.Before(b.CancellationDeadline()) {
		return PolicyViolationf("booking %s cannot be cancelled within %s of check-in", b.Reference, CancellationCutoff)
	}
	if err := b.transition(BookingStatusCancelled); err != nil {
		return err
	}
	b.CancelledAt = &now
	return nil
}

// Expire releases a pending booking whose payment never arrived. The
// cancellation window does not apply.
func (b *Booking) Expire(now time.Time) error {
	if b.Status != BookingStatusPending {
		return InvalidStatef("only pending bookings can expire, booking %s is %s", b.Reference, b.Status)
	}
	if err := b.transition(BookingStatusCancelled); err != nil {
		return err
	}
	b.CancelledAt = &now
	return nil
}

func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// ConflictsWith reports whether both bookings hold the same room for a shared night.
func (b *Booking) ConflictsWith(other *Booking) bool {
	return b.RoomID == other.RoomID && b.IsActive() && other.IsActive() && b.DateRange.Overlaps(other.DateRange)
}

func (b *Booking) Nights() int {
	return b.DateRange.Nights()
}
