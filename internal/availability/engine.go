// Package availability decides which rooms are free for a stay.
//
// A room is free when it passes the static filters (type, capacity, the
// room's own availability flag) and none of its active bookings shares a
// night with the requested range. Ranges are half-open, so a stay may start
// on the day another one ends.
package availability

import (
	"context"
	"fmt"
	"sort"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/google/uuid"
)

// BookingFinder loads the active bookings of a room that may overlap dr.
// Implementations may over-fetch; the engine re-checks every range.
type BookingFinder interface {
	FindActiveOverlapping(ctx context.Context, roomID uuid.UUID, dr domain.DateRange) ([]domain.Booking, error)
}

type Query struct {
	DateRange  domain.DateRange
	GuestCount int
	// RoomType restricts the search when set.
	RoomType *domain.RoomType
}

func (q Query) Validate() error {
	if q.DateRange.IsZero() {
		return domain.Validationf("date range is required")
	}
	if q.GuestCount < 1 {
		return domain.Validationf("guest count must be at least 1")
	}
	return nil
}

type Candidate struct {
	Room       domain.Room
	Nights     int
	TotalPrice domain.Money
}

type Engine struct {
	bookings BookingFinder
}

func NewEngine(bookings BookingFinder) *Engine {
	return &Engine{bookings: bookings}
}

// Available returns the rooms matching q, sorted by room number. No match is
// an empty slice, not an error.
func (e *Engine) Available(ctx context.Context, rooms []domain.Room, q Query) ([]Candidate, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(rooms))
	for _, room := range Filter(rooms, q) {
		free, err := e.RoomAvailable(ctx, room, q.DateRange)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}
		candidates = append(candidates, Candidate{
			Room:       room,
			Nights:     q.DateRange.Nights(),
			TotalPrice: room.PriceFor(q.DateRange),
		})
	}
	return candidates, nil
}

// RoomAvailable reports whether room has no active booking overlapping dr.
func (e *Engine) RoomAvailable(ctx context.Context, room domain.Room, dr domain.DateRange) (bool, error) {
	if !room.IsAvailable {
		return false, nil
	}
	existing, err := e.bookings.FindActiveOverlapping(ctx, room.ID, dr)
	if err != nil {
		return false, fmt.Errorf("load bookings of room %s: %w", room.Number, err)
	}
	return IsFree(room.ID, dr, existing), nil
}

// Filter applies the static criteria of q and sorts the result by room number.
func Filter(rooms []domain.Room, q Query) []domain.Room {
	matched := make([]domain.Room, 0, len(rooms))
	for _, room := range rooms {
		if q.RoomType != nil && room.Type != *q.RoomType {
			continue
		}
		if !room.IsAvailable || !room.CanAccommodate(q.GuestCount) {
			continue
		}
		matched = append(matched, room)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Number < matched[j].Number })
	return matched
}

// IsFree is the pairwise overlap test against bookings of any room; only
// active bookings of roomID count.
func IsFree(roomID uuid.UUID, dr domain.DateRange, bookings []domain.Booking) bool {
	for i := range bookings {
		b := &bookings[i]
		if b.RoomID != roomID || !b.IsActive() {
			continue
		}
		if b.DateRange.Overlaps(dr) {
			return false
		}
	}
	return true
}
