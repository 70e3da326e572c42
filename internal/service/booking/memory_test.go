package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/google/uuid"
)

// memStore is an in-memory database for the use case tests. Transactions are
// serialized and rolled back on error; Save rejects overlapping active
// bookings the way the exclusion constraint does.
type memStore struct {
	txMu     sync.Mutex
	mu       sync.Mutex
	guests   map[uuid.UUID]domain.Guest
	rooms    []domain.Room
	bookings map[uuid.UUID]domain.Booking
	txCount  int
}

func newMemStore(rooms ...domain.Room) *memStore {
	return &memStore{
		guests:   make(map[uuid.UUID]domain.Guest),
		rooms:    rooms,
		bookings: make(map[uuid.UUID]domain.Booking),
	}
}

func (s *memStore) repositories() repository.Repositories {
	return repository.Repositories{
		Guests:   &memGuests{s: s},
		Rooms:    &memRooms{s: s},
		Bookings: &memBookings{s: s},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.txCount++
	guests := make(map[uuid.UUID]domain.Guest, len(s.guests))
	for k, v := range s.guests {
		guests[k] = v
	}
	bookings := make(map[uuid.UUID]domain.Booking, len(s.bookings))
	for k, v := range s.bookings {
		bookings[k] = v
	}
	s.mu.Unlock()

	if err := fn(ctx, s.repositories()); err != nil {
		s.mu.Lock()
		s.guests, s.bookings = guests, bookings
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) booking(ref string) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.Reference.String() == ref {
			return b
		}
	}
	return domain.Booking{}
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

type memGuests struct{ s *memStore }

func (r *memGuests) FindByID(ctx context.Context, id uuid.UUID) (*domain.Guest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.guests[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r *memGuests) FindByEmail(ctx context.Context, email string) (*domain.Guest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.guests {
		if g.Email == domain.NormalizeEmail(email) {
			g := g
			return &g, nil
		}
	}
	return nil, nil
}

func (r *memGuests) Save(ctx context.Context, guest *domain.Guest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, g := range r.s.guests {
		if id != guest.ID && g.Email == guest.Email {
			return domain.Conflictf("guest with email %s already exists", guest.Email)
		}
	}
	r.s.guests[guest.ID] = *guest
	return nil
}

type memRooms struct{ s *memStore }

func (r *memRooms) FindAll(ctx context.Context) ([]domain.Room, error) {
	return append([]domain.Room(nil), r.s.rooms...), nil
}

func (r *memRooms) FindByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	for _, room := range r.s.rooms {
		if room.ID == id {
			room := room
			return &room, nil
		}
	}
	return nil, nil
}

func (r *memRooms) FindByType(ctx context.Context, roomType domain.RoomType) ([]domain.Room, error) {
	var rooms []domain.Room
	for _, room := range r.s.rooms {
		if room.Type == roomType {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

func (r *memRooms) FindByNumber(ctx context.Context, number domain.RoomNumber) (*domain.Room, error) {
	for _, room := range r.s.rooms {
		if room.Number == number {
			room := room
			return &room, nil
		}
	}
	return nil, nil
}

type memBookings struct{ s *memStore }

func (r *memBookings) FindByReference(ctx context.Context, ref domain.BookingReference) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.Reference == ref {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (r *memBookings) FindByGuestID(ctx context.Context, guestID uuid.UUID) ([]domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found []domain.Booking
	for _, b := range r.s.bookings {
		if b.GuestID == guestID {
			found = append(found, b)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.After(found[j].CreatedAt) })
	return found, nil
}

func (r *memBookings) FindActiveOverlapping(ctx context.Context, roomID uuid.UUID, dr domain.DateRange) ([]domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found []domain.Booking
	for _, b := range r.s.bookings {
		if b.RoomID == roomID && b.IsActive() && b.DateRange.Overlaps(dr) {
			found = append(found, b)
		}
	}
	return found, nil
}

func (r *memBookings) FindPendingCreatedBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found []domain.Booking
	for _, b := range r.s.bookings {
		if b.Status == domain.BookingStatusPending && b.CreatedAt.Before(deadline) {
			found = append(found, b)
		}
	}
	return found, nil
}

func (r *memBookings) Save(ctx context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, other := range r.s.bookings {
		if id != booking.ID && booking.ConflictsWith(&other) {
			return domain.Conflictf("room is already booked for %s", booking.DateRange)
		}
	}
	r.s.bookings[booking.ID] = *booking
	return nil
}

// stubClock is a settable domain.Clock.
type stubClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stubClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
