package guests

import (
	"context"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/google/uuid"
)

type GuestUseCase interface {
	RegisterGuest(ctx context.Context, input RegisterGuestInput) (*GuestDTO, error)
	// GetGuest returns (nil, nil) for an unknown id.
	GetGuest(ctx context.Context, id uuid.UUID) (*GuestDTO, error)
	GetGuestBookings(ctx context.Context, id uuid.UUID) ([]booking.BookingDTO, error)
}

type RegisterGuestInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Age       int    `json:"age"`
}

type GuestDTO struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
}

func NewGuestDTO(g *domain.Guest) GuestDTO {
	return GuestDTO{
		ID:        g.ID,
		FirstName: g.FirstName,
		LastName:  g.LastName,
		FullName:  g.FullName(),
		Email:     g.Email,
		Phone:     g.Phone,
		Age:       g.Age.Int(),
		CreatedAt: g.CreatedAt,
	}
}

type GuestService struct {
	guests   repository.GuestRepository
	rooms    repository.RoomRepository
	bookings repository.BookingRepository
	clock    domain.Clock
}

func NewGuestService(repos repository.Repositories, clock domain.Clock) *GuestService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &GuestService{guests: repos.Guests, rooms: repos.Rooms, bookings: repos.Bookings, clock: clock}
}

func (s *GuestService) RegisterGuest(ctx context.Context, input RegisterGuestInput) (*GuestDTO, error) {
	guest, err := domain.NewGuest(input.FirstName, input.LastName, input.Email, input.Phone, input.Age, s.clock.Now())
	if err != nil {
		return nil, err
	}
	existing, err := s.guests.FindByEmail(ctx, guest.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflictf("guest with email %s already exists", guest.Email)
	}
	// the unique index still decides between concurrent registrations
	if err := s.guests.Save(ctx, guest); err != nil {
		return nil, err
	}
	dto := NewGuestDTO(guest)
	return &dto, nil
}

func (s *GuestService) GetGuest(ctx context.Context, id uuid.UUID) (*GuestDTO, error) {
	guest, err := s.guests.FindByID(ctx, id)
	if err != nil || guest == nil {
		return nil, err
	}
	dto := NewGuestDTO(guest)
	return &dto, nil
}

// GetGuestBookings returns the booking history of a guest, newest first.
func (s *GuestService) GetGuestBookings(ctx context.Context, id uuid.UUID) ([]booking.BookingDTO, error) {
	guest, err := s.guests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, domain.NotFoundf("guest %s not found", id)
	}

	bookings, err := s.bookings.FindByGuestID(ctx, id)
	if err != nil {
		return nil, err
	}

	rooms := make(map[uuid.UUID]*domain.Room)
	result := make([]booking.BookingDTO, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		room, ok := rooms[b.RoomID]
		if !ok {
			if room, err = s.rooms.FindByID(ctx, b.RoomID); err != nil {
				return nil, err
			}
			rooms[b.RoomID] = room
		}
		result = append(result, booking.NewBookingDTO(b, room))
	}
	return result, nil
}

var _ GuestUseCase = (*GuestService)(nil)
