package rooms

import (
	"context"
	"log"

	"github.com/Domenick1991/hotelbooking/internal/availability"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/repository"
)

type RoomUseCase interface {
	ListRooms(ctx context.Context) ([]RoomDTO, error)
	// GetRoom returns (nil, nil) for an unknown number.
	GetRoom(ctx context.Context, number string) (*RoomDTO, error)
	CheckAvailability(ctx context.Context, query AvailabilityQuery) ([]AvailableRoomDTO, error)
}

type RoomsCache interface {
	GetRooms(ctx context.Context) ([]domain.Room, error)
	SetRooms(ctx context.Context, rooms []domain.Room) error
}

type AvailabilityQuery struct {
	CheckIn    string `form:"check_in" json:"check_in"`
	CheckOut   string `form:"check_out" json:"check_out"`
	GuestCount int    `form:"guest_count" json:"guest_count"`
	RoomType   string `form:"room_type" json:"room_type"`
}

type RoomDTO struct {
	Number      string `json:"number"`
	RoomType    string `json:"room_type"`
	Floor       int    `json:"floor"`
	MaxCapacity int    `json:"max_capacity"`
	IsAvailable bool   `json:"is_available"`
	NightlyRate string `json:"nightly_rate"`
	Currency    string `json:"currency"`
}

func NewRoomDTO(r domain.Room) RoomDTO {
	return RoomDTO{
		Number:      r.Number.String(),
		RoomType:    string(r.Type),
		Floor:       r.Number.Floor(),
		MaxCapacity: r.MaxCapacity.Int(),
		IsAvailable: r.IsAvailable,
		NightlyRate: r.NightlyRate.Decimal(),
		Currency:    r.NightlyRate.Currency,
	}
}

type AvailableRoomDTO struct {
	RoomDTO
	Nights     int    `json:"nights"`
	TotalPrice string `json:"total_price"`
}

type RoomService struct {
	repo   repository.RoomRepository
	engine *availability.Engine
	cache  RoomsCache
	clock  domain.Clock
}

// NewRoomService wires the inventory read path. cache may be nil.
func NewRoomService(repo repository.RoomRepository, bookings availability.BookingFinder, cache RoomsCache, clock domain.Clock) *RoomService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &RoomService{repo: repo, engine: availability.NewEngine(bookings), cache: cache, clock: clock}
}

func (s *RoomService) ListRooms(ctx context.Context) ([]RoomDTO, error) {
	rooms, err := s.inventory(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]RoomDTO, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, NewRoomDTO(r))
	}
	return result, nil
}

func (s *RoomService) GetRoom(ctx context.Context, number string) (*RoomDTO, error) {
	n, err := domain.NewRoomNumber(number)
	if err != nil {
		return nil, err
	}
	room, err := s.repo.FindByNumber(ctx, n)
	if err != nil || room == nil {
		return nil, err
	}
	dto := NewRoomDTO(*room)
	return &dto, nil
}

// CheckAvailability lists the free rooms for the query, lowest number first.
func (s *RoomService) CheckAvailability(ctx context.Context, query AvailabilityQuery) ([]AvailableRoomDTO, error) {
	dr, err := domain.ParseDateRange(query.CheckIn, query.CheckOut, s.clock.Now())
	if err != nil {
		return nil, err
	}
	q := availability.Query{DateRange: dr, GuestCount: query.GuestCount}
	if query.RoomType != "" {
		rt, err := domain.ParseRoomType(query.RoomType)
		if err != nil {
			return nil, err
		}
		q.RoomType = &rt
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rooms, err := s.inventory(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := s.engine.Available(ctx, rooms, q)
	if err != nil {
		return nil, err
	}

	result := make([]AvailableRoomDTO, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, AvailableRoomDTO{
			RoomDTO:    NewRoomDTO(c.Room),
			Nights:     c.Nights,
			TotalPrice: c.TotalPrice.Decimal(),
		})
	}
	return result, nil
}

// inventory serves the room list from the cache when it can. Cache errors
// only cost a database read.
func (s *RoomService) inventory(ctx context.Context) ([]domain.Room, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRooms(ctx)
		if err != nil {
			log.Printf("read rooms cache: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetRooms(ctx, rooms); err != nil {
			log.Printf("write rooms cache: %v", err)
		}
	}
	return rooms, nil
}

var _ RoomUseCase = (*RoomService)(nil)
