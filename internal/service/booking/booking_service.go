package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/availability"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/notification"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/google/uuid"
)

const (
	defaultHoldTTL = 15 * time.Minute
	defaultLockTTL = 10 * time.Second
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingDTO, error)
	// GetBooking returns (nil, nil) when no booking has the reference.
	GetBooking(ctx context.Context, reference string) (*BookingDTO, error)
	CancelBooking(ctx context.Context, reference string) (*CancellationDTO, error)
	ConfirmPayment(ctx context.Context, reference string) (*BookingDTO, error)
	CheckIn(ctx context.Context, reference string) (*BookingDTO, error)
	CheckOut(ctx context.Context, reference string) (*BookingDTO, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

// Cache is the room hold lock for one stay. It only narrows the race window;
// the database constraint is what prevents double booking.
// AcquireRoomLock returns an empty token when another request holds the lock.
type Cache interface {
	AcquireRoomLock(ctx context.Context, roomID uuid.UUID, dr domain.DateRange, ttl time.Duration) (string, error)
	ReleaseRoomLock(ctx context.Context, roomID uuid.UUID, dr domain.DateRange, token string) error
}

type PaymentService interface {
	Charge(ctx context.Context, ref domain.BookingReference, amount domain.Money) (bool, error)
	Refund(ctx context.Context, ref domain.BookingReference, amount domain.Money) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, guest *domain.Guest, event notification.Event) error
}

type BookingService struct {
	repos    repository.Repositories
	tx       repository.Transactor
	engine   *availability.Engine
	payments PaymentService
	cache    Cache
	notifier Notifier
	clock    domain.Clock
	holdTTL  time.Duration
	lockTTL  time.Duration
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache, lockTTL time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
		if lockTTL > 0 {
			s.lockTTL = lockTTL
		}
	}
}

func WithNotifier(notifier Notifier) BookingServiceOption {
	return func(s *BookingService) {
		s.notifier = notifier
	}
}

func WithClock(clock domain.Clock) BookingServiceOption {
	return func(s *BookingService) {
		s.clock = clock
	}
}

// WithHoldTTL sets how long an unpaid booking keeps its room.
func WithHoldTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if ttl > 0 {
			s.holdTTL = ttl
		}
	}
}

// NewBookingService reads through repos and writes through tx.
func NewBookingService(
	repos repository.Repositories,
	tx repository.Transactor,
	payments PaymentService,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		repos:    repos,
		tx:       tx,
		engine:   availability.NewEngine(repos.Bookings),
		payments: payments,
		clock:    domain.RealClock{},
		holdTTL:  defaultHoldTTL,
		lockTTL:  defaultLockTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingDTO, error) {
	now := s.clock.Now()

	if _, err := domain.NewGuestCapacity(input.GuestCount); err != nil {
		return nil, err
	}
	dr, err := domain.ParseDateRange(input.CheckIn, input.CheckOut, now)
	if err != nil {
		return nil, err
	}
	applicant, err := domain.NewGuest(input.FirstName, input.LastName, input.Email, input.Phone, input.Age, now)
	if err != nil {
		return nil, err
	}

	rooms, err := s.candidates(ctx, input, dr)
	if err != nil {
		return nil, err
	}

	for i := range rooms {
		room := rooms[i]
		last := input.RoomNumber != "" || i == len(rooms)-1

		// A busy lock only means another request is after the same stay. The
		// last candidate goes on to the transactional check regardless.
		hold, held := s.holdRoom(ctx, room.ID, dr)
		if !held && !last {
			log.Printf("room %s is held for %s by another request, trying next", room.Number, dr)
			continue
		}

		booking, guest, err := s.reserve(ctx, applicant, &room, dr, input.GuestCount, now)
		s.releaseRoom(ctx, hold)
		if errors.Is(err, domain.ErrConflict) && !last {
			log.Printf("room %s taken concurrently, trying next: %v", room.Number, err)
			continue
		}
		if err != nil {
			return nil, err
		}

		booking, payment, err := s.settle(ctx, booking)
		if err != nil {
			return nil, err
		}

		eventType := kafka.EventBookingCreated
		if booking.Status == domain.BookingStatusConfirmed {
			eventType = kafka.EventBookingConfirmed
		}
		s.notify(ctx, guest, eventType, booking, &room)

		dto := NewBookingDTO(booking, &room)
		dto.Payment = &payment
		return &dto, nil
	}

	return nil, domain.Conflictf("no room is available for %s", dr)
}

// candidates returns the rooms a new booking may take, best first.
func (s *BookingService) candidates(ctx context.Context, input CreateBookingInput, dr domain.DateRange) ([]domain.Room, error) {
	var roomType *domain.RoomType
	if input.RoomType != "" {
		rt, err := domain.ParseRoomType(input.RoomType)
		if err != nil {
			return nil, err
		}
		roomType = &rt
	}

	if input.RoomNumber != "" {
		number, err := domain.NewRoomNumber(input.RoomNumber)
		if err != nil {
			return nil, err
		}
		room, err := s.repos.Rooms.FindByNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, domain.NotFoundf("room %s does not exist", number)
		}
		if roomType != nil && room.Type != *roomType {
			return nil, domain.Validationf("room %s is a %s room, not %s", number, room.Type, *roomType)
		}
		if !room.CanAccommodate(input.GuestCount) {
			return nil, domain.Validationf("room %s accommodates at most %d guests", number, room.MaxCapacity)
		}
		free, err := s.engine.RoomAvailable(ctx, *room, dr)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, domain.Conflictf("room %s is not available for %s", number, dr)
		}
		return []domain.Room{*room}, nil
	}

	var (
		rooms []domain.Room
		err   error
	)
	if roomType != nil {
		rooms, err = s.repos.Rooms.FindByType(ctx, *roomType)
	} else {
		rooms, err = s.repos.Rooms.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	found, err := s.engine.Available(ctx, rooms, availability.Query{DateRange: dr, GuestCount: input.GuestCount, RoomType: roomType})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, domain.Conflictf("no room is available for %s", dr)
	}
	candidates := make([]domain.Room, 0, len(found))
	for _, c := range found {
		candidates = append(candidates, c.Room)
	}
	return candidates, nil
}

// reserve stores a pending booking of room. Availability is checked again
// inside the transaction; the exclusion constraint backs it up on insert.
func (s *BookingService) reserve(ctx context.Context, applicant *domain.Guest, room *domain.Room, dr domain.DateRange, guestCount int, now time.Time) (*domain.Booking, *domain.Guest, error) {
	var (
		booking *domain.Booking
		guest   *domain.Guest
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		guest, err = repos.Guests.FindByEmail(ctx, applicant.Email)
		if err != nil {
			return err
		}
		if guest == nil {
			guest = applicant
			if err := repos.Guests.Save(ctx, guest); err != nil {
				return err
			}
		}

		booking, err = domain.NewBooking(guest, room, dr, guestCount, now)
		if err != nil {
			return err
		}

		free, err := availability.NewEngine(repos.Bookings).RoomAvailable(ctx, *room, dr)
		if err != nil {
			return err
		}
		if !free {
			return domain.Conflictf("room %s was booked for %s by another request", room.Number, dr)
		}
		return repos.Bookings.Save(ctx, booking)
	})
	if err != nil {
		return nil, nil, err
	}
	return booking, guest, nil
}

// settle charges a fresh booking. A declined or failed charge leaves it
// pending until the hold expires; the outcome tells the caller which.
func (s *BookingService) settle(ctx context.Context, booking *domain.Booking) (*domain.Booking, PaymentOutcome, error) {
	heldUntil := booking.CreatedAt.Add(s.holdTTL)
	approved, err := s.payments.Charge(ctx, booking.Reference, booking.TotalAmount)
	if err != nil {
		log.Printf("WARNING: payment for booking %s failed: %v", booking.Reference, err)
		return booking, PaymentOutcome{Status: PaymentFailed, Error: err.Error(), HeldUntil: &heldUntil}, nil
	}
	if !approved {
		log.Printf("payment for booking %s declined, room held until %s", booking.Reference, heldUntil.Format(time.RFC3339))
		return booking, PaymentOutcome{Status: PaymentDeclined, HeldUntil: &heldUntil}, nil
	}
	paid, err := s.recordPayment(ctx, booking.Reference)
	if err != nil {
		return nil, PaymentOutcome{}, err
	}
	return paid, PaymentOutcome{Status: PaymentApproved}, nil
}

// recordPayment marks a charged booking as paid. If that cannot be stored
// the charge is refunded.
func (s *BookingService) recordPayment(ctx context.Context, ref domain.BookingReference) (*domain.Booking, error) {
	booking, err := s.update(ctx, ref, func(b *domain.Booking, now time.Time) error {
		return b.ConfirmPayment(now)
	})
	if err != nil {
		if b, lookupErr := s.repos.Bookings.FindByReference(ctx, ref); lookupErr == nil && b != nil {
			if _, refundErr := s.payments.Refund(ctx, ref, b.TotalAmount); refundErr != nil {
				log.Printf("WARNING: refund of booking %s failed: %v", ref, refundErr)
			}
		}
		return nil, fmt.Errorf("confirm payment of booking %s: %w", ref, err)
	}
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, reference string) (*BookingDTO, error) {
	ref, err := domain.ParseBookingReference(reference)
	if err != nil {
		return nil, err
	}
	booking, err := s.repos.Bookings.FindByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, nil
	}
	room, err := s.repos.Rooms.FindByID(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	dto := NewBookingDTO(booking, room)
	return &dto, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, reference string) (*CancellationDTO, error) {
	ref, err := domain.ParseBookingReference(reference)
	if err != nil {
		return nil, err
	}
	booking, err := s.update(ctx, ref, func(b *domain.Booking, now time.Time) error {
		return b.Cancel(now)
	})
	if err != nil {
		return nil, err
	}

	refunded := false
	if booking.PaymentConfirmed {
		refunded, err = s.payments.Refund(ctx, booking.Reference, booking.TotalAmount)
		if err != nil {
			log.Printf("WARNING: refund of booking %s failed: %v", booking.Reference, err)
			refunded = false
		}
	}

	room := s.roomOf(ctx, booking)
	s.notify(ctx, nil, kafka.EventBookingCancelled, booking, room)
	return &CancellationDTO{Booking: NewBookingDTO(booking, room), RefundIssued: refunded}, nil
}

// ConfirmPayment charges a pending booking again. Confirming a paid booking
// returns it unchanged.
func (s *BookingService) ConfirmPayment(ctx context.Context, reference string) (*BookingDTO, error) {
	ref, err := domain.ParseBookingReference(reference)
	if err != nil {
		return nil, err
	}
	booking, err := s.repos.Bookings.FindByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.NotFoundf("booking %s not found", ref)
	}

	charged := false
	switch {
	case booking.Status == domain.BookingStatusConfirmed && booking.PaymentConfirmed:
	case booking.Status == domain.BookingStatusPending:
		approved, err := s.payments.Charge(ctx, booking.Reference, booking.TotalAmount)
		if err != nil {
			return nil, fmt.Errorf("charge booking %s: %w", ref, err)
		}
		if !approved {
			return nil, domain.Conflictf("payment of %s for booking %s was declined", booking.TotalAmount, ref)
		}
		if booking, err = s.recordPayment(ctx, ref); err != nil {
			return nil, err
		}
		charged = true
	default:
		return nil, domain.InvalidStatef("booking %s is %s, payment cannot be taken", ref, booking.Status)
	}

	room := s.roomOf(ctx, booking)
	if charged {
		s.notify(ctx, nil, kafka.EventBookingConfirmed, booking, room)
	}
	dto := NewBookingDTO(booking, room)
	if charged {
		dto.Payment = &PaymentOutcome{Status: PaymentApproved}
	}
	return &dto, nil
}

func (s *BookingService) CheckIn(ctx context.Context, reference string) (*BookingDTO, error) {
	return s.transition(ctx, reference, kafka.EventGuestCheckedIn, func(b *domain.Booking, now time.Time) error {
		return b.CheckIn(now)
	})
}

func (s *BookingService) CheckOut(ctx context.Context, reference string) (*BookingDTO, error) {
	return s.transition(ctx, reference, kafka.EventGuestCheckedOut, func(b *domain.Booking, now time.Time) error {
		return b.CheckOut(now)
	})
}

// ExpirePendingBookings cancels bookings that stayed unpaid longer than the
// hold TTL and returns them.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	deadline := s.clock.Now().Add(-s.holdTTL)
	pending, err := s.repos.Bookings.FindPendingCreatedBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}

	expired := make([]domain.Booking, 0, len(pending))
	for _, p := range pending {
		booking, err := s.update(ctx, p.Reference, func(b *domain.Booking, now time.Time) error {
			return b.Expire(now)
		})
		if errors.Is(err, domain.ErrInvalidState) {
			// paid in the meantime
			continue
		}
		if err != nil {
			return expired, err
		}
		expired = append(expired, *booking)
		s.notify(ctx, nil, kafka.EventBookingExpired, booking, s.roomOf(ctx, booking))
	}
	return expired, nil
}

func (s *BookingService) transition(ctx context.Context, reference, eventType string, apply func(*domain.Booking, time.Time) error) (*BookingDTO, error) {
	ref, err := domain.ParseBookingReference(reference)
	if err != nil {
		return nil, err
	}
	booking, err := s.update(ctx, ref, apply)
	if err != nil {
		return nil, err
	}
	room := s.roomOf(ctx, booking)
	s.notify(ctx, nil, eventType, booking, room)
	dto := NewBookingDTO(booking, room)
	return &dto, nil
}

// update loads the booking, applies a state change and saves it in one
// transaction.
func (s *BookingService) update(ctx context.Context, ref domain.BookingReference, apply func(*domain.Booking, time.Time) error) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		current, err := repos.Bookings.FindByReference(ctx, ref)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.NotFoundf("booking %s not found", ref)
		}
		if err := apply(current, s.clock.Now()); err != nil {
			return err
		}
		if err := repos.Bookings.Save(ctx, current); err != nil {
			return err
		}
		booking = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// roomHold is a lock taken by this request. An empty token means nothing
// needs releasing.
type roomHold struct {
	roomID uuid.UUID
	dr     domain.DateRange
	token  string
}

// holdRoom reports false only when another request holds the lock for the
// same stay. Without a cache, or when Redis fails, the database decides.
func (s *BookingService) holdRoom(ctx context.Context, roomID uuid.UUID, dr domain.DateRange) (roomHold, bool) {
	if s.cache == nil {
		return roomHold{}, true
	}
	token, err := s.cache.AcquireRoomLock(ctx, roomID, dr, s.lockTTL)
	if err != nil {
		log.Printf("WARNING: room lock unavailable, relying on database: %v", err)
		return roomHold{}, true
	}
	if token == "" {
		return roomHold{}, false
	}
	return roomHold{roomID: roomID, dr: dr, token: token}, true
}

func (s *BookingService) releaseRoom(ctx context.Context, hold roomHold) {
	if s.cache == nil || hold.token == "" {
		return
	}
	if err := s.cache.ReleaseRoomLock(ctx, hold.roomID, hold.dr, hold.token); err != nil {
		log.Printf("WARNING: release room lock %s: %v", hold.roomID, err)
	}
}

func (s *BookingService) roomOf(ctx context.Context, booking *domain.Booking) *domain.Room {
	room, err := s.repos.Rooms.FindByID(ctx, booking.RoomID)
	if err != nil {
		log.Printf("load room of booking %s: %v", booking.Reference, err)
		return nil
	}
	return room
}

// notify never fails the use case. guest is looked up when nil.
func (s *BookingService) notify(ctx context.Context, guest *domain.Guest, eventType string, booking *domain.Booking, room *domain.Room) {
	if s.notifier == nil {
		return
	}
	if guest == nil {
		var err error
		guest, err = s.repos.Guests.FindByID(ctx, booking.GuestID)
		if err != nil || guest == nil {
			log.Printf("WARNING: no guest for %s notification of booking %s: %v", eventType, booking.Reference, err)
			return
		}
	}

	event := notification.Event{Type: eventType, Booking: booking}
	if room != nil {
		event.RoomNumber = room.Number
	}
	if err := s.notifier.Notify(ctx, guest, event); err != nil {
		log.Printf("WARNING: Failed to publish %s event for booking %s: %v", eventType, booking.Reference, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
