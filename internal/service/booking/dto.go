package booking

import (
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/google/uuid"
)

type CreateBookingInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Age       int    `json:"age"`
	// RoomType and RoomNumber are optional. With a room number the booking is
	// made for that room only; otherwise the lowest free room of the type wins.
	RoomType   string `json:"room_type"`
	RoomNumber string `json:"room_number"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	GuestCount int    `json:"guest_count"`
}

const (
	PaymentApproved = "approved"
	PaymentDeclined = "declined"
	PaymentFailed   = "failed"
)

// PaymentOutcome reports the charge attempted by the request that returned
// the booking. A declined or failed charge keeps the room held until HeldUntil.
type PaymentOutcome struct {
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	HeldUntil *time.Time `json:"held_until,omitempty"`
}

type BookingDTO struct {
	Reference        string     `json:"reference"`
	GuestID          uuid.UUID  `json:"guest_id"`
	RoomNumber       string     `json:"room_number,omitempty"`
	RoomType         string     `json:"room_type,omitempty"`
	CheckIn          string     `json:"check_in"`
	CheckOut         string     `json:"check_out"`
	Nights           int        `json:"nights"`
	GuestCount       int        `json:"guest_count"`
	TotalAmount      string     `json:"total_amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	PaymentConfirmed bool       `json:"payment_confirmed"`
	CreatedAt        time.Time  `json:"created_at"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CheckedInAt      *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt     *time.Time `json:"checked_out_at,omitempty"`
	// Payment is set only by calls that charged the guest.
	Payment *PaymentOutcome `json:"payment,omitempty"`
}

// NewBookingDTO flattens b for transport. room may be nil.
func NewBookingDTO(b *domain.Booking, room *domain.Room) BookingDTO {
	dto := BookingDTO{
		Reference:        b.Reference.String(),
		GuestID:          b.GuestID,
		CheckIn:          b.DateRange.CheckIn().Format(domain.DateLayout),
		CheckOut:         b.DateRange.CheckOut().Format(domain.DateLayout),
		Nights:           b.Nights(),
		GuestCount:       b.GuestCount,
		TotalAmount:      b.TotalAmount.Decimal(),
		Currency:         b.TotalAmount.Currency,
		Status:           string(b.Status),
		PaymentConfirmed: b.PaymentConfirmed,
		CreatedAt:        b.CreatedAt,
		CancelledAt:      b.CancelledAt,
		CheckedInAt:      b.CheckedInAt,
		CheckedOutAt:     b.CheckedOutAt,
	}
	if room != nil {
		dto.RoomNumber = room.Number.String()
		dto.RoomType = string(room.Type)
	}
	return dto
}

type CancellationDTO struct {
	Booking      BookingDTO `json:"booking"`
	RefundIssued bool       `json:"refund_issued"`
}
