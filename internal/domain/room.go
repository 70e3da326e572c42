package domain

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID          uuid.UUID     `json:"id"`
	Number      RoomNumber    `json:"number"`
	Type        RoomType      `json:"room_type"`
	MaxCapacity GuestCapacity `json:"max_capacity"`
	IsAvailable bool          `json:"is_available"`
	NightlyRate Money         `json:"nightly_rate"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewRoom builds an available room with the default capacity of its type.
func NewRoom(number RoomNumber, rt RoomType, rate Money, now time.Time) *Room {
	return &Room{
		ID:          uuid.New(),
		Number:      number,
		Type:        rt,
		MaxCapacity: CapacityFor(rt),
		IsAvailable: true,
		NightlyRate: rate,
		CreatedAt:   now,
	}
}

func (r *Room) CanAccommodate(guestCount int) bool {
	return guestCount >= 1 && guestCount <= r.MaxCapacity.Int()
}

// PriceFor is the nightly rate multiplied by the nights of dr.
func (r *Room) PriceFor(dr DateRange) Money {
	return r.NightlyRate.Multiply(dr.Nights())
}
