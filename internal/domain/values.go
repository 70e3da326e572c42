package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

const (
	MinGuestAge = 18
	MaxGuestAge = 120
)

type GuestAge int

func NewGuestAge(value int) (GuestAge, error) {
	if value < MinGuestAge {
		return 0, Validationf("guest must be at least %d years old", MinGuestAge)
	}
	if value > MaxGuestAge {
		return 0, Validationf("invalid age %d", value)
	}
	return GuestAge(value), nil
}

func (a GuestAge) Int() int { return int(a) }

type RoomType string

const (
	RoomTypeStandard RoomType = "standard"
	RoomTypeDeluxe   RoomType = "deluxe"
	RoomTypeSuite    RoomType = "suite"
)

var RoomTypes = []RoomType{RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite}

func ParseRoomType(value string) (RoomType, error) {
	rt := RoomType(strings.ToLower(strings.TrimSpace(value)))
	switch rt {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite:
		return rt, nil
	default:
		return "", Validationf("unknown room type %q", value)
	}
}

const MaxGuestCapacity = 4

type GuestCapacity int

func NewGuestCapacity(value int) (GuestCapacity, error) {
	if value < 1 {
		return 0, Validationf("guest capacity must be at least 1")
	}
	if value > MaxGuestCapacity {
		return 0, Validationf("maximum guest capacity is %d", MaxGuestCapacity)
	}
	return GuestCapacity(value), nil
}

// CapacityFor is the default capacity of a room type.
func CapacityFor(rt RoomType) GuestCapacity {
	switch rt {
	case RoomTypeDeluxe:
		return 3
	case RoomTypeSuite:
		return 4
	default:
		return 2
	}
}

func (c GuestCapacity) Int() int { return int(c) }

var roomNumberPattern = regexp.MustCompile(`^[1-9][0-9]{2}$`)

// RoomNumber is a three digit identifier: floor digit followed by a two digit
// position on the floor (01-50), e.g. "301".
type RoomNumber string

func NewRoomNumber(value string) (RoomNumber, error) {
	if !roomNumberPattern.MatchString(value) {
		return "", Validationf("room number must be 3 digits (e.g. '301'), got %q", value)
	}
	pos, _ := strconv.Atoi(value[1:])
	if pos < 1 || pos > 50 {
		return "", Validationf("room position on floor must be between 01 and 50, got %q", value)
	}
	return RoomNumber(value), nil
}

// FormatRoomNumber builds the number of the room at position on floor.
func FormatRoomNumber(floor, position int) (RoomNumber, error) {
	return NewRoomNumber(fmt.Sprintf("%d%02d", floor, position))
}

func (n RoomNumber) Floor() int {
	return int(n[0] - '0')
}

func (n RoomNumber) Position() int {
	pos, _ := strconv.Atoi(string(n[1:]))
	return pos
}

func (n RoomNumber) String() string { return string(n) }

const (
	referenceLength   = 10
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// BookingReference is the external lookup key of a booking.
type BookingReference string

func GenerateBookingReference() (BookingReference, error) {
	var sb strings.Builder
	sb.Grow(referenceLength)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := 0; i < referenceLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate booking reference: %w", err)
		}
		sb.WriteByte(referenceAlphabet[n.Int64()])
	}
	return BookingReference(sb.String()), nil
}

func ParseBookingReference(value string) (BookingReference, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if len(value) != referenceLength {
		return "", Validationf("booking reference must be exactly %d characters", referenceLength)
	}
	for _, r := range value {
		if !strings.ContainsRune(referenceAlphabet, r) {
			return "", Validationf("booking reference must contain only letters and digits")
		}
	}
	return BookingReference(value), nil
}

func (r BookingReference) String() string { return string(r) }
