package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Guest struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Age       GuestAge
	CreatedAt time.Time
}

func NewGuest(firstName, lastName, email, phone string, age int, now time.Time) (*Guest, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	email = NormalizeEmail(email)
	if firstName == "" {
		return nil, Validationf("first name is required")
	}
	if lastName == "" {
		return nil, Validationf("last name is required")
	}
	if email == "" {
		return nil, Validationf("email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, Validationf("invalid email %q", email)
	}
	guestAge, err := NewGuestAge(age)
	if err != nil {
		return nil, err
	}
	return &Guest{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     strings.TrimSpace(phone),
		Age:       guestAge,
		CreatedAt: now,
	}, nil
}

func (g *Guest) FullName() string {
	return g.FirstName + " " + g.LastName
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
