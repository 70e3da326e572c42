package email

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Domenick1991/hotelbooking/internal/kafka"
)

// Sender renders guest notifications. Delivery is simulated by writing the
// message to out.
type Sender struct {
	out io.Writer
}

func NewSender() *Sender {
	return &Sender{out: os.Stdout}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.GuestEmail == "" {
		return fmt.Errorf("event %s for booking %s has no recipient", event.Type, event.Reference)
	}
	_, err := fmt.Fprintf(s.out, "send email to %s <%s>: %s\n", event.GuestName, event.GuestEmail, Subject(event))
	return err
}

func Subject(event kafka.BookingEvent) string {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Booking %s received, awaiting payment", event.Reference)
	case kafka.EventBookingConfirmed:
		return fmt.Sprintf("Booking Confirmation - %s (%s to %s, %s)", event.Reference, event.CheckIn, event.CheckOut, event.TotalAmount)
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Booking Cancellation - %s", event.Reference)
	case kafka.EventBookingExpired:
		return fmt.Sprintf("Booking %s expired, payment was not received", event.Reference)
	case kafka.EventGuestCheckedIn:
		return fmt.Sprintf("Welcome! You are checked in to room %s", event.RoomNumber)
	case kafka.EventGuestCheckedOut:
		return fmt.Sprintf("Thank you for staying with us - %s", event.Reference)
	default:
		return fmt.Sprintf("Booking %s update: %s", event.Reference, event.Status)
	}
}
