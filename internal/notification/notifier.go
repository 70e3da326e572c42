// Package notification turns booking lifecycle changes into Kafka events. The
// worker consumes the notifications topic and mails the guest.
package notification

import (
	"context"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
)

type Event struct {
	Type       string
	Booking    *domain.Booking
	RoomNumber domain.RoomNumber
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// notificationAttempts bounds retries on the topic guests are mailed from.
const notificationAttempts = 3

type KafkaNotifier struct {
	producer           Publisher
	eventsTopic        string
	notificationsTopic string
	now                func() time.Time
}

func NewKafkaNotifier(producer Publisher, eventsTopic, notificationsTopic string) *KafkaNotifier {
	return &KafkaNotifier{
		producer:           producer,
		eventsTopic:        eventsTopic,
		notificationsTopic: notificationsTopic,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// Notify publishes the event to the events topic and, when configured, to the
// notifications topic. Both are keyed by booking reference; only the
// notifications publish is retried.
func (n *KafkaNotifier) Notify(ctx context.Context, guest *domain.Guest, event Event) error {
	payload := NewBookingEvent(guest, event, n.now())
	key := event.Booking.Reference.String()

	if n.eventsTopic != "" {
		if err := n.producer.Publish(ctx, n.eventsTopic, key, payload); err != nil {
			return err
		}
	}
	if n.notificationsTopic != "" {
		return n.producer.PublishWithRetry(ctx, n.notificationsTopic, key, payload, notificationAttempts)
	}
	return nil
}

func NewBookingEvent(guest *domain.Guest, event Event, at time.Time) kafka.BookingEvent {
	b := event.Booking
	payload := kafka.BookingEvent{
		Type:        event.Type,
		Reference:   b.Reference.String(),
		RoomNumber:  event.RoomNumber.String(),
		CheckIn:     b.DateRange.CheckIn().Format(domain.DateLayout),
		CheckOut:    b.DateRange.CheckOut().Format(domain.DateLayout),
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount.String(),
		OccurredAt:  at,
	}
	if guest != nil {
		payload.GuestEmail = guest.Email
		payload.GuestName = guest.FullName()
	}
	return payload
}
