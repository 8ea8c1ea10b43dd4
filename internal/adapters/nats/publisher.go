package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/minjae-ko/loopline/internal/core/domain"
)

// Subjects for booking lifecycle events.
const (
	SubjectBookingCreated   = "loopline.booking.created"
	SubjectBookingCancelled = "loopline.booking.cancelled"
	SubjectBroadcast        = "loopline.updates.broadcast"
)

// bookingCancelledEvent is the wire form of a cancellation; the full booking
// is not replayed, consumers look it up if they need more.
type bookingCancelledEvent struct {
	BookingID   string    `json:"booking_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the booking
// event stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      "LOOPLINE_BOOKINGS",
		Subjects:  []string{"loopline.booking.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishBookingCreated publishes the full booking on the created subject.
func (p *Publisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectBookingCreated, data)
	return err
}

// PublishBookingCancelled publishes a cancellation notice.
func (p *Publisher) PublishBookingCancelled(ctx context.Context, bookingID string) error {
	data, err := json.Marshal(bookingCancelledEvent{
		BookingID:   bookingID,
		CancelledAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectBookingCancelled, data)
	return err
}

// PublishBroadcast publishes on the plain (non-JetStream) broadcast subject
// feeding the WebSocket relay.
func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return p.conn.Publish(SubjectBroadcast, data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
