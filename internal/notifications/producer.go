package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"denchetravel/internal/bookings"
	"denchetravel/internal/shared/config"
	"denchetravel/pkg/logger"

	"github.com/IBM/sarama"
)

// Event kinds published on the booking stream
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventPaymentSettled   = "payment.settled"
	EventBookingRefunded  = "booking.refunded"
)

// BookingEvent is the message published for every booking lifecycle change
type BookingEvent struct {
	Type        string    `json:"type"`
	BookingID   string    `json:"booking_id"`
	DepartureID string    `json:"departure_id"`
	UserID      string    `json:"user_id"`
	Seats       int       `json:"seats"`
	Status      string    `json:"status"`
	PaymentKind string    `json:"payment_kind,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Producer publishes booking lifecycle events to Kafka. It implements the
// bookings.Notifier contract; a nil *Producer is not usable, callers should
// pass nil as the Notifier when the stream is disabled.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logger.Logger
}

// NewProducer connects to the configured brokers. Returns (nil, nil) when the
// stream is disabled so the caller can continue without notifications.
func NewProducer(cfg *config.Config, log *logger.Logger) (*Producer, error) {
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    cfg.Kafka.Topic,
		logger:   log,
	}, nil
}

// Close shuts down the underlying producer
func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

func (p *Producer) BookingCreated(ctx context.Context, booking *bookings.Booking) {
	p.publish(ctx, bookingEvent(EventBookingCreated, booking))
}

func (p *Producer) BookingCancelled(ctx context.Context, booking *bookings.Booking) {
	p.publish(ctx, bookingEvent(EventBookingCancelled, booking))
}

func (p *Producer) PaymentSettled(ctx context.Context, booking *bookings.Booking, kind string, amountCents int64) {
	event := bookingEvent(EventPaymentSettled, booking)
	event.PaymentKind = kind
	event.AmountCents = amountCents
	p.publish(ctx, event)
}

func (p *Producer) BookingRefunded(ctx context.Context, booking *bookings.Booking) {
	p.publish(ctx, bookingEvent(EventBookingRefunded, booking))
}

// publish sends the event, keyed by booking id so per-booking ordering is
// preserved within a partition. Delivery failures are logged, never surfaced:
// the booking flow must not fail because the stream is down.
func (p *Producer) publish(ctx context.Context, event BookingEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Error("failed to marshal booking event", "type", event.Type)
		return
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.BookingID),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.logger.WithError(err).Error("failed to publish booking event", "type", event.Type, "booking_id", event.BookingID)
		return
	}

	p.logger.Debug("booking event published",
		"type", event.Type,
		"booking_id", event.BookingID,
		"partition", partition,
		"offset", offset,
	)
}

func bookingEvent(eventType string, booking *bookings.Booking) BookingEvent {
	return BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID.String(),
		DepartureID: booking.DepartureID.String(),
		UserID:      booking.UserID.String(),
		Seats:       booking.Seats,
		Status:      string(booking.Status),
		OccurredAt:  time.Now().UTC(),
	}
}
