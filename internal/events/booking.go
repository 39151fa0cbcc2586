package events

import (
	"context"
	"time"

	"travelbook/pkg/kafka"
	"travelbook/pkg/logger"
	"travelbook/pkg/model"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"

	source        = "travelbook-server"
	schemaVersion = "1"
)

// BookingEvent is the payload published for every booking transition.
type BookingEvent struct {
	BookingID  string    `json:"bookingId"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId"`
	Kind       string    `json:"kind"`
	Travelers  int       `json:"travelers"`
	TotalPrice int64     `json:"totalPrice"`
	Status     string    `json:"status"`
	Phone      string    `json:"phone"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingStatusChanged(ctx context.Context, booking *model.Booking)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

// noopPublisher keeps the service working when no brokers are
// configured.
type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) BookingCreated(context.Context, *model.Booking)       {}
func (noopPublisher) BookingStatusChanged(context.Context, *model.Booking) {}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCreated, booking)
}

func (p *kafkaPublisher) BookingStatusChanged(ctx context.Context, booking *model.Booking) {
	eventType := EventBookingConfirmed
	if booking.Status == model.BookingStatusCancelled {
		eventType = EventBookingCancelled
	}
	p.publish(ctx, eventType, booking)
}

// publish is best effort: booking writes never fail because the broker
// is down.
func (p *kafkaPublisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	event := BookingEvent{
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		ProductID:  booking.ProductID(),
		Kind:       bookingKind(booking),
		Travelers:  booking.Travelers,
		TotalPrice: booking.TotalPrice,
		Status:     booking.Status,
		Phone:      booking.Phone,
		OccurredAt: time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(source).
		WithHeader(kafka.HeaderSchemaVersion, schemaVersion).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func bookingKind(b *model.Booking) string {
	switch {
	case b.TourID != "":
		return "tour"
	case b.CarID != "":
		return "car"
	default:
		return "offer"
	}
}
