package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"travelbook/internal/events"
	"travelbook/pkg/config"
	"travelbook/pkg/kafka"
	"travelbook/pkg/logger"
)

const (
	ServiceName   = "travelbook-notifier"
	consumerGroup = "travelbook-notifier"
)

// The notifier consumes booking lifecycle events and surfaces customer
// confirmation notices. Delivery today is the structured log stream;
// an SMS or email gateway plugs in behind notify.
func main() {
	_ = godotenv.Load()

	cfg := config.LoadWorker(ServiceName)
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Fatal("Kafka brokers must be configured for the notifier")
	}

	consumer, err := kafka.NewConsumer(
		kafka.DefaultConfig(cfg.KafkaBrokers),
		cfg.KafkaBookingTopic,
		consumerGroup,
		cfg.KafkaDLQTopic,
		notify(cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Notifier started", "topic", cfg.KafkaBookingTopic, "group", consumerGroup)
	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Fatal("Consumer stopped", "error", err)
	}
	cfg.Log.Info("Notifier shut down")
}

func notify(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event events.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}

		switch msg.GetEventType() {
		case events.EventBookingCreated:
			log.Info("Booking received, confirmation pending",
				"booking_id", event.BookingID,
				"kind", event.Kind,
				"travelers", event.Travelers,
				"total_price", event.TotalPrice,
				"phone", event.Phone,
			)
		case events.EventBookingConfirmed:
			log.Info("Booking confirmed, notifying customer",
				"booking_id", event.BookingID,
				"phone", event.Phone,
			)
		case events.EventBookingCancelled:
			log.Info("Booking cancelled, notifying customer",
				"booking_id", event.BookingID,
				"phone", event.Phone,
			)
		default:
			log.Warn("Unknown event type, skipping",
				"event_type", msg.GetEventType(),
				"event_id", msg.GetEventID(),
			)
		}
		return nil
	}
}
