package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher publishes domain events for downstream collaborators
// (mail delivery, notifications, analytics).
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

type watermillPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

// NewKafkaPublisher publishes events to Kafka.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (EventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return &watermillPublisher{publisher: publisher, topic: topic, logger: logger}, nil
}

// NewGoChannelPublisher publishes events on an in-process bus. Used when no
// brokers are configured (development, tests).
func NewGoChannelPublisher(topic string, logger *slog.Logger) EventPublisher {
	publisher := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewSlogLogger(logger),
	)
	return &watermillPublisher{publisher: publisher, topic: topic, logger: logger}
}

func (p *watermillPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("type", event.Type)
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	p.logger.Debug("Event published", "event_id", event.ID, "type", event.Type)
	return nil
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}
