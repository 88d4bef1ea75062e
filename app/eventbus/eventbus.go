package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
)

// CorrelationIDKey is the metadata key carrying the request correlation id.
const CorrelationIDKey = "correlation_id"

// EventBus publishes and subscribes to portal domain events.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// eventBus implements EventBus on an in-process Go channel pub/sub.
type eventBus struct {
	*gochannel.GoChannel
	logger *slog.Logger
}

// NewEventBus creates an in-process event bus.
func NewEventBus(logger *slog.Logger) EventBus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            256,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewSlogLogger(logger),
	)
	return &eventBus{GoChannel: pubsub, logger: logger}
}

// Close shuts the underlying pub/sub down.
func (eb *eventBus) Close() error {
	eb.logger.Info("Closing event bus")
	if err := eb.GoChannel.Close(); err != nil {
		return fmt.Errorf("failed to close event bus: %w", err)
	}
	return nil
}

// NewEventMessage JSON-encodes payload into a watermill message and copies the correlation id
// from ctx into its metadata.
func NewEventMessage(ctx context.Context, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if id := attr.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(CorrelationIDKey, id)
	}
	msg.SetContext(ctx)
	return msg, nil
}

// PublishEvent encodes payload and publishes it on topic.
func PublishEvent(ctx context.Context, bus message.Publisher, topic string, payload any) error {
	msg, err := NewEventMessage(ctx, payload)
	if err != nil {
		return err
	}
	if err := bus.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

// DecodePayload unmarshals a message body into T.
func DecodePayload[T any](msg *message.Message) (*T, error) {
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return &payload, nil
}
