package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

// NATSPublisher is the subset of *nats.Conn the forwarder needs.
type NATSPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// ConnectNATS dials NATS, authenticating with an nkey when seed is set.
func ConnectNATS(url, seed string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("fivem-portal"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
	}

	if seed != "" {
		kp, err := nkeys.FromSeed([]byte(seed))
		if err != nil {
			return nil, fmt.Errorf("failed to parse nkey seed: %w", err)
		}
		pub, err := kp.PublicKey()
		if err != nil {
			return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
		}
		opts = append(opts, nats.Nkey(pub, kp.Sign))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// NATSForwarder republishes portal events to NATS so the game server can react to them.
type NATSForwarder struct {
	subscriber message.Subscriber
	nc         NATSPublisher
	prefix     string
	topics     []string
	logger     *slog.Logger
	retry      middleware.Retry
	wg         sync.WaitGroup
}

// NewNATSForwarder creates a forwarder for topics. Subjects are "<prefix>.<topic>".
func NewNATSForwarder(subscriber message.Subscriber, nc NATSPublisher, prefix string, topics []string, logger *slog.Logger) *NATSForwarder {
	return &NATSForwarder{
		subscriber: subscriber,
		nc:         nc,
		prefix:     prefix,
		topics:     topics,
		logger:     logger,
		retry: middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 250 * time.Millisecond,
			Multiplier:      2,
			MaxInterval:     2 * time.Second,
			Logger:          watermill.NewSlogLogger(logger),
		},
	}
}

// Subject returns the NATS subject for a portal topic.
func (f *NATSForwarder) Subject(topic string) string {
	if f.prefix == "" {
		return topic
	}
	return f.prefix + "." + topic
}

// Start subscribes to every topic and forwards until ctx is cancelled. A publish that still fails
// after the retries is logged and acked; the in-process pub/sub would otherwise redeliver it
// immediately and forever.
func (f *NATSForwarder) Start(ctx context.Context) error {
	for _, topic := range f.topics {
		msgs, err := f.subscriber.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}

		publish := f.retry.Middleware(f.publisher(topic))

		f.wg.Add(1)
		go func(topic string, msgs <-chan *message.Message) {
			defer f.wg.Done()
			for msg := range msgs {
				f.forward(ctx, topic, msg, publish)
			}
		}(topic, msgs)
	}

	f.logger.InfoContext(ctx, "NATS forwarder started",
		attr.String("prefix", f.prefix),
		attr.Int("topics", len(f.topics)),
	)
	return nil
}

// Wait blocks until every forwarding goroutine has drained.
func (f *NATSForwarder) Wait() {
	f.wg.Wait()
}

func (f *NATSForwarder) forward(ctx context.Context, topic string, msg *message.Message, publish message.HandlerFunc) {
	msg.SetContext(ctx)

	if _, err := publish(msg); err != nil {
		f.logger.Error("Giving up on forwarding event to NATS",
			attr.String("topic", topic),
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
	}
	msg.Ack()
}

func (f *NATSForwarder) publisher(topic string) message.HandlerFunc {
	subject := f.Subject(topic)
	return func(msg *message.Message) ([]*message.Message, error) {
		out := nats.NewMsg(subject)
		out.Data = msg.Payload
		out.Header.Set("Nats-Msg-Id", msg.UUID)
		if id := msg.Metadata.Get(CorrelationIDKey); id != "" {
			out.Header.Set(CorrelationIDKey, id)
		}

		if err := f.nc.PublishMsg(out); err != nil {
			return nil, fmt.Errorf("publish %s: %w", subject, err)
		}
		return nil, nil
	}
}
