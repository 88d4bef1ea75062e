package eventbus

import (
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
)

// PublishedMessage is one message captured by FakePublisher.
type PublishedMessage struct {
	Topic   string
	Message *message.Message
}

// FakePublisher is a message.Publisher for tests that records what was published.
type FakePublisher struct {
	mu          sync.Mutex
	PublishFunc func(topic string, msgs ...*message.Message) error
	published   []PublishedMessage
}

var _ message.Publisher = (*FakePublisher)(nil)

func (f *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishFunc != nil {
		if err := f.PublishFunc(topic, msgs...); err != nil {
			return err
		}
	}
	for _, m := range msgs {
		f.published = append(f.published, PublishedMessage{Topic: topic, Message: m})
	}
	return nil
}

func (f *FakePublisher) Close() error { return nil }

// Topics returns the topics published so far, in order.
func (f *FakePublisher) Topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	topics := make([]string, len(f.published))
	for i, p := range f.published {
		topics[i] = p.Topic
	}
	return topics
}

// Messages returns every captured message.
func (f *FakePublisher) Messages() []PublishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]PublishedMessage(nil), f.published...)
}
