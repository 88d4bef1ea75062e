package eventbus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type FakeNATS struct {
	mu          sync.Mutex
	PublishFunc func(m *nats.Msg) error
	published   []*nats.Msg
}

func (f *FakeNATS) PublishMsg(m *nats.Msg) error {
	f.mu.Lock()
	f.published = append(f.published, m)
	f.mu.Unlock()
	if f.PublishFunc != nil {
		return f.PublishFunc(m)
	}
	return nil
}

func (f *FakeNATS) Published() []*nats.Msg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*nats.Msg(nil), f.published...)
}

var _ NATSPublisher = (*FakeNATS)(nil)

func TestPublishEvent_RoundTrip(t *testing.T) {
	bus := NewEventBus(testLogger())
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	msgs, err := bus.Subscribe(ctx, WhitelistApprovedV1)
	require.NoError(t, err)

	payload := WhitelistDecisionPayload{RequestID: "req-1", DiscordID: "42", Status: "approved"}
	require.NoError(t, PublishEvent(attr.WithCorrelationID(ctx, "corr-1"), bus, WhitelistApprovedV1, payload))

	select {
	case msg := <-msgs:
		got, err := DecodePayload[WhitelistDecisionPayload](msg)
		require.NoError(t, err)
		assert.Equal(t, payload, *got)
		assert.Equal(t, "corr-1", msg.Metadata.Get(CorrelationIDKey))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestNATSForwarder_Forwards(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		publishErr error
		wantSubj   string
	}{
		{name: "with prefix", prefix: "portal", wantSubj: "portal." + UserBlacklistedV1},
		{name: "without prefix", prefix: "", wantSubj: UserBlacklistedV1},
		{name: "transient nats failure is retried", prefix: "portal", publishErr: errors.New("down"), wantSubj: "portal." + UserBlacklistedV1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewEventBus(testLogger())
			fake := &FakeNATS{}
			var once sync.Once
			if tt.publishErr != nil {
				fake.PublishFunc = func(m *nats.Msg) error {
					var err error
					once.Do(func() { err = tt.publishErr })
					return err
				}
			}

			ctx, cancel := context.WithCancel(context.Background())
			fwd := NewNATSForwarder(bus, fake, tt.prefix, []string{UserBlacklistedV1}, testLogger())
			require.NoError(t, fwd.Start(ctx))

			require.NoError(t, PublishEvent(ctx, bus, UserBlacklistedV1, BlacklistPayload{DiscordID: "7"}))

			assert.Eventually(t, func() bool {
				for _, m := range fake.Published() {
					if m.Subject == tt.wantSubj {
						return true
					}
				}
				return false
			}, time.Second, 10*time.Millisecond)

			cancel()
			require.NoError(t, bus.Close())
			fwd.Wait()
		})
	}
}

func TestNATSForwarder_GivesUpAfterBoundedRetries(t *testing.T) {
	bus := NewEventBus(testLogger())
	fake := &FakeNATS{PublishFunc: func(m *nats.Msg) error { return errors.New("nats unavailable") }}

	ctx, cancel := context.WithCancel(context.Background())
	fwd := NewNATSForwarder(bus, fake, "portal", []string{UserBlacklistedV1}, testLogger())
	fwd.retry.MaxRetries = 2
	fwd.retry.InitialInterval = time.Millisecond
	fwd.retry.MaxInterval = 5 * time.Millisecond
	require.NoError(t, fwd.Start(ctx))

	require.NoError(t, PublishEvent(ctx, bus, UserBlacklistedV1, BlacklistPayload{DiscordID: "7"}))
	require.NoError(t, PublishEvent(ctx, bus, UserBlacklistedV1, BlacklistPayload{DiscordID: "8"}))

	// One initial attempt plus two retries per event, and the second event is still delivered.
	assert.Eventually(t, func() bool { return len(fake.Published()) == 6 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	published := fake.Published()
	require.Len(t, published, 6)
	ids := map[string]int{}
	for _, m := range published {
		ids[m.Header.Get("Nats-Msg-Id")]++
	}
	assert.Len(t, ids, 2)
	for id, n := range ids {
		assert.Equal(t, 3, n, "attempts for %s", id)
	}

	cancel()
	require.NoError(t, bus.Close())
	fwd.Wait()
}
