package guildhandlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestHandlers(svc *guildservice.FakeService) Handlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuditHandlers(svc, logger, noop.NewTracerProvider().Tracer("test"))
}

func TestHandleWhitelistDecision(t *testing.T) {
	tests := []struct {
		status    string
		wantTitle string
		wantColor int
	}{
		{status: "pending", wantTitle: "New whitelist application", wantColor: guilddomain.ColorInfo},
		{status: "approved", wantTitle: "Whitelist approved", wantColor: guilddomain.ColorSuccess},
		{status: "rejected", wantTitle: "Whitelist rejected", wantColor: guilddomain.ColorDanger},
		{status: "revoked", wantTitle: "Whitelist revoked", wantColor: guilddomain.ColorWarning},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			svc := &guildservice.FakeService{}
			h := newTestHandlers(svc)

			err := h.HandleWhitelistDecision(context.Background(), &eventbus.WhitelistDecisionPayload{
				RequestID:         "req-1",
				DiscordID:         "111",
				CharacterName:     "John Doe",
				Status:            tt.status,
				ReviewerDiscordID: "222",
				OccurredAt:        time.Now(),
			})
			require.NoError(t, err)
			require.Len(t, svc.Notifications, 1)

			n := svc.Notifications[0]
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, tt.wantColor, n.Color)
			assert.Equal(t, "<@111>", n.Fields[0].Value)
			assert.Equal(t, "<@222>", n.Fields[2].Value)
		})
	}
}

func TestHandleRoleChanged(t *testing.T) {
	svc := &guildservice.FakeService{}
	h := newTestHandlers(svc)

	require.NoError(t, h.HandleRoleChanged(context.Background(), &eventbus.RoleChangedPayload{
		DiscordID:      "111",
		ActorDiscordID: "999",
		Role:           "staff",
		Granted:        false,
	}))
	require.Len(t, svc.Notifications, 1)
	assert.Equal(t, "Role staff removed", svc.Notifications[0].Title)
}

func TestHandleUserBlacklisted_PropagatesNotifyError(t *testing.T) {
	svc := &guildservice.FakeService{
		NotifyFunc: func(ctx context.Context, n guilddomain.Notification) error {
			return errors.New("discord unavailable")
		},
	}
	h := newTestHandlers(svc)

	err := h.HandleUserBlacklisted(context.Background(), &eventbus.BlacklistPayload{
		DiscordID:      "111",
		ActorDiscordID: "999",
		Reason:         "cheating",
	})
	assert.Error(t, err)
}

func TestHandleContestPhaseChanged(t *testing.T) {
	svc := &guildservice.FakeService{}
	h := newTestHandlers(svc)

	require.NoError(t, h.HandleContestPhaseChanged(context.Background(), &eventbus.ContestPhasePayload{
		ContestID: "c-1",
		Title:     "Best sunset",
		From:      "submissions",
		To:        "voting",
	}))
	require.Len(t, svc.Notifications, 1)
	assert.Equal(t, "Photo contest: Best sunset", svc.Notifications[0].Title)
	assert.Contains(t, svc.Notifications[0].Description, "**voting**")
}
