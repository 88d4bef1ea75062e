package guildhandlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"go.opentelemetry.io/otel/trace"
)

// AuditHandlers turns domain events into log channel embeds.
type AuditHandlers struct {
	service guildservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAuditHandlers creates a new AuditHandlers instance.
func NewAuditHandlers(service guildservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &AuditHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleWhitelistDecision reports a whitelist submission or review outcome.
func (h *AuditHandlers) HandleWhitelistDecision(ctx context.Context, payload *eventbus.WhitelistDecisionPayload) error {
	ctx, span := h.tracer.Start(ctx, "AuditHandlers.HandleWhitelistDecision")
	defer span.End()

	title, color := whitelistHeadline(payload.Status)
	n := guilddomain.Notification{
		Title:     title,
		Color:     color,
		Timestamp: payload.OccurredAt,
		Fields: []guilddomain.NotificationField{
			{Name: "Applicant", Value: mention(payload.DiscordID), Inline: true},
			{Name: "Character", Value: payload.CharacterName, Inline: true},
			{Name: "Reviewer", Value: mention(payload.ReviewerDiscordID), Inline: true},
			{Name: "Note", Value: payload.Note},
			{Name: "Request", Value: payload.RequestID},
		},
	}
	return h.notify(ctx, n)
}

func whitelistHeadline(status string) (string, int) {
	switch status {
	case "approved":
		return "Whitelist approved", guilddomain.ColorSuccess
	case "rejected":
		return "Whitelist rejected", guilddomain.ColorDanger
	case "revoked":
		return "Whitelist revoked", guilddomain.ColorWarning
	default:
		return "New whitelist application", guilddomain.ColorInfo
	}
}

// HandleUserBlacklisted reports a blacklisting.
func (h *AuditHandlers) HandleUserBlacklisted(ctx context.Context, payload *eventbus.BlacklistPayload) error {
	ctx, span := h.tracer.Start(ctx, "AuditHandlers.HandleUserBlacklisted")
	defer span.End()

	return h.notify(ctx, guilddomain.Notification{
		Title:     "User blacklisted",
		Color:     guilddomain.ColorDanger,
		Timestamp: payload.OccurredAt,
		Fields: []guilddomain.NotificationField{
			{Name: "User", Value: mention(payload.DiscordID), Inline: true},
			{Name: "By", Value: mention(payload.ActorDiscordID), Inline: true},
			{Name: "Reason", Value: payload.Reason},
		},
	})
}

// HandleUserUnblacklisted reports a lifted blacklist entry.
func (h *AuditHandlers) HandleUserUnblacklisted(ctx context.Context, payload *eventbus.BlacklistPayload) error {
	ctx, span := h.tracer.Start(ctx, "AuditHandlers.HandleUserUnblacklisted")
	defer span.End()

	return h.notify(ctx, guilddomain.Notification{
		Title:     "Blacklist lifted",
		Color:     guilddomain.ColorNeutral,
		Timestamp: payload.OccurredAt,
		Fields: []guilddomain.NotificationField{
			{Name: "User", Value: mention(payload.DiscordID), Inline: true},
			{Name: "By", Value: mention(payload.ActorDiscordID), Inline: true},
		},
	})
}

// HandleRoleChanged reports a role toggled from the admin panel.
func (h *AuditHandlers) HandleRoleChanged(ctx context.Context, payload *eventbus.RoleChangedPayload) error {
	ctx, span := h.tracer.Start(ctx, "AuditHandlers.HandleRoleChanged")
	defer span.End()

	verb := "removed"
	if payload.Granted {
		verb = "granted"
	}
	return h.notify(ctx, guilddomain.Notification{
		Title:     fmt.Sprintf("Role %s %s", payload.Role, verb),
		Color:     guilddomain.ColorRole,
		Timestamp: payload.OccurredAt,
		Fields: []guilddomain.NotificationField{
			{Name: "User", Value: mention(payload.DiscordID), Inline: true},
			{Name: "By", Value: mention(payload.ActorDiscordID), Inline: true},
		},
	})
}

// HandleContestPhaseChanged reports a photo contest phase change.
func (h *AuditHandlers) HandleContestPhaseChanged(ctx context.Context, payload *eventbus.ContestPhasePayload) error {
	ctx, span := h.tracer.Start(ctx, "AuditHandlers.HandleContestPhaseChanged")
	defer span.End()

	return h.notify(ctx, guilddomain.Notification{
		Title:       fmt.Sprintf("Photo contest: %s", payload.Title),
		Description: fmt.Sprintf("Moved from **%s** to **%s**", payload.From, payload.To),
		Color:       guilddomain.ColorContest,
		Timestamp:   payload.OccurredAt,
		Fields: []guilddomain.NotificationField{
			{Name: "Contest", Value: payload.ContestID},
		},
	})
}

func (h *AuditHandlers) notify(ctx context.Context, n guilddomain.Notification) error {
	if err := h.service.Notify(ctx, n); err != nil {
		h.logger.WarnContext(ctx, "Failed to post audit notification",
			attr.ExtractCorrelationID(ctx),
			attr.String("title", n.Title),
			attr.Error(err),
		)
		return err
	}
	return nil
}

func mention(discordID string) string {
	if discordID == "" {
		return ""
	}
	return "<@" + discordID + ">"
}
