package guildservice

import (
	"context"
	"io"
	"log/slog"

	guilddiscord "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/infrastructure/discord"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace/noop"
)

// ------------------------
// Fake Discord Client
// ------------------------

type FakeDiscordClient struct {
	trace []string

	GetMemberFunc  func(ctx context.Context, guildID, userID string) (*discordgo.Member, error)
	AddRoleFunc    func(ctx context.Context, guildID, userID, roleID string) error
	RemoveRoleFunc func(ctx context.Context, guildID, userID, roleID string) error
	SendEmbedFunc  func(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
}

var _ guilddiscord.Client = (*FakeDiscordClient)(nil)

func (f *FakeDiscordClient) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeDiscordClient) Trace() []string {
	return f.trace
}

func (f *FakeDiscordClient) GetMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	f.record("GetMember")
	if f.GetMemberFunc != nil {
		return f.GetMemberFunc(ctx, guildID, userID)
	}
	return nil, guilddiscord.ErrMemberNotFound
}

func (f *FakeDiscordClient) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	f.record("AddRole")
	if f.AddRoleFunc != nil {
		return f.AddRoleFunc(ctx, guildID, userID, roleID)
	}
	return nil
}

func (f *FakeDiscordClient) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	f.record("RemoveRole")
	if f.RemoveRoleFunc != nil {
		return f.RemoveRoleFunc(ctx, guildID, userID, roleID)
	}
	return nil
}

func (f *FakeDiscordClient) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	f.record("SendEmbed")
	if f.SendEmbedFunc != nil {
		return f.SendEmbedFunc(ctx, channelID, embed)
	}
	return nil
}

func testRunner() *operation.Runner {
	return &operation.Runner{
		Service: "GuildService",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:  noop.NewTracerProvider().Tracer("test"),
		Metrics: metrics.NewNoop(),
	}
}
