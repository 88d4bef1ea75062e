package guildservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	guilddiscord "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/infrastructure/discord"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
	"github.com/bwmarrin/discordgo"
)

// GuildService implements Service against one Discord guild.
type GuildService struct {
	client       guilddiscord.Client
	guildID      string
	logChannelID string
	roles        guilddomain.RoleMap
	runner       *operation.Runner
}

// NewGuildService creates a new GuildService.
func NewGuildService(
	client guilddiscord.Client,
	guildID string,
	logChannelID string,
	roles guilddomain.RoleMap,
	runner *operation.Runner,
) *GuildService {
	return &GuildService{
		client:       client,
		guildID:      guildID,
		logChannelID: logChannelID,
		roles:        roles,
		runner:       runner,
	}
}

// MemberRoles returns the member's live Discord standing. A user outside the guild gets
// InGuild=false and no roles rather than an error.
func (s *GuildService) MemberRoles(ctx context.Context, discordID string) (*guilddomain.Membership, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "MemberRoles", discordID, func(ctx context.Context) (results.OperationResult[*guilddomain.Membership, error], error) {
		member, err := s.client.GetMember(ctx, s.guildID, discordID)
		if err != nil {
			if errors.Is(err, guilddiscord.ErrMemberNotFound) {
				return results.SuccessResult[*guilddomain.Membership, error](&guilddomain.Membership{
					DiscordID: discordID,
					InGuild:   false,
				}), nil
			}
			return results.OperationResult[*guilddomain.Membership, error]{}, err
		}
		return results.SuccessResult[*guilddomain.Membership, error](s.toMembership(discordID, member)), nil
	})
	return operation.Unwrap(result, err)
}

func (s *GuildService) toMembership(discordID string, member *discordgo.Member) *guilddomain.Membership {
	m := &guilddomain.Membership{
		DiscordID: discordID,
		Nick:      member.Nick,
		InGuild:   true,
		Roles:     s.roles.Resolve(member.Roles),
		JoinedAt:  member.JoinedAt,
	}
	if member.User != nil {
		m.Username = member.User.Username
	}
	return m
}

// GrantRole adds the Discord role backing role to the member.
func (s *GuildService) GrantRole(ctx context.Context, discordID string, role guilddomain.Role) error {
	return s.changeRole(ctx, "GrantRole", discordID, role, s.client.AddRole)
}

// RevokeRole removes the Discord role backing role from the member.
func (s *GuildService) RevokeRole(ctx context.Context, discordID string, role guilddomain.Role) error {
	return s.changeRole(ctx, "RevokeRole", discordID, role, s.client.RemoveRole)
}

func (s *GuildService) changeRole(
	ctx context.Context,
	operationName string,
	discordID string,
	role guilddomain.Role,
	apply func(ctx context.Context, guildID, userID, roleID string) error,
) error {
	result, err := operation.WithTelemetry(s.runner, ctx, operationName, discordID, func(ctx context.Context) (results.OperationResult[bool, error], error) {
		roleID, ok := s.roles.DiscordRoleID(role)
		if !ok {
			return results.FailureResult[bool, error](fmt.Errorf("%w: %s", ErrRoleNotConfigured, role)), nil
		}
		if err := apply(ctx, s.guildID, discordID, roleID); err != nil {
			if errors.Is(err, guilddiscord.ErrRoleNotFound) {
				return results.FailureResult[bool, error](fmt.Errorf("%w: %s (%s)", ErrRoleNotFound, role, roleID)), nil
			}
			if errors.Is(err, guilddiscord.ErrMemberNotFound) {
				return results.FailureResult[bool, error](ErrNotInGuild), nil
			}
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	})
	_, err = operation.Unwrap(result, err)
	return err
}

// Notify posts n as an embed to the log channel.
func (s *GuildService) Notify(ctx context.Context, n guilddomain.Notification) error {
	if s.logChannelID == "" {
		return nil
	}
	result, err := operation.WithTelemetry(s.runner, ctx, "Notify", n.Title, func(ctx context.Context) (results.OperationResult[bool, error], error) {
		if err := s.client.SendEmbed(ctx, s.logChannelID, toEmbed(n)); err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	})
	_, err = operation.Unwrap(result, err)
	return err
}

func toEmbed(n guilddomain.Notification) *discordgo.MessageEmbed {
	ts := n.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	embed := &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Description,
		Color:       n.Color,
		Timestamp:   ts.UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "FiveM Portal"},
	}
	for _, f := range n.Fields {
		if f.Value == "" {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return embed
}
