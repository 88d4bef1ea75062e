package guilddiscord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/bwmarrin/discordgo"
	"github.com/sony/gobreaker/v2"
)

var (
	// ErrMemberNotFound is returned when the user is not a member of the guild.
	ErrMemberNotFound = errors.New("discord member not found")

	// ErrRoleNotFound is returned when a configured role ID no longer exists in the guild.
	ErrRoleNotFound = errors.New("discord role not found")

	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("discord api unavailable")
)

// Client is the slice of the Discord REST API the portal uses, authenticated as the bot.
type Client interface {
	GetMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error)
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
}

// BreakerSettings configures the circuit breaker around Discord calls.
type BreakerSettings struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	Interval         time.Duration
}

// DefaultBreakerSettings opens after five consecutive failures and tries Discord again after 30s.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		Interval:         time.Minute,
	}
}

// botClient implements Client with a discordgo bot session behind a circuit breaker.
type botClient struct {
	session *discordgo.Session
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewBotClient creates a Discord REST client authenticated with the bot token.
func NewBotClient(token string, settings BreakerSettings, logger *slog.Logger) (Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Client = &http.Client{Timeout: 10 * time.Second}

	return &botClient{
		session: session,
		breaker: newBreaker(settings, logger),
		logger:  logger,
	}, nil
}

func newBreaker(settings BreakerSettings, logger *slog.Logger) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "discord",
		MaxRequests: 1,
		Interval:    settings.Interval,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		// A missing member or role is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || IsNotFound(err) || IsUnknownRole(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Discord circuit breaker state changed",
				attr.String("breaker", name),
				attr.String("from", from.String()),
				attr.String("to", to.String()),
			)
		},
	})
}

// execute runs fn through the breaker and restores its result type.
func execute[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	var zero T
	v, err := cb.Execute(func() (any, error) {
		res, err := fn()
		return res, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return zero, err
	}
	res, ok := v.(T)
	if !ok {
		return zero, nil
	}
	return res, nil
}

// GetMember fetches a guild member.
func (c *botClient) GetMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	member, err := execute(c.breaker, func() (*discordgo.Member, error) {
		return c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get guild member: %w", err)
	}
	return member, nil
}

// AddRole grants a Discord role to a member.
func (c *botClient) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	_, err := execute(c.breaker, func() (struct{}, error) {
		return struct{}{}, c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
	})
	if err != nil {
		if IsUnknownRole(err) {
			return fmt.Errorf("%w: %s", ErrRoleNotFound, roleID)
		}
		if IsNotFound(err) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to add role: %w", err)
	}
	return nil
}

// RemoveRole removes a Discord role from a member.
func (c *botClient) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	_, err := execute(c.breaker, func() (struct{}, error) {
		return struct{}{}, c.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
	})
	if err != nil {
		if IsUnknownRole(err) {
			return fmt.Errorf("%w: %s", ErrRoleNotFound, roleID)
		}
		if IsNotFound(err) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove role: %w", err)
	}
	return nil
}

// SendEmbed posts an embed to a channel.
func (c *botClient) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	_, err := execute(c.breaker, func() (*discordgo.Message, error) {
		return c.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	})
	if err != nil {
		return fmt.Errorf("failed to send embed: %w", err)
	}
	return nil
}

// IsNotFound reports whether err means the user is not in the guild: Discord's "unknown member"
// or "unknown user". Other 404s, such as an unknown role or guild, are not member lookups.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrMemberNotFound) {
		return true
	}
	code, ok := apiErrorCode(err)
	return ok && (code == discordgo.ErrCodeUnknownMember || code == discordgo.ErrCodeUnknownUser)
}

// IsUnknownRole reports whether err is Discord's "unknown role".
func IsUnknownRole(err error) bool {
	if errors.Is(err, ErrRoleNotFound) {
		return true
	}
	code, ok := apiErrorCode(err)
	return ok && code == discordgo.ErrCodeUnknownRole
}

func apiErrorCode(err error) (int, bool) {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return 0, false
	}
	return restErr.Message.Code, true
}
