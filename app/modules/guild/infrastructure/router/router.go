package guildrouter

import (
	"context"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	guildhandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/infrastructure/handlers"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// GuildRouter handles Watermill handler registration for the audit notifier.
type GuildRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber message.Subscriber
}

// NewGuildRouter creates a new GuildRouter.
func NewGuildRouter(logger *slog.Logger, router *message.Router, subscriber message.Subscriber) *GuildRouter {
	return &GuildRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
	}
}

// Configure registers the handlers. It must run before the router starts.
func (r *GuildRouter) Configure(_ context.Context, handlers guildhandlers.Handlers) error {
	r.registerHandlers(handlers)
	return nil
}

// handlerDeps bundles dependencies for handler registration.
type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	logger     *slog.Logger
}

func (r *GuildRouter) registerHandlers(handlers guildhandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		logger:     r.logger,
	}

	r.logger.Info("Registering guild audit handlers")

	registerHandler(deps, eventbus.WhitelistSubmittedV1, handlers.HandleWhitelistDecision)
	registerHandler(deps, eventbus.WhitelistApprovedV1, handlers.HandleWhitelistDecision)
	registerHandler(deps, eventbus.WhitelistRejectedV1, handlers.HandleWhitelistDecision)
	registerHandler(deps, eventbus.WhitelistRevokedV1, handlers.HandleWhitelistDecision)
	registerHandler(deps, eventbus.UserBlacklistedV1, handlers.HandleUserBlacklisted)
	registerHandler(deps, eventbus.UserUnblacklistedV1, handlers.HandleUserUnblacklisted)
	registerHandler(deps, eventbus.UserRoleChangedV1, handlers.HandleRoleChanged)
	registerHandler(deps, eventbus.ContestPhaseChangedV1, handlers.HandleContestPhaseChanged)

	r.logger.Info("Guild audit handlers registered successfully")
}

// registerHandler adds a typed, retried handler for topic. A message that still fails after
// the retries is logged and acked so the in-process pub/sub does not redeliver it forever.
func registerHandler[T any](deps handlerDeps, topic string, handler func(context.Context, *T) error) {
	handlerName := "guild.audit." + topic

	h := deps.router.AddNoPublisherHandler(
		handlerName,
		topic,
		deps.subscriber,
		func(msg *message.Message) error {
			payload, err := eventbus.DecodePayload[T](msg)
			if err != nil {
				deps.logger.Error("Dropping undecodable event",
					attr.String("topic", topic),
					attr.String("message_id", msg.UUID),
					attr.Error(err),
				)
				return nil
			}
			ctx := msg.Context()
			if id := msg.Metadata.Get(eventbus.CorrelationIDKey); id != "" {
				ctx = attr.WithCorrelationID(ctx, id)
			}
			return handler(ctx, payload)
		},
	)

	h.AddMiddleware(
		dropAfterRetries(deps.logger, handlerName),
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			Multiplier:      2,
			MaxInterval:     5 * time.Second,
			Logger:          watermill.NewSlogLogger(deps.logger),
		}.Middleware,
	)
}

func dropAfterRetries(logger *slog.Logger, handlerName string) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			msgs, err := h(msg)
			if err != nil {
				logger.Error("Giving up on event after retries",
					attr.String("handler", handlerName),
					attr.String("message_id", msg.UUID),
					attr.Error(err),
				)
				return nil, nil
			}
			return msgs, nil
		}
	}
}
