package guild

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	guilddiscord "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/infrastructure/discord"
	guildhandlers "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/infrastructure/handlers"
	guildrouter "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/infrastructure/router"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/config"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Module represents the guild module.
type Module struct {
	GuildService  guildservice.Service
	GuildRouter   *guildrouter.GuildRouter
	RoleMap       guilddomain.RoleMap
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewGuildModule creates and initializes a new guild module.
func NewGuildModule(
	ctx context.Context,
	obs observability.Observability,
	cfg config.DiscordConfig,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "guild.NewGuildModule initializing")

	// 1. Discord client
	client, err := guilddiscord.NewBotClient(cfg.BotToken, guilddiscord.DefaultBreakerSettings(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	// 2. Service
	roleMap := RoleMapFromConfig(cfg.Roles)
	runner := &operation.Runner{
		Service: "GuildService",
		Logger:  logger,
		Tracer:  obs.Tracer,
		Metrics: metrics.NewPrometheus(obs.Registry, "guild"),
	}
	service := guildservice.NewGuildService(client, cfg.GuildID, cfg.LogChannelID, roleMap, runner)

	// 3. Audit notifier
	handlers := guildhandlers.NewAuditHandlers(service, logger, obs.Tracer)
	guildRouter := guildrouter.NewGuildRouter(logger, router, eventBus)
	if err := guildRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure guild router: %w", err)
	}

	return &Module{
		GuildService:  service,
		GuildRouter:   guildRouter,
		RoleMap:       roleMap,
		observability: obs,
	}, nil
}

// RoleMapFromConfig builds the role map from the configured Discord role IDs.
func RoleMapFromConfig(cfg config.RoleIDConfig) guilddomain.RoleMap {
	return guilddomain.RoleMap{
		guilddomain.RoleAdmin:          cfg.Admin,
		guilddomain.RoleStaff:          cfg.Staff,
		guilddomain.RoleWhitelistAdder: cfg.WhitelistAdder,
		guilddomain.RoleWhitelisted:    cfg.Whitelisted,
		guilddomain.RoleBlacklisted:    cfg.Blacklisted,
	}
}

// Run starts the guild module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting guild module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Guild module goroutine stopped")
}

// Close shuts down the guild module. The shared message router is closed by the app.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping guild module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Guild module stopped")
	return nil
}
