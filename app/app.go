package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/activities"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/contest"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/fivem"
	fivemdb "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/guild"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/rules"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/user"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/queue"
	"github.com/Black-And-White-Club/fivem-portal/config"
	"github.com/Black-And-White-Club/fivem-portal/db/bundb"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/nats-io/nats.go"
	"github.com/uptrace/bun"
)

const routerCloseTimeout = 10 * time.Second

// App holds the portal's connections and modules.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	GameDB        *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	Queue         *queue.Service

	GuildModule      *guild.Module
	AuthModule       *auth.Module
	UserModule       *user.Module
	WhitelistModule  *whitelist.Module
	RulesModule      *rules.Module
	ActivitiesModule *activities.Module
	ContestModule    *contest.Module
	FiveMModule      *fivem.Module

	natsConn  *nats.Conn
	forwarder *eventbus.NATSForwarder
	server    *http.Server
	wg        sync.WaitGroup
}

// NewApp connects every dependency and builds the modules. Nothing is served until Run.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	app := &App{Config: cfg, Observability: obs}
	if err := app.initialize(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) initialize(ctx context.Context) error {
	cfg := app.Config
	logger := app.Observability.Logger

	// 1. Databases
	db, err := bundb.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	app.DB = db

	gameDB, err := fivemdb.Open(cfg.FiveM.DSN, cfg.FiveM.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to open game database: %w", err)
	}
	app.GameDB = gameDB
	// The game database may come up after the portal; dashboards return 503 until it does.
	if err := bundb.Ping(ctx, gameDB); err != nil {
		logger.WarnContext(ctx, "Game database unreachable at startup", attr.Error(err))
	}

	// 2. Event bus and watermill router
	app.EventBus = eventbus.NewEventBus(logger)
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: routerCloseTimeout}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create message router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer, middleware.CorrelationID)
	app.Router = router

	if cfg.NATS.URL != "" {
		nc, err := eventbus.ConnectNATS(cfg.NATS.URL, cfg.NATS.NKeySeed)
		if err != nil {
			return err
		}
		app.natsConn = nc
		app.forwarder = eventbus.NewNATSForwarder(app.EventBus, nc, cfg.NATS.SubjectPrefix, eventbus.AllTopics, logger)
	}

	// 3. Job queue
	jobs, err := queue.NewService(ctx, db, logger, cfg.Postgres.DSN, metrics.NewPrometheus(app.Observability.Registry, "queue"))
	if err != nil {
		return fmt.Errorf("failed to create queue service: %w", err)
	}
	app.Queue = jobs

	// 4. Modules
	return app.initializeModules(ctx)
}

func (app *App) initializeModules(ctx context.Context) error {
	cfg := app.Config
	obs := app.Observability

	guildModule, err := guild.NewGuildModule(ctx, obs, cfg.Discord, app.EventBus, app.Router)
	if err != nil {
		return fmt.Errorf("failed to initialize guild module: %w", err)
	}
	app.GuildModule = guildModule

	// Shared between auth (sessions) and user (admin directory).
	userRepo := userdb.NewRepository(app.DB)

	authModule, err := auth.NewAuthModule(ctx, cfg, obs, userRepo, guildModule.GuildService)
	if err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}
	app.AuthModule = authModule
	checker := authModule.Enforcer

	if app.UserModule, err = user.NewUserModule(ctx, obs, app.DB, userRepo, guildModule.GuildService, app.EventBus, app.Queue, checker); err != nil {
		return fmt.Errorf("failed to initialize user module: %w", err)
	}
	if app.WhitelistModule, err = whitelist.NewWhitelistModule(ctx, cfg, obs, app.DB, guildModule.GuildService, app.EventBus, checker); err != nil {
		return fmt.Errorf("failed to initialize whitelist module: %w", err)
	}
	if app.RulesModule, err = rules.NewRulesModule(ctx, obs, app.DB, app.EventBus, checker); err != nil {
		return fmt.Errorf("failed to initialize rules module: %w", err)
	}
	if app.ActivitiesModule, err = activities.NewActivitiesModule(ctx, obs, app.DB, app.EventBus, checker); err != nil {
		return fmt.Errorf("failed to initialize activities module: %w", err)
	}
	if app.ContestModule, err = contest.NewContestModule(ctx, cfg, obs, app.DB, app.EventBus, app.Queue, checker); err != nil {
		return fmt.Errorf("failed to initialize contest module: %w", err)
	}
	if app.FiveMModule, err = fivem.NewFiveMModule(ctx, cfg, obs, app.GameDB, checker); err != nil {
		return fmt.Errorf("failed to initialize fivem module: %w", err)
	}

	obs.Logger.InfoContext(ctx, "All modules initialized")
	return nil
}
