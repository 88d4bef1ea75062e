package app

import (
	"context"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
)

const shutdownTimeout = 15 * time.Second

// Close shuts the app down in reverse start order: HTTP first so no new work arrives, then
// modules, the queue, the message router, NATS and finally the databases. Safe to call on a
// partially initialized app.
func (app *App) Close() {
	logger := app.Observability.Logger
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			logger.Error("Failed to shut down HTTP server", attr.Error(err))
		}
	}

	for _, m := range app.modules() {
		if err := m.Close(); err != nil {
			logger.Error("Failed to close module", attr.Error(err))
		}
	}
	app.wg.Wait()

	if app.Queue != nil {
		if err := app.Queue.Stop(ctx); err != nil {
			logger.Error("Failed to stop queue", attr.Error(err))
		}
	}

	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			logger.Error("Failed to close message router", attr.Error(err))
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", attr.Error(err))
		}
	}
	if app.forwarder != nil {
		app.forwarder.Wait()
	}
	if app.natsConn != nil {
		if err := app.natsConn.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", attr.Error(err))
		}
	}

	if app.GameDB != nil {
		if err := app.GameDB.Close(); err != nil {
			logger.Error("Failed to close game database", attr.Error(err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			logger.Error("Failed to close database", attr.Error(err))
		}
	}

	logger.Info("Application shut down")
}
