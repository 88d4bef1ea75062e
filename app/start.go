package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
)

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 60 * time.Second
	idleTimeout       = 120 * time.Second
)

// Module is implemented by every portal module.
type Module interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}

func (app *App) modules() []Module {
	var out []Module
	add := func(ok bool, m Module) {
		if ok {
			out = append(out, m)
		}
	}
	add(app.GuildModule != nil, app.GuildModule)
	add(app.AuthModule != nil, app.AuthModule)
	add(app.UserModule != nil, app.UserModule)
	add(app.WhitelistModule != nil, app.WhitelistModule)
	add(app.RulesModule != nil, app.RulesModule)
	add(app.ActivitiesModule != nil, app.ActivitiesModule)
	add(app.ContestModule != nil, app.ContestModule)
	add(app.FiveMModule != nil, app.FiveMModule)
	return out
}

// Run starts the message router, the queue, every module goroutine and the HTTP servers. It
// blocks until ctx is cancelled or the HTTP server fails.
func (app *App) Run(ctx context.Context) error {
	cfg := app.Config
	logger := app.Observability.Logger

	go func() {
		if err := app.Router.Run(ctx); err != nil {
			logger.ErrorContext(ctx, "Message router stopped", attr.Error(err))
		}
	}()
	<-app.Router.Running()

	if app.forwarder != nil {
		if err := app.forwarder.Start(ctx); err != nil {
			return fmt.Errorf("failed to start NATS forwarder: %w", err)
		}
	}

	// Modules registered their workers during construction, so the client can start now.
	if err := app.Queue.Start(ctx); err != nil {
		return err
	}

	for _, m := range app.modules() {
		app.wg.Add(1)
		go m.Run(ctx, &app.wg)
	}

	if cfg.Observability.MetricsAddress != "" {
		go func() {
			if err := app.Observability.ServeMetrics(ctx, cfg.Observability.MetricsAddress); err != nil {
				logger.ErrorContext(ctx, "Metrics server failed", attr.Error(err))
			}
		}()
	}

	app.server = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", attr.String("addr", cfg.HTTP.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		return nil
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	}
}
