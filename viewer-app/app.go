package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	apisrv "github.com/remoteview/renderer/server/api"
	"github.com/remoteview/renderer/viewer-app/config"
	"github.com/remoteview/renderer/x/client"
	"github.com/remoteview/renderer/x/frametick"
)

// App wires the rendering client to its frame scheduler and stats API.
type App struct {
	cfg       *config.Config
	log       zerolog.Logger
	client    client.Client
	scheduler frametick.Scheduler
	apiServer *apisrv.Server

	cancel context.CancelFunc
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, log zerolog.Logger) (*App, error) {
	app := &App{
		cfg: cfg,
		log: log.With().Str("component", "app").Logger(),
	}

	if err := app.initialize(log); err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}

	return app, nil
}

func (a *App) initialize(log zerolog.Logger) error {
	if a.cfg.Renderer.FrameInterval > 0 {
		a.scheduler = frametick.NewTicker(a.cfg.Renderer.FrameInterval)
	} else {
		a.scheduler = frametick.Immediate{}
	}

	c, err := client.New(
		log,
		client.WithScheduler(a.scheduler),
		client.WithDebugOverlay(a.cfg.Renderer.DebugOverlay),
	)
	if err != nil {
		return fmt.Errorf("failed to create rendering client: %w", err)
	}
	a.client = c

	a.apiServer = apisrv.NewServer(log, a.cfg.API, c)
	return nil
}

// Run starts the application and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	go func() {
		if err := a.apiServer.Start(runCtx); err != nil {
			a.log.Error().Err(err).Msg("API server error")
			a.cancel()
		}
	}()

	go a.statsReporter(runCtx)

	return a.runWithGracefulShutdown(runCtx)
}

// runWithGracefulShutdown handles shutdown signals.
func (a *App) runWithGracefulShutdown(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info().Msg("Renderer started successfully")

	select {
	case <-ctx.Done():
		a.log.Info().Msg("Context canceled, initiating shutdown")
	case sig := <-sigCh:
		a.log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	}

	if a.cancel != nil {
		a.cancel()
	}

	return a.shutdown()
}

// shutdown drains every surface and stops the frame scheduler.
func (a *App) shutdown() error {
	a.log.Info().Msg("Initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.client.Stop(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("Client shutdown error")
		return err
	}

	a.scheduler.Stop()

	a.log.Info().Msg("Graceful shutdown complete")
	return nil
}

// statsReporter periodically reports rendering statistics.
func (a *App) statsReporter(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := a.client.GetStats()

			a.log.Info().
				Interface("surfaces_count", stats["surfaces_count"]).
				Interface("commands_processed", stats["commands_processed"]).
				Interface("uptime_seconds", stats["uptime_seconds"]).
				Msg("Renderer statistics")
		}
	}
}
