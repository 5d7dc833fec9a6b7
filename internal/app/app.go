package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/peerline/signald/internal/config"
	"github.com/peerline/signald/internal/core"
	"github.com/peerline/signald/internal/ice"
	transporthttp "github.com/peerline/signald/internal/transport/http"
)

// App wires together core, transport and the NAT-assist helper.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	ice             *ice.Service
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	hub := core.NewHub(logger)

	iceSvc := ice.NewService(ice.Config{
		Enabled:       cfg.TURN.Enabled,
		UDPPort:       cfg.TURN.UDPPort,
		PublicIP:      cfg.TURN.PublicIP,
		Realm:         cfg.TURN.Realm,
		Secret:        cfg.TURN.Secret,
		CredentialTTL: cfg.TURN.CredentialTTL,
		STUNURLs:      cfg.STUNURLs,
	}, logger)

	server := transporthttp.NewServer(hub, iceSvc, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		ice:             iceSvc,
		log:             logger,
	}, nil
}

// Run starts the hub, the TURN listener and the HTTP server, and blocks
// until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	if err := a.ice.Start(); err != nil {
		return fmt.Errorf("start ice helper: %w", err)
	}

	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the TURN listener and other resources.
func (a *App) cleanup() {
	if err := a.ice.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close ice helper")
	}
}
