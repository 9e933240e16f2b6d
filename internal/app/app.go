package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/session"
	"github.com/vovakirdan/roomrelay/internal/store"
	"github.com/vovakirdan/roomrelay/internal/store/memory"
	"github.com/vovakirdan/roomrelay/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/roomrelay/internal/transport/http"
)

const tokenIssuer = "roomrelay"

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	tokens, err := tokenConfig(cfg, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	rooms := core.NewRegistry()
	lobby := core.NewLobby(rooms, st, cfg.CodeLength, logger)
	hub := core.NewHub(rooms, st, logger)
	server := transporthttp.NewServer(hub, lobby, rooms, tokens, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		log:             logger,
	}, nil
}

func openStore(cfg *config.Config, logger *zerolog.Logger) (store.Store, error) {
	switch cfg.SessionStore {
	case config.SessionStoreSQLite:
		st, err := sqlite.New(cfg.SessionDBPath)
		if err != nil {
			return nil, fmt.Errorf("init session store: %w", err)
		}
		logger.Info().Str("db_path", cfg.SessionDBPath).Msg("sqlite session store initialized")
		return st, nil
	default:
		logger.Info().Dur("ttl", cfg.SessionTTL).Msg("in-memory session store initialized")
		return memory.NewWithTTL(cfg.SessionTTL), nil
	}
}

func tokenConfig(cfg *config.Config, logger *zerolog.Logger) (*session.TokenConfig, error) {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		generated, err := session.NewSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
		logger.Warn().Msg("session_secret not set; sessions will not survive a restart")
	}
	return &session.TokenConfig{
		Secret: secret,
		Issuer: tokenIssuer,
		TTL:    cfg.SessionTTL,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
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

// cleanup closes the session store.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
