package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"time"

	"lol-runesync/internal/config"
	"lol-runesync/internal/constants"
	fxmodules "lol-runesync/internal/fx"
	"lol-runesync/internal/poller"
	"lol-runesync/internal/server"
	"lol-runesync/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.NopLogger,
		fx.Invoke(runStatusServer),
		fx.Invoke(runPoller),
	).Run()
}

func runStatusServer(
	lc fx.Lifecycle,
	statusServer *server.StatusServer,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	if cfg.StatusAddr == "" {
		return
	}

	srv := &http.Server{
		Addr:              cfg.StatusAddr,
		Handler:           statusServer.Routes(),
		ReadHeaderTimeout: constants.LocalAPITimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("status server starting")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error().Err(err).Msg("status server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down status server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("status server shutdown failed")
				return err
			}
			logger.Info().Msg("status server stopped gracefully")
			return nil
		},
	})
}

func runPoller(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	p *poller.Poller,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var program *tea.Program

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if cfg.Headless {
				go func() {
					defer close(done)
					runHeadless(ctx, p, logger)
				}()
				return nil
			}

			program = tea.NewProgram(tui.New(ctx, p, cfg.ModeLabel()), tea.WithAltScreen())
			go func() {
				defer close(done)
				if _, err := program.Run(); err != nil {
					logger.Error().Err(err).Msg("terminal ui failed")
				}
				if err := shutdowner.Shutdown(); err != nil {
					logger.Warn().Err(err).Msg("failed to request shutdown")
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			if program != nil {
				program.Quit()
			}
			select {
			case <-done:
			case <-stopCtx.Done():
				logger.Warn().Msg("poller did not stop in time")
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("runesync stopped")
			return nil
		},
	})
}

func runHeadless(ctx context.Context, p *poller.Poller, logger zerolog.Logger) {
	logger.Info().Dur("interval", constants.AutoDetectInterval).Msg("polling champ select")

	ticker := time.NewTicker(constants.AutoDetectInterval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}
