package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"seminar-reminder/internal/config"
	"seminar-reminder/internal/model"
	"seminar-reminder/internal/repositories"
	"seminar-reminder/internal/scheduler"
	"seminar-reminder/internal/services/checking"
)

type App struct {
	Config       *config.Config
	Pool         *pgxpool.Pool
	Ledger       repositories.SeminarLedger
	Notifier     checking.Notifier
	Source       checking.SeminarSource
	CheckService *checking.Service
	Scheduler    *scheduler.Scheduler
	Server       *http.Server

	ownsPool bool
}

// Start begins continuous mode: the scheduler and the HTTP server.
func (a *App) Start(ctx context.Context) error {
	a.Scheduler.Start(ctx)

	go func() {
		log.Info().Str("addr", a.Server.Addr).Msg("HTTP server listening")
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	return nil
}

// RunOnce performs a single pass for single-pass mode.
func (a *App) RunOnce(ctx context.Context) (model.RunSummary, error) {
	return a.CheckService.Run(ctx)
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			return err
		}
	}
	a.Close()
	return nil
}

// Close releases the database pool when the app created it.
func (a *App) Close() {
	if a.ownsPool && a.Pool != nil {
		a.Pool.Close()
	}
}
