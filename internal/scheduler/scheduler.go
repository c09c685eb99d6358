package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"seminar-reminder/internal/model"
	"seminar-reminder/internal/services/checking"
)

type Runner interface {
	Run(ctx context.Context) (model.RunSummary, error)
}

// Scheduler runs a pass immediately and then every interval. A tick that fires while
// the previous pass is still running is skipped.
type Scheduler struct {
	cron     *cron.Cron
	service  Runner
	interval time.Duration
	wg       sync.WaitGroup
}

func New(interval time.Duration, service Runner) *Scheduler {
	logger := log.With().Str("component", "cron").Logger()
	cronLogger := cron.PrintfLogger(&logger)
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		service:  service,
		interval: interval,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	job := cron.FuncJob(func() { s.run(ctx) })
	s.cron.Schedule(cron.Every(s.interval), job)
	s.cron.Start()

	// first pass right away instead of waiting a full interval
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

func (s *Scheduler) run(ctx context.Context) {
	summary, err := s.service.Run(ctx)
	switch {
	case errors.Is(err, checking.ErrPassInProgress):
		log.Debug().Msg("scheduled pass skipped: another pass is running")
	case err != nil:
		log.Error().Err(err).Msg("scheduled pass failed")
	default:
		log.Info().
			Str("run_id", summary.RunID).
			Int("new", summary.NewThisRun).
			Time("next_run_at", summary.NextRunAt).
			Msg("scheduled pass finished")
	}
}

// Stop halts the schedule and waits for any running pass to return.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.wg.Wait()
}
