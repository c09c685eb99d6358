package checking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	appErr "seminar-reminder/internal/errors"
	"seminar-reminder/internal/metrics"
	"seminar-reminder/internal/model"
	"seminar-reminder/internal/repositories"
)

var ErrPassInProgress = errors.New("check already running")

const defaultConcurrency = 4

type Config struct {
	// Concurrency bounds parallel detail page fetches.
	Concurrency int
	// Interval is the time between passes in continuous mode; zero in single-pass mode.
	Interval time.Duration
	// Location decides which calendar year counts as current.
	Location *time.Location
	// ProbeRegistration enables the registration page availability check before sending.
	ProbeRegistration bool
	Now               func() time.Time
}

type Service struct {
	ledger   repositories.SeminarLedger
	notifier Notifier
	source   SeminarSource
	cfg      Config

	mu      sync.Mutex
	running bool
	last    model.RunSummary
}

func NewService(ledger repositories.SeminarLedger, notifier Notifier, source SeminarSource, cfg Config) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{ledger: ledger, notifier: notifier, source: source, cfg: cfg}
}

// Run executes one full pass. Only one pass runs at a time; concurrent callers
// get ErrPassInProgress.
func (s *Service) Run(ctx context.Context) (model.RunSummary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		metrics.PassTotal.WithLabelValues("busy").Inc()
		return model.RunSummary{}, ErrPassInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	started := s.cfg.Now()
	summary, err := s.check(ctx)
	metrics.PassDuration.Observe(s.cfg.Now().Sub(started).Seconds())
	if err != nil {
		metrics.PassTotal.WithLabelValues("failed").Inc()
		return summary, err
	}
	metrics.PassTotal.WithLabelValues("ok").Inc()

	s.mu.Lock()
	s.last = summary
	s.mu.Unlock()
	return summary, nil
}

// LastSummary returns the summary of the last completed pass.
func (s *Service) LastSummary() model.RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Service) check(ctx context.Context) (model.RunSummary, error) {
	now := s.cfg.Now()
	currentYear := now.In(s.cfg.Location).Year()
	summary := model.RunSummary{RunID: uuid.NewString()}
	logger := log.With().Str("run_id", summary.RunID).Str("source", s.source.Source()).Logger()

	logger.Info().Int("year", currentYear).Msg("seminar check started")

	links, err := s.source.ListSeminars(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("seminar list unavailable; pass aborted")
		return summary, err
	}
	summary.SeminarsListed = len(links)
	if len(links) == 0 {
		logger.Warn().Msg("no seminar links found on listing page")
	} else {
		logger.Info().Int("links", len(links)).Msg("listing fetched")
	}

	for _, res := range s.inspect(ctx, links, logger) {
		if res.err != nil {
			summary.Skipped++
			metrics.SkippedTotal.WithLabelValues(appErr.Kind(res.err)).Inc()
			logger.Warn().Err(res.err).Str("url", res.url).Msg("seminar skipped")
			continue
		}
		if !model.IsEligible(res.seminar, currentYear) {
			logger.Debug().
				Str("url", res.url).
				Str("href", res.seminar.RegistrationHref).
				Int("seminar_year", res.seminar.Year).
				Msg("seminar not eligible")
			continue
		}
		summary.OpenForRegistration++

		created, err := s.announce(ctx, res.seminar, logger)
		if err != nil {
			summary.Skipped++
			metrics.SkippedTotal.WithLabelValues(appErr.Kind(err)).Inc()
			continue
		}
		if created {
			summary.NewThisRun++
		}
	}

	total, err := s.ledger.Count(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not count notified seminars")
	}
	summary.TotalNotified = total
	summary.CheckedAt = s.cfg.Now()
	if s.cfg.Interval > 0 {
		summary.NextRunAt = summary.CheckedAt.Add(s.cfg.Interval)
	}

	metrics.SeminarsListed.Set(float64(summary.SeminarsListed))
	metrics.SeminarsOpen.Set(float64(summary.OpenForRegistration))

	s.publishStatus(ctx, summary, logger)

	logger.Info().
		Int("listed", summary.SeminarsListed).
		Int("open", summary.OpenForRegistration).
		Int("new", summary.NewThisRun).
		Int("skipped", summary.Skipped).
		Int64("total_notified", summary.TotalNotified).
		Msg("seminar check finished")
	return summary, nil
}

type inspection struct {
	url     string
	seminar model.Seminar
	err     error
}

// inspect fetches and parses every detail page. Results keep the listing order and
// one failing page never cancels the others.
func (s *Service) inspect(ctx context.Context, links []string, logger zerolog.Logger) []inspection {
	results := make([]inspection, len(links))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Concurrency)

	for i, link := range links {
		group.Go(func() error {
			logger.Debug().Str("url", link).Msg("checking seminar")
			seminar, err := s.source.FetchSeminar(gctx, link)
			results[i] = inspection{url: link, seminar: seminar, err: err}
			return nil
		})
	}

	_ = group.Wait()
	return results
}

// announce records the seminar and, only when this call inserted the record, sends
// the notification. A failed send is not rolled back: the seminar stays recorded.
func (s *Service) announce(ctx context.Context, seminar model.Seminar, logger zerolog.Logger) (bool, error) {
	created, err := s.ledger.RecordIfAbsent(ctx, model.NotificationRecord{
		SeminarID:  seminar.ID,
		SeminarURL: seminar.URL,
		Title:      seminar.Title,
		NotifiedAt: s.cfg.Now(),
	})
	if err != nil {
		logger.Error().Err(err).Str("seminar_id", seminar.ID).Msg("ledger write failed; will retry next pass")
		return false, err
	}
	if !created {
		logger.Debug().Str("seminar_id", seminar.ID).Msg("already notified")
		return false, nil
	}

	announcement := model.Announcement{Seminar: seminar, RegistrationAvailable: true}
	if probe, ok := s.source.(RegistrationProbe); ok && s.cfg.ProbeRegistration {
		announcement.RegistrationAvailable = probe.RegistrationAvailable(ctx, seminar.RegistrationURL())
		if !announcement.RegistrationAvailable {
			logger.Info().Str("seminar_id", seminar.ID).Msg("registration page unavailable; sending without mention")
		}
	}

	logger.Info().Str("seminar_id", seminar.ID).Str("title", seminar.DisplayTitle()).Msg("sending notification")
	if err := s.notifier.SendSeminar(ctx, announcement); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		logger.Error().Err(err).Str("seminar_id", seminar.ID).Msg("notification failed; seminar stays recorded")
		return true, nil
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	return true, nil
}

// publishStatus refreshes the rolling status message. Failures are only logged.
func (s *Service) publishStatus(ctx context.Context, summary model.RunSummary, logger zerolog.Logger) {
	ref, err := s.ledger.GetState(ctx, repositories.StatusMessageKey)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.Warn().Err(err).Msg("status message reference unavailable; status not updated")
		return
	}

	newRef, err := s.notifier.PublishStatus(ctx, ref, summary)
	if err != nil {
		logger.Warn().Err(err).Msg("status update failed")
		return
	}
	if newRef == "" || newRef == ref {
		return
	}
	if err := s.ledger.SetState(ctx, repositories.StatusMessageKey, newRef); err != nil {
		logger.Warn().Err(err).Str("message_id", newRef).Msg("could not store status message reference")
		return
	}
	logger.Debug().Str("message_id", newRef).Msg("status message reference stored")
}
