package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"seminar-reminder/internal/config"
	"seminar-reminder/internal/db"
	dbsqlc "seminar-reminder/internal/db/sqlc"
	"seminar-reminder/internal/httpapi"
	"seminar-reminder/internal/metrics"
	"seminar-reminder/internal/notify"
	"seminar-reminder/internal/notify/discord"
	"seminar-reminder/internal/notify/telegram"
	"seminar-reminder/internal/providers/common"
	"seminar-reminder/internal/providers/pxl"
	"seminar-reminder/internal/repositories"
	sqlcrepo "seminar-reminder/internal/repositories/sqlc"
	"seminar-reminder/internal/scheduler"
	"seminar-reminder/internal/services/checking"
)

type Builder struct {
	cfg          *config.Config
	basePath     string
	ensureSchema bool

	pool     *pgxpool.Pool
	ledger   repositories.SeminarLedger
	notifier checking.Notifier
	source   checking.SeminarSource
	client   *http.Client
	now      func() time.Time

	scheduler *scheduler.Scheduler
	server    *http.Server
}

type BuilderOption func(*Builder)

func NewBuilder(cfg *config.Config, options ...BuilderOption) *Builder {
	builder := &Builder{
		cfg:          cfg,
		ensureSchema: true,
	}
	for _, option := range options {
		option(builder)
	}
	return builder
}

func WithBasePath(basePath string) BuilderOption {
	return func(b *Builder) {
		b.basePath = basePath
	}
}

func WithEnsureSchema(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.ensureSchema = enabled
	}
}

func WithDBPool(pool *pgxpool.Pool) BuilderOption {
	return func(b *Builder) {
		b.pool = pool
	}
}

// WithLedger replaces the PostgreSQL ledger; no pool is opened when it is set.
func WithLedger(ledger repositories.SeminarLedger) BuilderOption {
	return func(b *Builder) {
		b.ledger = ledger
	}
}

func WithNotifier(notifier checking.Notifier) BuilderOption {
	return func(b *Builder) {
		b.notifier = notifier
	}
}

func WithSource(source checking.SeminarSource) BuilderOption {
	return func(b *Builder) {
		b.source = source
	}
}

func WithHTTPClient(client *http.Client) BuilderOption {
	return func(b *Builder) {
		b.client = client
	}
}

func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

func WithScheduler(scheduler *scheduler.Scheduler) BuilderOption {
	return func(b *Builder) {
		b.scheduler = scheduler
	}
}

func WithHTTPServer(server *http.Server) BuilderOption {
	return func(b *Builder) {
		b.server = server
	}
}

func (b *Builder) Build(ctx context.Context) (*App, error) {
	if b.cfg == nil {
		return nil, errors.New("config is required")
	}
	metrics.Init()

	app := &App{Config: b.cfg}
	if b.ledger == nil {
		if err := b.openDatabase(ctx, app); err != nil {
			return nil, err
		}
		b.ledger = sqlcrepo.NewSeminarLedger(dbsqlc.New(b.pool))
	}
	app.Pool = b.pool
	app.Ledger = b.ledger

	if b.client == nil {
		b.client = &http.Client{Timeout: 30 * time.Second}
	}

	if b.notifier == nil {
		notifier, err := b.newNotifier()
		if err != nil {
			app.Close()
			return nil, err
		}
		b.notifier = notifier
	}
	app.Notifier = b.notifier

	if b.source == nil {
		fetcher := common.NewFetcher(b.client, b.cfg.UserAgent, b.cfg.FetchTimeout)
		b.source = pxl.NewScraper(fetcher, b.cfg.SeminarListURL)
	}
	app.Source = b.source

	serviceCfg := checking.Config{
		Concurrency:       b.cfg.FetchConcurrency,
		Location:          b.cfg.Location(),
		ProbeRegistration: b.cfg.CheckRegistration,
		Now:               b.now,
	}
	if b.cfg.RunMode == config.RunModeContinuous {
		serviceCfg.Interval = b.cfg.CheckInterval
	}
	app.CheckService = checking.NewService(app.Ledger, app.Notifier, app.Source, serviceCfg)

	if b.cfg.RunMode != config.RunModeContinuous {
		return app, nil
	}

	if b.scheduler == nil {
		b.scheduler = scheduler.New(b.cfg.CheckInterval, app.CheckService)
	}
	app.Scheduler = b.scheduler

	if b.server == nil {
		var pinger httpapi.Pinger
		if b.pool != nil {
			pinger = b.pool
		}
		handler := httpapi.NewHandler(app.CheckService, app.Ledger, pinger)
		b.server = &http.Server{
			Addr:              ":" + b.cfg.HTTPPort,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	app.Server = b.server

	return app, nil
}

func (b *Builder) openDatabase(ctx context.Context, app *App) error {
	if b.pool == nil {
		pool, err := db.NewPool(ctx, b.cfg.PostgresDSN())
		if err != nil {
			return err
		}
		b.pool = pool
		app.ownsPool = true
	}
	app.Pool = b.pool

	if !b.ensureSchema {
		return nil
	}

	basePath := b.basePath
	if basePath == "" {
		wd, err := os.Getwd()
		if err != nil {
			app.Close()
			return err
		}
		basePath = wd
	}
	path, err := filepath.Abs(basePath)
	if err != nil {
		app.Close()
		return err
	}
	if err := db.EnsureSchema(ctx, b.pool, path); err != nil {
		app.Close()
		return err
	}
	return nil
}

func (b *Builder) newNotifier() (checking.Notifier, error) {
	switch b.cfg.Notifier {
	case config.NotifierDiscord:
		return discord.NewWebhook(b.cfg.DiscordWebhookURL, notify.ParseMention(b.cfg.NotifyMention), b.client), nil
	case config.NotifierTelegram:
		mention, err := notify.TelegramMention(b.cfg.NotifyMention)
		if err != nil {
			return nil, err
		}
		return telegram.NewSender(b.cfg.TelegramToken, b.cfg.TelegramChat, b.cfg.TelegramThreadID, mention, b.client), nil
	default:
		return nil, errors.New("unknown notifier " + b.cfg.Notifier)
	}
}
