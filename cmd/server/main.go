package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"seminar-reminder/internal/app"
	"seminar-reminder/internal/config"
)

func main() {
	once := flag.Bool("once", false, "run a single check and exit (overrides RUN_MODE)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	if *once {
		cfg.RunMode = config.RunModeSingle
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	setLogLevel(cfg.LogLevel)

	ctx := context.Background()
	application, err := app.NewBuilder(&cfg).Build(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("app build error")
	}

	if cfg.RunMode == config.RunModeSingle {
		os.Exit(runOnce(ctx, application))
	}

	log.Info().Dur("interval", cfg.CheckInterval).Str("notifier", cfg.Notifier).Msg("starting continuous mode")
	if err := application.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("app start error")
	}

	waitForShutdown(application)
}

func runOnce(ctx context.Context, application *app.App) int {
	defer application.Close()

	summary, err := application.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("check failed")
		return 1
	}
	log.Info().
		Int("new", summary.NewThisRun).
		Int("skipped", summary.Skipped).
		Msg("single check completed")
	return 0
}

func setLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func waitForShutdown(application *app.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
}
