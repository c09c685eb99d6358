package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"seminar-reminder/internal/notify"
)

type RunMode string

const (
	RunModeSingle     RunMode = "single"
	RunModeContinuous RunMode = "continuous"

	NotifierDiscord  = "discord"
	NotifierTelegram = "telegram"

	DefaultCheckInterval = 60 * time.Minute
	MinCheckInterval     = time.Minute
)

type Config struct {
	RunMode       RunMode
	CheckInterval time.Duration

	SeminarListURL    string
	UserAgent         string
	FetchTimeout      time.Duration
	FetchConcurrency  int
	Timezone          string
	CheckRegistration bool

	Notifier          string
	NotifyMention     string
	DiscordWebhookURL string
	TelegramToken     string
	TelegramChat      string
	TelegramThreadID  *int

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	HTTPPort string
	LogLevel string
}

// source resolves keys from the environment first, then the optional YAML file.
type source struct {
	file map[string]string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	src := source{file: map[string]string{}}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		values, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		src.file = values
	}
	return src.load()
}

func readFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var values map[string]string
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	normalised := make(map[string]string, len(values))
	for k, v := range values {
		normalised[strings.ToUpper(k)] = v
	}
	return normalised, nil
}

func (s source) load() (Config, error) {
	cfg := Config{
		SeminarListURL:    s.envOrDefault("SEMINAR_LIST_URL", "https://pxl-digital.pxl.be/i-talent/seminaries-2tin-25-26"),
		UserAgent:         s.envOrDefault("USER_AGENT", "PXL-Seminar-Reminder/1.0"),
		Timezone:          s.envOrDefault("TIMEZONE", "Europe/Brussels"),
		Notifier:          strings.ToLower(s.envOrDefault("NOTIFIER", NotifierDiscord)),
		NotifyMention:     s.envOrDefault("NOTIFY_MENTION", "none"),
		DiscordWebhookURL: s.get("DISCORD_WEBHOOK_URL"),
		TelegramToken:     s.get("TELEGRAM_BOT_TOKEN"),
		TelegramChat:      s.get("TELEGRAM_CHAT_ID"),
		DatabaseURL:       s.get("DATABASE_URL"),
		DBHost:            s.envOrDefault("DB_HOST", "localhost"),
		DBPort:            s.envOrDefault("DB_PORT", "5432"),
		DBUser:            s.envOrDefault("DB_USERNAME", "postgres"),
		DBPassword:        s.envOrDefault("DB_PASSWORD", "postgres"),
		DBName:            s.envOrDefault("DB_DATABASE", "seminars"),
		DBSSLMode:         s.envOrDefault("DB_SSLMODE", "disable"),
		HTTPPort:          s.envOrDefault("HTTP_PORT", "3000"),
		LogLevel:          strings.ToLower(s.envOrDefault("LOG_LEVEL", "info")),
	}

	mode := RunMode(strings.ToLower(s.envOrDefault("RUN_MODE", string(RunModeContinuous))))
	switch mode {
	case RunModeSingle, RunModeContinuous:
		cfg.RunMode = mode
	case "once":
		cfg.RunMode = RunModeSingle
	default:
		return cfg, fmt.Errorf("invalid RUN_MODE %q", mode)
	}

	var err error
	if cfg.CheckInterval, err = ParseInterval(s.get("CHECK_INTERVAL")); err != nil {
		return cfg, err
	}
	if cfg.FetchTimeout, err = s.envOrDuration("FETCH_TIMEOUT", 15*time.Second); err != nil {
		return cfg, err
	}
	if cfg.FetchConcurrency, err = s.envOrInt("FETCH_CONCURRENCY", 4); err != nil {
		return cfg, err
	}
	if cfg.FetchConcurrency < 1 {
		return cfg, errors.New("FETCH_CONCURRENCY must be at least 1")
	}
	if cfg.CheckRegistration, err = s.envOrBool("CHECK_REGISTRATION_PAGE", true); err != nil {
		return cfg, err
	}
	if cfg.TelegramThreadID, err = s.envOrIntPtr("TELEGRAM_CHAT_THREAD_ID"); err != nil {
		return cfg, err
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return cfg, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	switch cfg.Notifier {
	case NotifierDiscord:
		if cfg.DiscordWebhookURL == "" {
			return cfg, errors.New("missing DISCORD_WEBHOOK_URL")
		}
	case NotifierTelegram:
		if cfg.TelegramToken == "" || cfg.TelegramChat == "" {
			return cfg, errors.New("missing TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID")
		}
		if _, err := notify.TelegramMention(cfg.NotifyMention); err != nil {
			return cfg, fmt.Errorf("invalid NOTIFY_MENTION: %w", err)
		}
	default:
		return cfg, fmt.Errorf("invalid NOTIFIER %q", cfg.Notifier)
	}

	if cfg.DatabaseURL == "" && (cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "") {
		return cfg, errors.New("missing database configuration")
	}

	return cfg, nil
}

func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ParseInterval accepts whole minutes ("30") or a Go duration ("1h30m").
func ParseInterval(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultCheckInterval, nil
	}

	var d time.Duration
	if minutes, err := strconv.Atoi(value); err == nil {
		d = time.Duration(minutes) * time.Minute
	} else if parsed, err := time.ParseDuration(value); err == nil {
		d = parsed
	} else {
		return 0, fmt.Errorf("invalid CHECK_INTERVAL %q", value)
	}

	if d < MinCheckInterval {
		return 0, fmt.Errorf("CHECK_INTERVAL must be at least %s, got %s", MinCheckInterval, d)
	}
	return d, nil
}

func (s source) get(key string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return strings.TrimSpace(s.file[key])
}

func (s source) envOrDefault(key, fallback string) string {
	if val := s.get(key); val != "" {
		return val
	}
	return fallback
}

func (s source) envOrInt(key string, fallback int) (int, error) {
	val := s.get(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func (s source) envOrIntPtr(key string) (*int, error) {
	val := s.get(key)
	if val == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &parsed, nil
}

func (s source) envOrDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := s.get(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func (s source) envOrBool(key string, fallback bool) (bool, error) {
	val := s.get(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
