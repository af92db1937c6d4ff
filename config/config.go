package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gitlab.com/MikeTTh/env"
)

const (
	BackendREST   = "rest"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	DefaultSlackAPIURL = "https://slack.com/api"
)

// Config is built once at startup and handed to every handler.
type Config struct {
	Port string

	SlackBotToken  string
	SlackChannelID string
	SlackAPIURL    string

	KVBackend   string
	KVRestURL   string
	KVRestToken string
	RedisURL    string

	Location    *time.Location
	SkipDays    []time.Weekday
	HTTPTimeout time.Duration
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("no .env file found, using environment variables")
	}
}

func GetEnv(key string, fallback string) string {
	return env.String(key, fallback)
}

// Load reads the process environment into a Config and validates it.
func Load() (Config, error) {
	cfg := Config{
		Port:           GetEnv("PORT", "8080"),
		SlackBotToken:  GetEnv("SLACK_BOT_TOKEN", ""),
		SlackChannelID: GetEnv("SLACK_CHANNEL_ID", ""),
		SlackAPIURL:    strings.TrimRight(GetEnv("SLACK_API_URL", DefaultSlackAPIURL), "/"),
		KVRestURL:      strings.TrimRight(GetEnv("KV_REST_API_URL", ""), "/"),
		KVRestToken:    GetEnv("KV_REST_API_TOKEN", ""),
		RedisURL:       GetEnv("REDIS_URL", ""),
	}

	if cfg.SlackBotToken == "" {
		return Config{}, errors.New("SLACK_BOT_TOKEN required")
	}
	if cfg.SlackChannelID == "" {
		return Config{}, errors.New("SLACK_CHANNEL_ID required")
	}

	cfg.KVBackend = GetEnv("KV_BACKEND", "")
	if cfg.KVBackend == "" {
		cfg.KVBackend = BackendREST
		if cfg.RedisURL != "" {
			cfg.KVBackend = BackendRedis
		}
	}
	switch cfg.KVBackend {
	case BackendREST:
		if cfg.KVRestURL == "" || cfg.KVRestToken == "" {
			return Config{}, errors.New("KV_REST_API_URL and KV_REST_API_TOKEN required for the rest backend")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return Config{}, errors.New("REDIS_URL required for the redis backend")
		}
	case BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown KV_BACKEND %q", cfg.KVBackend)
	}

	loc, err := time.LoadLocation(GetEnv("POLL_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid POLL_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	cfg.SkipDays, err = ParseWeekdays(GetEnv("POLL_SKIP_DAYS", "Friday,Saturday"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid POLL_SKIP_DAYS: %w", err)
	}

	cfg.HTTPTimeout, err = time.ParseDuration(GetEnv("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// ParseWeekdays parses a comma separated list of English weekday names.
// Three letter abbreviations are accepted, case is ignored.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			name := strings.ToLower(d.String())
			if part == name || part == name[:3] {
				days = append(days, d)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
	}
	return days, nil
}
