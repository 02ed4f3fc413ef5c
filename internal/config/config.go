// Package config loads the runtime configuration from the environment
// and the portfolio definitions from a JSON document.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	DBPath        string
	PortfolioPath string
	StartDate     time.Time
	Timezone      string
	RiskFreeRate  float64
	PriceCacheTTL time.Duration
	WarmSchedule  string // cron spec for the cache warmer, empty disables it
	LogLevel      string
	LogPretty     bool
	TelegramToken string // optional: Telegram surface disabled when empty
	WebhookURL    string
	OpenAIKey     string // optional: commentary disabled when empty
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "9095"),
		DBPath:        getEnv("DB_PATH", "data/portdash.db"),
		PortfolioPath: getEnv("PORTFOLIOS_PATH", "config.json"),
		Timezone:      getEnv("TIMEZONE", "Asia/Seoul"),
		WarmSchedule:  getEnv("WARM_SCHEDULE", "@every 30m"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookURL:    os.Getenv("WEBHOOK_PUBLIC_URL"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
	}

	start, err := time.Parse("2006-01-02", getEnv("START_DATE", "2024-12-09"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid START_DATE: %w", err)
	}
	cfg.StartDate = start

	rate, err := strconv.ParseFloat(getEnv("RISK_FREE_RATE", "0.02"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid RISK_FREE_RATE: %w", err)
	}
	cfg.RiskFreeRate = rate

	ttl, err := time.ParseDuration(getEnv("PRICE_CACHE_TTL", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid PRICE_CACHE_TTL: %w", err)
	}
	cfg.PriceCacheTTL = ttl

	cfg.LogPretty, _ = strconv.ParseBool(getEnv("LOG_PRETTY", "true"))
	return cfg, nil
}
