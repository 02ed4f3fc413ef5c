package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"portdash/internal/charts"
	"portdash/internal/config"
	"portdash/internal/market"
	"portdash/internal/openai"
	"portdash/internal/portfolio"
	"portdash/internal/server"
	"portdash/internal/storage"
	"portdash/internal/telegram"
	"portdash/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	log.Info().Msg("starting portdash")

	portfolios, err := config.LoadPortfolios(cfg.PortfolioPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PortfolioPath).Msg("failed to load portfolios")
	}
	log.Info().Int("portfolios", len(portfolios)).Msg("portfolio config loaded")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid timezone")
	}

	// Ensure parent directory for the DB exists
	_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
	db, err := storage.OpenSQLite("file:" + cfg.DBPath + "?_fk=1")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open sqlite")
	}
	defer db.Close()
	if err := storage.InitSchema(db); err != nil {
		log.Fatal().Err(err).Msg("failed to init schema")
	}
	log.Info().Str("path", cfg.DBPath).Msg("sqlite opened, schema ensured")

	provider := market.NewCachedProvider(
		market.NewYahooProvider(log),
		storage.NewPriceCache(db),
		cfg.PriceCacheTTL,
		log,
	)

	opts := portfolio.DefaultOptions()
	opts.StartDate = cfg.StartDate
	opts.Location = loc
	opts.RiskFreeRate = cfg.RiskFreeRate
	svc := portfolio.NewService(provider, portfolios, opts, log)

	renderer := charts.NewRenderer()

	var commentator *openai.Commentator
	if cfg.OpenAIKey != "" {
		commentator = openai.NewCommentator(cfg.OpenAIKey)
		log.Info().Msg("commentary enabled")
	}

	var webhook http.HandlerFunc
	if cfg.TelegramToken != "" && cfg.WebhookURL != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.WebhookURL, svc, renderer, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init telegram bot")
		}
		webhook = bot.WebhookHandler
	}

	// Warm the price cache on a schedule so dashboard requests stay fast.
	if cfg.WarmSchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.WarmSchedule, func() { warm(svc, log) }); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.WarmSchedule).Msg("invalid warm schedule")
		}
		c.Start()
		defer c.Stop()
		log.Info().Str("schedule", cfg.WarmSchedule).Msg("cache warmer scheduled")
	}

	srv := server.New(server.Config{
		Service:     svc,
		Renderer:    renderer,
		Commentator: commentator,
		Webhook:     webhook,
		Log:         log,
	})
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// warm recomputes every configured portfolio, populating the price cache
// as a side effect. Failures only log: the next request falls back to a
// live fetch.
func warm(svc *portfolio.Service, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	for _, p := range svc.List() {
		if _, err := svc.Compute(ctx, p.Name); err != nil {
			log.Warn().Err(err).Str("portfolio", p.Name).Msg("warm failed")
		}
	}
}
