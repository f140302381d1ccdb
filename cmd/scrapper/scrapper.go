package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pheemnattavich-project/FloodSafe/internal/config"
	"github.com/pheemnattavich-project/FloodSafe/internal/index"
	"github.com/pheemnattavich-project/FloodSafe/internal/integration"
	"github.com/pheemnattavich-project/FloodSafe/internal/observability"
	"github.com/pheemnattavich-project/FloodSafe/internal/repository"
	"github.com/pheemnattavich-project/FloodSafe/internal/usecases"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogging(cfg)
	log.Info().Msg("starting FloodSafe scrapper")

	repo, err := newRepository(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize repository")
	}
	defer repo.Close()

	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	sourceFactory := integration.NewChromeSourceFactory(integration.ChromeOptions{
		URL:            cfg.SourceURL,
		Headless:       cfg.Headless,
		ChromePath:     cfg.ChromePath,
		ContentTimeout: cfg.ContentTimeout,
		PollInterval:   cfg.PollInterval,
	}, clock, log.Logger)

	crawler := integration.NewCrawler(
		sourceFactory,
		integration.NewExtractor(integration.ThaiwaterProfile),
		clock,
		integration.PagerOptions{
			AdvanceTimeout: cfg.AdvanceTimeout,
			PollInterval:   cfg.PollInterval,
			SettleDelay:    cfg.SettleDelay,
		},
		metrics,
		log.Logger,
	)

	useCase := usecases.NewStationUseCase(repo, crawler, index.NewStore(), metrics, log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics endpoint for the crawl side.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	// Run once on startup so a fresh deployment has data immediately.
	if err := useCase.RefreshStationData(ctx); err != nil {
		log.Error().Err(err).Msg("initial data refresh failed")
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.CrawlSchedule, func() {
		if err := useCase.RefreshStationData(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled data refresh failed")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up cron job")
	}

	log.Info().Str("schedule", cfg.CrawlSchedule).Msg("scrapper scheduled")
	c.Start()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	<-c.Stop().Done()
}

func newRepository(cfg *config.Config) (repository.StationRepository, error) {
	if cfg.StorageBackend == config.StorageSQLite {
		return repository.NewSQLiteStationRepository(cfg.DBPath)
	}
	return repository.NewJSONStationRepository(cfg.DataFile)
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}
