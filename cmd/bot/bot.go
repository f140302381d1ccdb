package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pheemnattavich-project/FloodSafe/internal/api"
	"github.com/pheemnattavich-project/FloodSafe/internal/config"
	"github.com/pheemnattavich-project/FloodSafe/internal/index"
	"github.com/pheemnattavich-project/FloodSafe/internal/observability"
	"github.com/pheemnattavich-project/FloodSafe/internal/repository"
	"github.com/pheemnattavich-project/FloodSafe/internal/usecases"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogging(cfg)
	log.Info().Msg("starting FloodSafe bot")

	if err := cfg.ValidateLINE(); err != nil {
		log.Fatal().Err(err).Msg("missing LINE credentials")
	}

	repo, err := newRepository(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize repository")
	}
	defer repo.Close()

	metrics := observability.NewMetrics()
	store := index.NewStore()

	// The bot never crawls; it serves whatever the scrapper last persisted.
	useCase := usecases.NewStationUseCase(repo, nil, store, metrics, log.Logger)
	if err := useCase.LoadPersisted(context.Background()); err != nil {
		log.Warn().Err(err).Msg("could not load persisted station data")
	}

	lineBot, err := api.NewLineBot(cfg.ChannelAccessToken, cfg.ChannelSecret, useCase, metrics, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize LINE bot")
	}

	mux := http.NewServeMux()
	lineBot.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	log.Info().Str("addr", cfg.HTTPAddr).Msg("listening for webhooks")
	if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
		log.Fatal().Err(err).Msg("webhook server stopped")
	}
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
