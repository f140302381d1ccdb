// Package usecases contains the application's business logic
package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pheemnattavich-project/FloodSafe/internal/entities"
	"github.com/pheemnattavich-project/FloodSafe/internal/index"
	"github.com/pheemnattavich-project/FloodSafe/internal/integration"
	"github.com/pheemnattavich-project/FloodSafe/internal/observability"
	"github.com/pheemnattavich-project/FloodSafe/internal/repository"
)

// StationCrawler produces one full crawl's worth of records. Defined here so
// the use case can be exercised without a browser.
type StationCrawler interface {
	Crawl(ctx context.Context) ([]entities.StationRecord, error)
}

// StationUseCase coordinates crawling, persistence and index publication.
type StationUseCase struct {
	repo    repository.StationRepository
	crawler StationCrawler
	store   *index.Store
	metrics *observability.Metrics
	log     zerolog.Logger
}

// NewStationUseCase creates a new station use case.
func NewStationUseCase(repo repository.StationRepository, crawler StationCrawler, store *index.Store, metrics *observability.Metrics, log zerolog.Logger) *StationUseCase {
	return &StationUseCase{
		repo:    repo,
		crawler: crawler,
		store:   store,
		metrics: metrics,
		log:     log.With().Str("component", "usecase").Logger(),
	}
}

// RefreshStationData runs a full crawl and, on success, persists the records
// and publishes a fresh index. A stalled crawl is retried once from scratch
// with a new session; results of a failed attempt are discarded outright, so
// a truncated dataset can never replace a complete one.
func (uc *StationUseCase) RefreshStationData(ctx context.Context) error {
	uc.log.Info().Msg("starting station data refresh")
	start := time.Now()

	records, err := uc.crawler.Crawl(ctx)
	if errors.Is(err, integration.ErrPaginationStalled) {
		uc.log.Warn().Err(err).Msg("crawl stalled, retrying once with a fresh session")
		records, err = uc.crawler.Crawl(ctx)
	}
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.CrawlsTotal.WithLabelValues(crawlOutcome(err)).Inc()
		}
		return fmt.Errorf("crawl failed: %w", err)
	}

	if err := uc.repo.ReplaceStations(records); err != nil {
		return fmt.Errorf("failed to save stations: %w", err)
	}

	ix := index.New(records)
	uc.store.Publish(ix)

	if uc.metrics != nil {
		uc.metrics.CrawlsTotal.WithLabelValues("success").Inc()
		uc.metrics.CrawlDuration.Observe(time.Since(start).Seconds())
		uc.metrics.StationsIndexed.Set(float64(ix.Len()))
	}
	uc.log.Info().Int("stations", ix.Len()).Dur("took", time.Since(start)).Msg("station data refreshed")
	return nil
}

func crawlOutcome(err error) string {
	switch {
	case errors.Is(err, integration.ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, integration.ErrPaginationStalled):
		return "stalled"
	default:
		return "error"
	}
}

// LoadPersisted publishes an index built from the repository's latest batch,
// so the bot can answer queries before the first live crawl completes. An
// empty repository publishes nothing.
func (uc *StationUseCase) LoadPersisted(ctx context.Context) error {
	records, err := uc.repo.GetLatestStations()
	if err != nil {
		return fmt.Errorf("failed to load persisted stations: %w", err)
	}
	if len(records) == 0 {
		uc.log.Info().Msg("no persisted station data yet")
		return nil
	}

	ix := index.New(records)
	uc.store.Publish(ix)
	if uc.metrics != nil {
		uc.metrics.StationsIndexed.Set(float64(ix.Len()))
	}
	uc.log.Info().Int("stations", ix.Len()).Msg("published index from persisted data")
	return nil
}

// FindStation matches a user keyword against the current index. The boolean
// is false both when nothing matches and when no index has been published.
func (uc *StationUseCase) FindStation(keyword string) (entities.StationRecord, bool) {
	ix := uc.store.Current()
	if ix == nil {
		return entities.StationRecord{}, false
	}
	rec, ok := ix.Match(keyword)
	if uc.metrics != nil {
		result := "miss"
		if ok {
			result = "hit"
		}
		uc.metrics.MatchRequests.WithLabelValues(result).Inc()
	}
	return rec, ok
}

// GetLastUpdateTime reports when the stored data was last replaced.
func (uc *StationUseCase) GetLastUpdateTime() (time.Time, error) {
	return uc.repo.GetLastUpdateTime()
}
