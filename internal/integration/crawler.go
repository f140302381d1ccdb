package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/pheemnattavich-project/FloodSafe/internal/entities"
	"github.com/pheemnattavich-project/FloodSafe/internal/observability"
)

// Crawler walks the paginated station table from the first page to natural
// termination and accumulates every valid record in page-then-row order.
// One Crawl call opens one source session, owns it exclusively and releases
// it before returning; the Crawler itself is reusable across crawls.
type Crawler struct {
	newSource SourceFactory
	extractor *Extractor
	clock     clockwork.Clock
	pagerOpts PagerOptions
	metrics   *observability.Metrics
	log       zerolog.Logger
}

// NewCrawler wires a crawler. metrics may be nil when no registry is wanted.
func NewCrawler(newSource SourceFactory, extractor *Extractor, clock clockwork.Clock, pagerOpts PagerOptions, metrics *observability.Metrics, log zerolog.Logger) *Crawler {
	return &Crawler{
		newSource: newSource,
		extractor: extractor,
		clock:     clock,
		pagerOpts: pagerOpts,
		metrics:   metrics,
		log:       log.With().Str("component", "crawler").Logger(),
	}
}

// Crawl traverses the whole paginated sequence. On success the returned
// slice preserves source order exactly. Failures are all-or-nothing: a
// missing first page surfaces as ErrSourceUnavailable, a stalled advance as
// ErrPaginationStalled, and in both cases no partial records are returned.
func (c *Crawler) Crawl(ctx context.Context) ([]entities.StationRecord, error) {
	source, release, err := c.newSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening source session: %w", err)
	}
	defer release()

	if err := source.WaitForContent(ctx); err != nil {
		if errors.Is(err, errWaitTimeout) {
			return nil, fmt.Errorf("initial content never appeared: %w", ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("waiting for initial content: %w", err)
	}

	pager := NewPager(source, c.clock, c.pagerOpts, c.log)

	var records []entities.StationRecord
	pages := 0
	skipped := 0

	for {
		rows, err := source.Rows(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading rows on page %d: %w", pages+1, err)
		}
		pages++

		// Accumulation happens only here, inside the per-row step. Nothing
		// is appended after the loop terminates, so the final row can never
		// be emitted twice.
		for _, row := range rows {
			record, ok := c.extractor.Extract(row.StationName, row.Cells)
			if !ok {
				skipped++
				if c.metrics != nil {
					c.metrics.RowsSkipped.Inc()
				}
				c.log.Debug().Int("page", pages).Int("cells", len(row.Cells)).Msg("skipping unextractable row")
				continue
			}
			records = append(records, record)
			if c.metrics != nil {
				c.metrics.RowsExtracted.Inc()
			}
		}

		hasNext, err := pager.HasNext(ctx)
		if err != nil {
			return nil, err
		}
		if !hasNext {
			break
		}

		if err := pager.Advance(ctx); err != nil {
			return nil, fmt.Errorf("advancing past page %d: %w", pages, err)
		}
	}

	if c.metrics != nil {
		c.metrics.PagesCrawled.Add(float64(pages))
	}
	c.log.Info().Int("pages", pages).Int("records", len(records)).Int("skipped", skipped).Str("state", pager.State().String()).Msg("crawl finished")
	return records, nil
}
