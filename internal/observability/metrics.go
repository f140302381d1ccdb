// Package observability exposes the Prometheus metrics for the crawl engine
// and the bot front-end.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for FloodSafe.
type Metrics struct {
	CrawlsTotal     *prometheus.CounterVec // labels: outcome={success,source_unavailable,stalled,error}
	CrawlDuration   prometheus.Histogram
	PagesCrawled    prometheus.Counter
	RowsExtracted   prometheus.Counter
	RowsSkipped     prometheus.Counter
	StationsIndexed prometheus.Gauge

	MatchRequests *prometheus.CounterVec // labels: result={hit,miss}
	WebhookEvents prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CrawlsTotal,
		m.CrawlDuration,
		m.PagesCrawled,
		m.RowsExtracted,
		m.RowsSkipped,
		m.StationsIndexed,
		m.MatchRequests,
		m.WebhookEvents,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CrawlsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodsafe",
			Name:      "crawls_total",
			Help:      "Completed crawl attempts by outcome.",
		}, []string{"outcome"}),
		CrawlDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "floodsafe",
			Name:      "crawl_duration_seconds",
			Help:      "Duration of a full crawl over all pages.",
			Buckets:   []float64{5, 10, 30, 60, 120, 300, 600},
		}),
		PagesCrawled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodsafe",
			Name:      "pages_crawled_total",
			Help:      "Total pages traversed across all crawls.",
		}),
		RowsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodsafe",
			Name:      "rows_extracted_total",
			Help:      "Rows successfully extracted into station records.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodsafe",
			Name:      "rows_skipped_total",
			Help:      "Rows skipped at the extraction boundary.",
		}),
		StationsIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodsafe",
			Name:      "stations_indexed",
			Help:      "Stations in the currently published index.",
		}),
		MatchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodsafe",
			Name:      "match_requests_total",
			Help:      "Station keyword lookups by result.",
		}, []string{"result"}),
		WebhookEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodsafe",
			Name:      "webhook_events_total",
			Help:      "LINE webhook events received.",
		}),
	}
}
