// Package metrics provides Prometheus metrics for PokeTrack.
// The server exposes them at /metrics; the terminal client exposes its own
// registry when a metrics address is configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poketrack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poketrack_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Catalog Metrics
	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poketrack_catalog_cards",
			Help: "Number of cards loaded into the search catalog",
		},
	)

	CatalogSearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poketrack_catalog_searches_total",
			Help: "Total number of catalog searches served",
		},
	)

	// Price History Metrics
	PriceCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poketrack_price_cache_hits_total",
			Help: "Price history cache hit count",
		},
	)

	PriceCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poketrack_price_cache_misses_total",
			Help: "Price history cache miss count",
		},
	)

	PriceWarmDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poketrack_price_warm_duration_seconds",
			Help:    "Time taken to warm the price history cache for the watchlist",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	PricesWarmedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poketrack_prices_warmed_total",
			Help: "Total number of price histories pre-computed by the cache warmer",
		},
	)

	// Watchlist Metrics
	WatchlistSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poketrack_watchlist_cards",
			Help: "Number of cards on the watchlist",
		},
	)

	WatchlistMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poketrack_watchlist_mutations_total",
			Help: "Watchlist mutations by operation",
		},
		[]string{"op"}, // "add", "remove"
	)

	// Client Sync Metrics
	TrackerTicketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poketrack_tracker_tickets_issued_total",
			Help: "Request tickets issued by the client coordinator, by slot",
		},
		[]string{"slot"},
	)

	TrackerResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poketrack_tracker_responses_total",
			Help: "Settled client responses by slot and outcome",
		},
		[]string{"slot", "outcome"}, // outcome: "applied" or "stale"
	)

	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poketrack_remote_requests_total",
			Help: "Client requests to the PokeTrack API by operation and result",
		},
		[]string{"op", "result"}, // result: "ok" or "error"
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poketrack_remote_request_duration_seconds",
			Help:    "Client request latency to the PokeTrack API",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)
)
