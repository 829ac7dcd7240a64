// Package metrics provides Prometheus metrics for the market watcher.
// Scrape these at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "albion_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "albion_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Feed Metrics
	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "albion_feed_fetches_total",
			Help: "Price feed fetches by outcome",
		},
		[]string{"outcome"}, // "ok", "unavailable", "error"
	)

	FeedFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "albion_feed_fetch_duration_seconds",
			Help:    "Latency of individual price feed requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Aggregation Pass Metrics
	RefreshPassesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "albion_refresh_passes_total",
			Help: "Total number of full aggregation passes",
		},
	)

	RefreshPassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "albion_refresh_pass_duration_seconds",
			Help:    "Time taken to refresh the whole watchlist",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	StaleResultsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "albion_stale_results_dropped_total",
			Help: "Fetch results discarded because a newer reload superseded them",
		},
	)

	// Projection Metrics
	WatchlistSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "albion_watchlist_size",
			Help: "Number of entries in the watchlist",
		},
	)

	FavoritesSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "albion_favorites_size",
			Help: "Number of bookmarked favorites",
		},
	)

	BestProfitPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "albion_best_profit_percent",
			Help: "Highest profit percentage currently in the projection",
		},
	)
)
