package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Rate acquisition
	RateRefreshes     *prometheus.CounterVec
	RateFetchDuration *prometheus.HistogramVec
	RatesStored       *prometheus.CounterVec
	SnapshotAge       prometheus.Gauge
	FallbackServed    prometheus.Counter

	// Conversion
	Conversions  *prometheus.CounterVec
	MissingRates *prometheus.CounterVec

	// Currency migration
	Migrations        *prometheus.CounterVec
	MigrationRows     prometheus.Histogram
	MigrationDuration prometheus.Histogram

	// Outbox
	OutboxPublished *prometheus.CounterVec
	OutboxPurged    prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RateRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_rate_refreshes_total",
				Help: "Rate refresh attempts by source and result",
			},
			[]string{"source", "result"},
		),
		RateFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pocketledger_rate_fetch_duration_seconds",
				Help:    "Duration of a full rate refresh",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		RatesStored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_rates_stored_total",
				Help: "Rate quotes acquired per source",
			},
			[]string{"source"},
		),
		SnapshotAge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pocketledger_rate_snapshot_age_seconds",
			Help: "Age of the as-of date of the current snapshot",
		}),
		FallbackServed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pocketledger_rate_fallback_served_total",
			Help: "Times the static fallback table was served",
		}),

		Conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_conversions_total",
				Help: "Currency conversions by direction",
			},
			[]string{"from", "to"},
		),
		MissingRates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_missing_rates_total",
				Help: "Conversions that found no rate for a currency",
			},
			[]string{"path"},
		),

		Migrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_currency_migrations_total",
				Help: "User currency migrations by result",
			},
			[]string{"result"},
		),
		MigrationRows: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pocketledger_currency_migration_rows",
			Help:    "Rows rewritten per currency migration",
			Buckets: []float64{0, 10, 100, 1000, 10000, 100000},
		}),
		MigrationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pocketledger_currency_migration_duration_seconds",
			Help:    "Duration of currency migrations",
			Buckets: prometheus.DefBuckets,
		}),

		OutboxPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_outbox_published_total",
				Help: "Outbox events by publish result",
			},
			[]string{"result"},
		),
		OutboxPurged: factory.NewCounter(prometheus.CounterOpts{
			Name: "pocketledger_outbox_purged_total",
			Help: "Published outbox events deleted after retention",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pocketledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"path"},
		),
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
