package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Submission metrics
	SubmissionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adrena_submissions_total",
			Help: "Total number of transaction submissions started",
		},
		[]string{"operation"},
	)

	SubmissionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adrena_submission_outcomes_total",
			Help: "Terminal submission outcomes by state",
		},
		[]string{"operation", "outcome"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adrena_submission_duration_seconds",
			Help:    "Wall-clock time from build to terminal state",
			Buckets: []float64{0.5, 1, 2, 5, 10, 15, 30, 45},
		},
		[]string{"operation"},
	)

	Rebroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adrena_rebroadcasts_total",
		Help: "Total number of confirmation-poll re-broadcasts",
	})

	TransientRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adrena_transient_retries_total",
		Help: "Total number of transient network error retries",
	})

	// Fee metrics
	PriorityFeePerCU = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "adrena_priority_fee_per_cu_microlamports",
		Help:    "Priority fee rate chosen per submission",
		Buckets: []float64{100, 1_000, 10_000, 50_000, 100_000, 500_000, 1_000_000},
	})

	ComputeUnitCeiling = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "adrena_compute_unit_ceiling",
		Help:    "Compute unit ceiling set per submission",
		Buckets: []float64{50_000, 100_000, 200_000, 400_000, 800_000, 1_400_000},
	})

	FeeSampleFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adrena_fee_sample_fallbacks_total",
		Help: "Total number of fee estimations that used the flat fallback rate",
	})

	// Simulation metrics
	SimulationRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adrena_simulation_rejections_total",
		Help: "Total number of draft transactions rejected during simulation",
	})

	// Account metrics
	AccountReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adrena_account_reads_total",
			Help: "Total number of on-chain account reads by kind",
		},
		[]string{"kind"},
	)

	DerivationCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "adrena_derivation_cache_size",
		Help: "Current number of memoized derived addresses",
	})

	// Price feed metrics
	PriceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adrena_price_fetches_total",
			Help: "Total number of price feed fetches",
		},
		[]string{"status"},
	)
)
