package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
)

// SolverMetricsCollector handles dispatch solver metrics
type SolverMetricsCollector struct {
	solvesTotal    *prometheus.CounterVec
	solveDuration  *prometheus.HistogramVec
	statesExpanded *prometheus.CounterVec
	memoHits       *prometheus.CounterVec
	tripsPlanned   *prometheus.CounterVec
	makespan       *prometheus.GaugeVec
}

// NewSolverMetricsCollector creates a new solver metrics collector
func NewSolverMetricsCollector() *SolverMetricsCollector {
	return &SolverMetricsCollector{
		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solves_total",
				Help:      "Total number of solves by strategy and outcome",
			},
			[]string{"strategy", "status"},
		),

		// Exact solves range from microseconds to the configured timeout
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_duration_seconds",
				Help:      "Wall-clock duration of successful solves",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"strategy"},
		),

		statesExpanded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "states_expanded_total",
				Help:      "Fleet states expanded by the search",
			},
			[]string{"strategy"},
		),

		memoHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "memo_hits_total",
				Help:      "Fleet states answered from the memo table",
			},
			[]string{"strategy"},
		),

		tripsPlanned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "trips_planned_total",
				Help:      "Trips in produced schedules",
			},
			[]string{"strategy"},
		),

		makespan: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_makespan",
				Help:      "Makespan of the most recent successful solve in time units",
			},
			[]string{"strategy"},
		),
	}
}

// Register registers all solver metrics with the Prometheus registry
func (c *SolverMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.solvesTotal,
		c.solveDuration,
		c.statesExpanded,
		c.memoHits,
		c.tripsPlanned,
		c.makespan,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordSolve records one solve. Failed solves only count towards solves_total.
func (c *SolverMetricsCollector) RecordSolve(strategy string, plan *dispatch.Plan, err error) {
	c.solvesTotal.WithLabelValues(strategy, outcome(err)).Inc()
	if err != nil || plan == nil {
		return
	}

	c.solveDuration.WithLabelValues(strategy).Observe(plan.Stats.Duration.Seconds())
	c.statesExpanded.WithLabelValues(strategy).Add(float64(plan.Stats.StatesExpanded))
	c.memoHits.WithLabelValues(strategy).Add(float64(plan.Stats.MemoHits))
	c.makespan.WithLabelValues(strategy).Set(plan.Makespan)
	if plan.Schedule != nil {
		c.tripsPlanned.WithLabelValues(strategy).Add(float64(len(plan.Schedule.Assignments)))
	}
}
