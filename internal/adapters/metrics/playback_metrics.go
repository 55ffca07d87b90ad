package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/minehaul-go/internal/domain/playback"
)

// PlaybackMetricsCollector handles playback engine metrics
type PlaybackMetricsCollector struct {
	playbacksTotal  prometheus.Counter
	ticksTotal      prometheus.Counter
	waitTicksTotal  prometheus.Counter
	materialTotal   prometheus.Counter
	bayDelay        prometheus.Histogram
	fleetEfficiency prometheus.Gauge
}

// NewPlaybackMetricsCollector creates a new playback metrics collector
func NewPlaybackMetricsCollector() *PlaybackMetricsCollector {
	return &PlaybackMetricsCollector{
		playbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "playbacks_total",
			Help:      "Total number of completed playbacks",
		}),
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "playback_ticks_total",
			Help:      "Simulated ticks across all playbacks",
		}),
		waitTicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bay_wait_ticks_total",
			Help:      "Vehicle ticks spent queued for a loading or unloading bay",
		}),
		materialTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "material_delivered_total",
			Help:      "Material delivered to the depot across all playbacks",
		}),
		bayDelay: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bay_delay_time_units",
			Help:      "Simulated finish time minus planned makespan",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		fleetEfficiency: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_fleet_efficiency",
			Help:      "Material per vehicle per time unit of the most recent playback",
		}),
	}
}

// Register registers all playback metrics with the Prometheus registry
func (c *PlaybackMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.playbacksTotal,
		c.ticksTotal,
		c.waitTicksTotal,
		c.materialTotal,
		c.bayDelay,
		c.fleetEfficiency,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordPlayback records a finished playback
func (c *PlaybackMetricsCollector) RecordPlayback(summary *playback.Summary) {
	if summary == nil {
		return
	}
	c.playbacksTotal.Inc()
	c.ticksTotal.Add(float64(summary.Ticks))
	c.waitTicksTotal.Add(float64(summary.WaitTicks))
	c.materialTotal.Add(float64(summary.Delivered))
	c.bayDelay.Observe(max(0, summary.Time-summary.PlannedMakespan))
	c.fleetEfficiency.Set(summary.Efficiency)
}
