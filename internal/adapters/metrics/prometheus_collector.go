package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/playback"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

const (
	// Namespace for all metrics
	namespace = "minehaul"
	// Subsystem for optimizer metrics
	subsystem = "optimizer"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalSolverCollector is set by SetGlobalSolverCollector() when metrics are enabled
	globalSolverCollector SolverMetricsRecorder

	// globalPlaybackCollector is set by SetGlobalPlaybackCollector() when metrics are enabled
	globalPlaybackCollector PlaybackMetricsRecorder
)

// SolverMetricsRecorder defines the interface for recording solve outcomes
type SolverMetricsRecorder interface {
	RecordSolve(strategy string, plan *dispatch.Plan, err error)
}

// PlaybackMetricsRecorder defines the interface for recording playback outcomes
type PlaybackMetricsRecorder interface {
	RecordPlayback(summary *playback.Summary)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Reset drops the registry and the global collectors
func Reset() {
	Registry = nil
	globalSolverCollector = nil
	globalPlaybackCollector = nil
}

// SetGlobalSolverCollector sets the global solver metrics collector
func SetGlobalSolverCollector(collector SolverMetricsRecorder) {
	globalSolverCollector = collector
}

// RecordSolve records a solve outcome globally
func RecordSolve(strategy string, plan *dispatch.Plan, err error) {
	if globalSolverCollector != nil {
		globalSolverCollector.RecordSolve(strategy, plan, err)
	}
}

// SetGlobalPlaybackCollector sets the global playback metrics collector
func SetGlobalPlaybackCollector(collector PlaybackMetricsRecorder) {
	globalPlaybackCollector = collector
}

// RecordPlayback records a finished playback globally
func RecordPlayback(summary *playback.Summary) {
	if globalPlaybackCollector != nil {
		globalPlaybackCollector.RecordPlayback(summary)
	}
}

// outcome maps an error onto a low-cardinality status label
func outcome(err error) string {
	var (
		unreachable *shared.UnreachableError
		budget      *shared.BudgetExceededError
		infeasible  *shared.InfeasibleConfigError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &unreachable):
		return "unreachable"
	case errors.As(err, &budget):
		return "budget_exceeded"
	case errors.As(err, &infeasible):
		return "infeasible"
	default:
		return "error"
	}
}
