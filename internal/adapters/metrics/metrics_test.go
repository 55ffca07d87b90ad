package metrics

import (
	"context"
	"fmt"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/playback"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := Registry.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	return byName
}

func counterWithLabels(f *dto.MetricFamily, labels map[string]string) float64 {
	for _, m := range f.GetMetric() {
		matched := 0
		for _, lp := range m.GetLabel() {
			if labels[lp.GetName()] == lp.GetValue() {
				matched++
			}
		}
		if matched == len(labels) {
			return m.GetCounter().GetValue()
		}
	}
	return -1
}

func TestRecordSolve_WithoutCollectorIsNoOp(t *testing.T) {
	Reset()
	assert.False(t, IsEnabled())
	assert.NotPanics(t, func() {
		RecordSolve("exact", nil, nil)
		RecordPlayback(&playback.Summary{})
	})
}

func TestSolverMetricsCollector_RecordsOutcomes(t *testing.T) {
	// Arrange
	InitRegistry()
	t.Cleanup(Reset)
	collector := NewSolverMetricsCollector()
	require.NoError(t, collector.Register())
	SetGlobalSolverCollector(collector)

	plan := &dispatch.Plan{
		Makespan: 23,
		Schedule: &dispatch.Schedule{Assignments: []dispatch.Assignment{{}, {}}},
		Stats:    dispatch.SolveStats{StatesExpanded: 7, MemoHits: 3, Duration: 2 * time.Millisecond},
	}

	// Act
	RecordSolve("exact", plan, nil)
	RecordSolve("exact", nil, shared.NewBudgetExceededError("node budget", 10))
	RecordSolve("exact", nil, fmt.Errorf("wrapped: %w", shared.NewUnreachableError("D", "M2")))

	// Assert
	families := gather(t)
	solves := families["minehaul_optimizer_solves_total"]
	require.NotNil(t, solves)
	assert.Equal(t, 1.0, counterWithLabels(solves, map[string]string{"strategy": "exact", "status": "success"}))
	assert.Equal(t, 1.0, counterWithLabels(solves, map[string]string{"strategy": "exact", "status": "budget_exceeded"}))
	assert.Equal(t, 1.0, counterWithLabels(solves, map[string]string{"strategy": "exact", "status": "unreachable"}))
	assert.Equal(t, 7.0, counterWithLabels(families["minehaul_optimizer_states_expanded_total"], map[string]string{"strategy": "exact"}))
	assert.Equal(t, 2.0, counterWithLabels(families["minehaul_optimizer_trips_planned_total"], map[string]string{"strategy": "exact"}))
}

func TestPlaybackMetricsCollector_RecordsSummary(t *testing.T) {
	// Arrange
	InitRegistry()
	t.Cleanup(Reset)
	collector := NewPlaybackMetricsCollector()
	require.NoError(t, collector.Register())
	SetGlobalPlaybackCollector(collector)

	// Act
	RecordPlayback(&playback.Summary{Ticks: 24, WaitTicks: 2, Delivered: 50, Time: 25, PlannedMakespan: 23, Efficiency: 2})

	// Assert
	families := gather(t)
	assert.Equal(t, 24.0, families["minehaul_optimizer_playback_ticks_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 2.0, families["minehaul_optimizer_bay_wait_ticks_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 2.0, families["minehaul_optimizer_last_fleet_efficiency"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 2.0, families["minehaul_optimizer_bay_delay_time_units"].GetMetric()[0].GetHistogram().GetSampleSum())
}

func TestPrometheusMiddleware_RecordsCommandName(t *testing.T) {
	// Arrange
	InitRegistry()
	t.Cleanup(Reset)
	collector := NewCommandMetricsCollector()
	require.NoError(t, collector.Register())
	middleware := PrometheusMiddleware(collector)

	type PlanDispatchCommand struct{}

	// Act
	_, err := middleware(context.Background(), &PlanDispatchCommand{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return "ok", nil
	})

	// Assert
	require.NoError(t, err)
	families := gather(t)
	assert.Equal(t, 1.0, counterWithLabels(families["minehaul_optimizer_commands_total"],
		map[string]string{"command": "PlanDispatchCommand", "status": "success"}))
}

func TestExtractCommandName(t *testing.T) {
	type ListPlansQuery struct{}
	assert.Equal(t, "ListPlansQuery", extractCommandName(&ListPlansQuery{}))
	assert.Equal(t, "UnknownCommand", extractCommandName(nil))
}
