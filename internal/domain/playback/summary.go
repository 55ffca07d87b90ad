package playback

import (
	"context"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
)

// VehicleSummary is the per-vehicle outcome of a playback
type VehicleSummary struct {
	Vehicle   int `json:"vehicle"`
	Trips     int `json:"trips"`
	WaitTicks int `json:"wait_ticks"`
}

// Summary describes a finished playback
type Summary struct {
	FinalTick int     `json:"final_tick"`
	Time      float64 `json:"time"`
	Delivered int     `json:"delivered"`
	Total     int     `json:"total"`
	// PlannedMakespan is the solver's makespan; Time exceeds it by the bay delays
	PlannedMakespan float64          `json:"planned_makespan"`
	WaitTicks       int              `json:"wait_ticks"`
	Vehicles        []VehicleSummary `json:"vehicles"`
	// Efficiency is delivered material per vehicle per time unit
	Efficiency float64 `json:"efficiency"`
	Ticks      int     `json:"ticks"`
}

// Progress is the delivered share in percent
func (s *Summary) Progress() float64 {
	if s.Total == 0 {
		return 100
	}
	return float64(s.Delivered) / float64(s.Total) * 100
}

// Summarize plays the schedule to the end and reports the outcome
func (e *Engine) Summarize(ctx context.Context, schedule *dispatch.Schedule) (*Summary, error) {
	var last *Snapshot
	ticks := 0
	for snapshot, err := range e.Play(ctx, schedule) {
		if err != nil {
			return nil, err
		}
		last = snapshot
		ticks++
	}
	return summarize(last, schedule, ticks), nil
}

// SummarizeSnapshot builds a summary from the final snapshot of a playback
func SummarizeSnapshot(final *Snapshot, schedule *dispatch.Schedule) *Summary {
	return summarize(final, schedule, final.Tick+1)
}

func summarize(final *Snapshot, schedule *dispatch.Schedule, ticks int) *Summary {
	summary := &Summary{
		FinalTick:       final.Tick,
		Time:            final.Time,
		Delivered:       final.Delivered,
		Total:           final.Total,
		PlannedMakespan: schedule.Makespan,
		Ticks:           ticks,
	}
	for _, v := range final.Vehicles {
		summary.Vehicles = append(summary.Vehicles, VehicleSummary{
			Vehicle:   v.Vehicle,
			Trips:     v.TripsCompleted,
			WaitTicks: v.WaitTicks,
		})
		summary.WaitTicks += v.WaitTicks
	}
	if final.Time > 0 && len(final.Vehicles) > 0 {
		summary.Efficiency = float64(final.Delivered) / (final.Time * float64(len(final.Vehicles)))
	}
	return summary
}
