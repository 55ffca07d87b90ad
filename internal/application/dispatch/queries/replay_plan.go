package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/minehaul-go/internal/adapters/metrics"
	"github.com/andrescamacho/minehaul-go/internal/application/logging"
	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/playback"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// ReplayPlanQuery plays a schedule tick by tick.
// Either PlanID names a stored plan or Schedule is given directly.
type ReplayPlanQuery struct {
	PlanID   string
	Schedule *dispatch.Schedule
	Options  playback.Options
	// OnSnapshot observes every snapshot in tick order; an error stops the replay
	OnSnapshot func(*playback.Snapshot) error
}

// ReplayPlanResponse summarizes a finished replay
type ReplayPlanResponse struct {
	Summary  *playback.Summary
	Final    *playback.Snapshot
	Schedule *dispatch.Schedule
}

// ReplayPlanHandler handles the replay plan query
type ReplayPlanHandler struct {
	planRepo dispatch.PlanRepository
}

// NewReplayPlanHandler creates a new replay plan handler
func NewReplayPlanHandler(planRepo dispatch.PlanRepository) *ReplayPlanHandler {
	return &ReplayPlanHandler{planRepo: planRepo}
}

// Handle executes the replay plan query
func (h *ReplayPlanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ReplayPlanQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	logger := logging.LoggerFromContext(ctx)

	schedule, err := h.resolveSchedule(ctx, query)
	if err != nil {
		return nil, err
	}

	engine, err := playback.NewEngine(query.Options)
	if err != nil {
		return nil, err
	}

	logger.Log(logging.LevelInfo, "Replaying plan", map[string]interface{}{
		"action":        "replay_plan",
		"plan_id":       query.PlanID,
		"trips":         len(schedule.Assignments),
		"tick_duration": query.Options.TickDuration,
		"unload_bays":   query.Options.UnloadBays,
	})

	var final *playback.Snapshot
	for snapshot, err := range engine.Play(ctx, schedule) {
		if err != nil {
			logger.Log(logging.LevelError, "Replay failed", map[string]interface{}{
				"action":  "replay_plan",
				"plan_id": query.PlanID,
				"error":   err.Error(),
			})
			return nil, err
		}
		if query.OnSnapshot != nil {
			if err := query.OnSnapshot(snapshot); err != nil {
				return nil, fmt.Errorf("snapshot observer stopped replay at tick %d: %w", snapshot.Tick, err)
			}
		}
		final = snapshot
	}

	summary := playback.SummarizeSnapshot(final, schedule)
	metrics.RecordPlayback(summary)

	logger.Log(logging.LevelInfo, "Replay finished", map[string]interface{}{
		"action":     "replay_plan",
		"plan_id":    query.PlanID,
		"final_tick": summary.FinalTick,
		"time":       summary.Time,
		"delivered":  summary.Delivered,
		"wait_ticks": summary.WaitTicks,
	})

	return &ReplayPlanResponse{
		Summary:  summary,
		Final:    final,
		Schedule: schedule,
	}, nil
}

func (h *ReplayPlanHandler) resolveSchedule(ctx context.Context, query *ReplayPlanQuery) (*dispatch.Schedule, error) {
	if query.Schedule != nil {
		return query.Schedule, nil
	}
	if query.PlanID == "" {
		return nil, shared.NewValidationError("plan_id", "either a plan id or a schedule is required")
	}
	if h.planRepo == nil {
		return nil, fmt.Errorf("cannot load plan %s: no plan repository configured", query.PlanID)
	}

	stored, err := h.planRepo.FindByID(ctx, query.PlanID)
	if err != nil {
		return nil, err
	}
	return stored.Schedule, nil
}
