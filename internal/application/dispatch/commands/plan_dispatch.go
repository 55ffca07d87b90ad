package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/minehaul-go/internal/adapters/metrics"
	"github.com/andrescamacho/minehaul-go/internal/application/logging"
	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
	"github.com/andrescamacho/minehaul-go/pkg/utils"
)

// PlanDispatchCommand solves a dispatch problem and optionally stores the plan
type PlanDispatchCommand struct {
	ScenarioName string
	Problem      *dispatch.Problem
	Settings     SolverSettings
	Persist      bool
}

// PlanDispatchResponse carries the solved plan. PlanID is empty unless the plan was stored.
type PlanDispatchResponse struct {
	PlanID string
	Plan   *dispatch.Plan
}

// PlanDispatchHandler handles the plan dispatch command
type PlanDispatchHandler struct {
	planRepo dispatch.PlanRepository
	clock    shared.Clock
}

// NewPlanDispatchHandler creates a new plan dispatch handler.
// planRepo may be nil when plans are never persisted.
func NewPlanDispatchHandler(planRepo dispatch.PlanRepository, clock shared.Clock) *PlanDispatchHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &PlanDispatchHandler{
		planRepo: planRepo,
		clock:    clock,
	}
}

// Handle executes the plan dispatch command
func (h *PlanDispatchHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*PlanDispatchCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Problem == nil {
		return nil, shared.NewValidationError("problem", "is required")
	}

	logger := logging.WithFields(logging.LoggerFromContext(ctx), map[string]interface{}{
		"scenario": cmd.ScenarioName,
	})

	solver, err := NewSolver(cmd.Settings, h.clock)
	if err != nil {
		return nil, err
	}

	params := cmd.Problem.Params()
	logger.Log(logging.LevelInfo, "Planning dispatch", map[string]interface{}{
		"action":     "plan_dispatch",
		"strategy":   solver.Name(),
		"mines":      len(cmd.Problem.Mines()),
		"material":   cmd.Problem.TotalMaterial(),
		"fleet_size": params.FleetSize,
		"capacity":   params.Capacity,
	})

	plan, err := solver.Solve(ctx, cmd.Problem)
	metrics.RecordSolve(solver.Name(), plan, err)
	if err != nil {
		logger.Log(logging.LevelError, "Dispatch solve failed", map[string]interface{}{
			"action":   "plan_dispatch",
			"strategy": solver.Name(),
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("failed to solve scenario %q: %w", cmd.ScenarioName, err)
	}

	if err := dispatch.VerifySchedule(cmd.Problem, plan.Schedule); err != nil {
		return nil, fmt.Errorf("solver %s produced an invalid schedule: %w", solver.Name(), err)
	}

	logger.Log(logging.LevelInfo, "Dispatch planned", map[string]interface{}{
		"action":          "plan_dispatch",
		"strategy":        solver.Name(),
		"makespan":        plan.Makespan,
		"trips":           len(plan.Schedule.Assignments),
		"states_expanded": plan.Stats.StatesExpanded,
		"memo_hits":       plan.Stats.MemoHits,
		"duration_ms":     plan.Stats.Duration.Milliseconds(),
	})

	response := &PlanDispatchResponse{Plan: plan}
	if !cmd.Persist {
		return response, nil
	}
	if h.planRepo == nil {
		return nil, fmt.Errorf("cannot persist plan: no plan repository configured")
	}

	stored := &dispatch.StoredPlan{
		ID:        utils.GeneratePlanID(cmd.ScenarioName),
		Scenario:  cmd.ScenarioName,
		Strategy:  solver.Name(),
		Makespan:  plan.Makespan,
		Schedule:  plan.Schedule,
		Stats:     plan.Stats,
		CreatedAt: h.clock.Now(),
	}
	if err := h.planRepo.Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	response.PlanID = stored.ID

	logger.Log(logging.LevelInfo, "Plan stored", map[string]interface{}{
		"action":  "plan_dispatch",
		"plan_id": stored.ID,
	})

	return response, nil
}
