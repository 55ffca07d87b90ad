package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/minehaul-go/internal/application/logging"
	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// DeletePlanCommand removes a stored plan
type DeletePlanCommand struct {
	ID string
}

// DeletePlanHandler handles the delete plan command
type DeletePlanHandler struct {
	planRepo dispatch.PlanRepository
}

// NewDeletePlanHandler creates a new delete plan handler
func NewDeletePlanHandler(planRepo dispatch.PlanRepository) *DeletePlanHandler {
	return &DeletePlanHandler{planRepo: planRepo}
}

// Handle executes the delete plan command
func (h *DeletePlanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DeletePlanCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.ID == "" {
		return nil, shared.NewValidationError("id", "is required")
	}

	if err := h.planRepo.Delete(ctx, cmd.ID); err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Plan deleted", map[string]interface{}{
		"action":  "delete_plan",
		"plan_id": cmd.ID,
	})
	return nil, nil
}
