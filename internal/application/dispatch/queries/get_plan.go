package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// GetPlanQuery loads one stored plan
type GetPlanQuery struct {
	ID string
}

// GetPlanResponse contains the stored plan
type GetPlanResponse struct {
	Plan *dispatch.StoredPlan
}

// GetPlanHandler handles the get plan query
type GetPlanHandler struct {
	planRepo dispatch.PlanRepository
}

// NewGetPlanHandler creates a new get plan handler
func NewGetPlanHandler(planRepo dispatch.PlanRepository) *GetPlanHandler {
	return &GetPlanHandler{planRepo: planRepo}
}

// Handle executes the get plan query
func (h *GetPlanHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetPlanQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if query.ID == "" {
		return nil, shared.NewValidationError("id", "is required")
	}

	plan, err := h.planRepo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, err
	}

	return &GetPlanResponse{Plan: plan}, nil
}
