package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
)

// DefaultListLimit applies when ListPlansQuery.Limit is not positive
const DefaultListLimit = 20

// ListPlansQuery lists stored plans, newest first
type ListPlansQuery struct {
	Limit int
}

// ListPlansResponse contains the stored plans
type ListPlansResponse struct {
	Plans []*dispatch.StoredPlan
}

// ListPlansHandler handles the list plans query
type ListPlansHandler struct {
	planRepo dispatch.PlanRepository
}

// NewListPlansHandler creates a new list plans handler
func NewListPlansHandler(planRepo dispatch.PlanRepository) *ListPlansHandler {
	return &ListPlansHandler{planRepo: planRepo}
}

// Handle executes the list plans query
func (h *ListPlansHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListPlansQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	plans, err := h.planRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	return &ListPlansResponse{Plans: plans}, nil
}
