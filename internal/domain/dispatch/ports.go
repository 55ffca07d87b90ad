package dispatch

import (
	"context"
	"time"
)

// Solver turns a dispatch problem into a plan. Implementations either return
// a complete plan or an error, never a partial schedule.
type Solver interface {
	Solve(ctx context.Context, problem *Problem) (*Plan, error)
	Name() string
}

// StoredPlan is a solved plan kept for later replay
type StoredPlan struct {
	ID        string
	Scenario  string
	Strategy  string
	Makespan  float64
	Schedule  *Schedule
	Stats     SolveStats
	CreatedAt time.Time
}

// PlanRepository persists solved plans
type PlanRepository interface {
	Save(ctx context.Context, plan *StoredPlan) error
	FindByID(ctx context.Context, id string) (*StoredPlan, error)
	List(ctx context.Context, limit int) ([]*StoredPlan, error)
	Delete(ctx context.Context, id string) error
}
