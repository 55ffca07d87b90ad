package dispatch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// Budget bounds a search. Zero values mean unlimited.
type Budget struct {
	// MaxNodes caps the number of states expanded
	MaxNodes int64
	// Timeout caps the wall-clock time of one solve
	Timeout time.Duration
}

// IsUnlimited reports whether the budget sets no bound at all
func (b Budget) IsUnlimited() bool {
	return b.MaxNodes <= 0 && b.Timeout <= 0
}

// budgetTracker enforces a Budget for one solve. It is shared by all workers.
type budgetTracker struct {
	budget   Budget
	clock    shared.Clock
	deadline time.Time
	expanded atomic.Int64
	hits     atomic.Int64
}

func newBudgetTracker(budget Budget, clock shared.Clock) *budgetTracker {
	t := &budgetTracker{budget: budget, clock: clock}
	if budget.Timeout > 0 {
		t.deadline = clock.Now().Add(budget.Timeout)
	}
	return t
}

// check runs at every recursive entry
func (t *budgetTracker) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return shared.NewBudgetExceededError(fmt.Sprintf("search cancelled: %v", err), t.expanded.Load())
	}
	if t.budget.MaxNodes > 0 && t.expanded.Load() >= t.budget.MaxNodes {
		return shared.NewBudgetExceededError(fmt.Sprintf("node budget of %d states exhausted", t.budget.MaxNodes), t.expanded.Load())
	}
	if !t.deadline.IsZero() && t.clock.Now().After(t.deadline) {
		return shared.NewBudgetExceededError(fmt.Sprintf("time budget of %s exhausted", t.budget.Timeout), t.expanded.Load())
	}
	return nil
}

func (t *budgetTracker) expand()  { t.expanded.Add(1) }
func (t *budgetTracker) memoHit() { t.hits.Add(1) }
