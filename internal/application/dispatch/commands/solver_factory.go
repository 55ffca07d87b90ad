package commands

import (
	"fmt"
	"time"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// SolverSettings select and bound the solver used for a dispatch plan
type SolverSettings struct {
	Strategy     string
	Workers      int
	MaxNodes     int64
	Timeout      time.Duration
	MaxTripStops int
	Canonicalize bool
}

// DefaultSolverSettings runs the exact solver sequentially without a budget
func DefaultSolverSettings() SolverSettings {
	return SolverSettings{
		Strategy:     dispatch.StrategyExact,
		Workers:      1,
		Canonicalize: true,
	}
}

// NewSolver builds the solver described by the settings
func NewSolver(settings SolverSettings, clock shared.Clock) (dispatch.Solver, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	switch settings.Strategy {
	case dispatch.StrategyExact, "":
		if settings.Workers < 0 {
			return nil, shared.NewInfeasibleConfigError("workers", "cannot be negative")
		}
		if settings.MaxNodes < 0 || settings.Timeout < 0 {
			return nil, shared.NewInfeasibleConfigError("budget", "limits cannot be negative")
		}

		opts := []dispatch.ExactSolverOption{
			dispatch.WithBudget(dispatch.Budget{MaxNodes: settings.MaxNodes, Timeout: settings.Timeout}),
			dispatch.WithWorkers(max(1, settings.Workers)),
			dispatch.WithMaxTripStops(settings.MaxTripStops),
			dispatch.WithClock(clock),
		}
		if !settings.Canonicalize {
			opts = append(opts, dispatch.WithCanonicalizer(dispatch.IdentityCanonicalizer{}))
		}
		return dispatch.NewExactSolver(opts...), nil

	case dispatch.StrategyGreedy:
		return dispatch.NewGreedySolver(clock), nil

	default:
		return nil, shared.NewInfeasibleConfigError("strategy", fmt.Sprintf("unknown strategy %q (want %s or %s)",
			settings.Strategy, dispatch.StrategyExact, dispatch.StrategyGreedy))
	}
}
