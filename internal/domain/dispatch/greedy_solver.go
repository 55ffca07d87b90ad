package dispatch

import (
	"context"
	"math"

	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

const StrategyGreedy = "greedy"

// GreedySolver builds a plan with nearest-insertion: the least busy vehicle
// (lowest index on ties) drives to the nearest mine holding material and keeps
// adding the nearest next mine until it is full or nothing is left, then
// returns to the depot. Plans are feasible but not necessarily optimal.
type GreedySolver struct {
	clock shared.Clock
}

// NewGreedySolver creates a greedy solver
func NewGreedySolver(clock shared.Clock) *GreedySolver {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GreedySolver{clock: clock}
}

func (s *GreedySolver) Name() string { return StrategyGreedy }

func (s *GreedySolver) Solve(ctx context.Context, problem *Problem) (*Plan, error) {
	started := s.clock.Now()

	if err := problem.checkReachability(); err != nil {
		return nil, err
	}

	builder := tripBuilder{problem: problem, oracle: problem.Oracle()}
	capacity := problem.Params().Capacity
	state := problem.InitialState()
	schedule := newSchedule(problem)
	trips := int64(0)

	for !state.Done() {
		if err := ctx.Err(); err != nil {
			return nil, shared.NewBudgetExceededError("greedy solve cancelled: "+err.Error(), trips)
		}

		vehicle := leastBusy(state)
		trip, err := s.buildTrip(&builder, state, vehicle, capacity)
		if err != nil {
			return nil, err
		}

		schedule.Assignments = append(schedule.Assignments, Assignment{
			Vehicle:   vehicle,
			Trip:      trip,
			StartTime: state.Elapsed[vehicle],
			Duration:  trip.Duration,
		})
		state, err = state.Apply(vehicle, trip, problem.MineIndex)
		if err != nil {
			return nil, err
		}
		trips++
	}

	makespan := 0.0
	for _, elapsed := range state.Elapsed {
		makespan = math.Max(makespan, elapsed)
	}
	schedule.Makespan = makespan

	return &Plan{
		Makespan: makespan,
		Schedule: schedule,
		Stats: SolveStats{
			Strategy:       StrategyGreedy,
			StatesExpanded: trips,
			Duration:       s.clock.Now().Sub(started),
		},
	}, nil
}

func leastBusy(state FleetState) int {
	best := 0
	for v := 1; v < state.Vehicles(); v++ {
		if state.Elapsed[v] < state.Elapsed[best] {
			best = v
		}
	}
	return best
}

// buildTrip fills one vehicle by repeatedly driving to the nearest mine with material
func (s *GreedySolver) buildTrip(builder *tripBuilder, state FleetState, vehicle, capacity int) (*Trip, error) {
	origin := state.Location[vehicle]
	mines := builder.problem.Mines()
	used := make([]bool, len(mines))

	var (
		visits []Visit
		legs   []Leg
	)
	at := origin
	loaded := 0
	for loaded < capacity {
		next := -1
		var nextLeg Leg
		for i, mine := range mines {
			if used[i] || state.Remaining[i] <= 0 {
				continue
			}
			leg, err := builder.leg(at, mine)
			if err != nil {
				return nil, err
			}
			if next < 0 || leg.Distance < nextLeg.Distance {
				next, nextLeg = i, leg
			}
		}
		if next < 0 {
			break
		}

		pickup := min(state.Remaining[next], capacity-loaded)
		used[next] = true
		visits = append(visits, Visit{Mine: mines[next], Pickup: pickup, LoadTime: builder.problem.LoadTimeAt(next)})
		legs = append(legs, nextLeg)
		loaded += pickup
		at = mines[next]
	}

	return builder.finish(origin, visits, legs)
}
