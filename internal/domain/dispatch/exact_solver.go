package dispatch

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

const StrategyExact = "exact"

// ExactSolver finds a minimum-makespan plan by memoized recursion over fleet
// states. The state space is exponential in the number of mines and vehicles;
// bound it with a Budget, a trip stop cap, or use GreedySolver instead.
type ExactSolver struct {
	canonicalizer StateCanonicalizer
	budget        Budget
	workers       int
	maxStops      int
	clock         shared.Clock
}

// ExactSolverOption configures an ExactSolver
type ExactSolverOption func(*ExactSolver)

// WithCanonicalizer replaces the default SortedVehicleCanonicalizer
func WithCanonicalizer(c StateCanonicalizer) ExactSolverOption {
	return func(s *ExactSolver) { s.canonicalizer = c }
}

// WithBudget bounds the search
func WithBudget(b Budget) ExactSolverOption {
	return func(s *ExactSolver) { s.budget = b }
}

// WithWorkers shards the root choices over n goroutines sharing one memo table
func WithWorkers(n int) ExactSolverOption {
	return func(s *ExactSolver) { s.workers = n }
}

// WithMaxTripStops caps the mines visited per trip (0 = unlimited)
func WithMaxTripStops(n int) ExactSolverOption {
	return func(s *ExactSolver) { s.maxStops = n }
}

// WithClock injects the clock used for the time budget
func WithClock(c shared.Clock) ExactSolverOption {
	return func(s *ExactSolver) { s.clock = c }
}

// NewExactSolver creates a sequential solver with vehicle canonicalization and no budget
func NewExactSolver(opts ...ExactSolverOption) *ExactSolver {
	s := &ExactSolver{
		canonicalizer: SortedVehicleCanonicalizer{},
		workers:       1,
		clock:         shared.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ExactSolver) Name() string { return StrategyExact }

// Solve returns the optimal plan.
//
// Ties are broken by the lowest vehicle slot of the canonical state and then
// by enumeration order, so repeated solves of the same problem return the
// same schedule regardless of the worker count.
func (s *ExactSolver) Solve(ctx context.Context, problem *Problem) (*Plan, error) {
	started := s.clock.Now()

	if err := problem.checkReachability(); err != nil {
		return nil, err
	}

	search := &exactSearch{
		problem:    problem,
		enumerator: NewTripEnumerator(problem, problem.Oracle(), s.maxStops),
		canon:      s.canonicalizer,
		memo:       NewMemoTable(s.workers > 1),
		tracker:    newBudgetTracker(s.budget, s.clock),
	}

	initial := problem.InitialState()
	var (
		makespan float64
		err      error
	)
	if s.workers > 1 {
		makespan, err = search.valueParallel(ctx, initial, s.workers)
	} else {
		makespan, err = search.value(ctx, initial)
	}
	if err != nil {
		return nil, err
	}

	schedule, err := search.reconstruct(initial)
	if err != nil {
		return nil, err
	}
	schedule.Makespan = makespan

	return &Plan{
		Makespan: makespan,
		Schedule: schedule,
		Stats: SolveStats{
			Strategy:       StrategyExact,
			StatesExpanded: search.tracker.expanded.Load(),
			MemoHits:       search.tracker.hits.Load(),
			MemoSize:       search.memo.Len(),
			Duration:       s.clock.Now().Sub(started),
		},
	}, nil
}

// exactSearch holds the state of one solve
type exactSearch struct {
	problem    *Problem
	enumerator *TripEnumerator
	canon      StateCanonicalizer
	memo       MemoTable
	tracker    *budgetTracker
}

// choice is one (slot, trip) move out of a canonical state
type choice struct {
	slot int
	trip *Trip
	next FleetState
}

func (e *exactSearch) value(ctx context.Context, state FleetState) (float64, error) {
	if err := e.tracker.check(ctx); err != nil {
		return 0, err
	}

	canonical, _ := e.canon.Canonicalize(state)
	key := canonical.Key()
	if entry, ok := e.memo.Load(key); ok {
		e.tracker.memoHit()
		return entry.Value, nil
	}
	e.tracker.expand()

	entry, err := e.solve(ctx, canonical)
	if err != nil {
		return 0, err
	}
	e.memo.Store(key, entry)
	return entry.Value, nil
}

// solve expands a canonical state that is not in the memo yet
func (e *exactSearch) solve(ctx context.Context, state FleetState) (*MemoEntry, error) {
	if state.Done() {
		v, err := e.terminalValue(state)
		if err != nil {
			return nil, err
		}
		return &MemoEntry{Value: v, Terminal: true, Slot: -1}, nil
	}

	best := &MemoEntry{Value: math.Inf(1), Slot: -1}
	err := e.choices(state, func(c choice) error {
		v, err := e.value(ctx, c.next)
		if err != nil {
			return err
		}
		if v < best.Value {
			best = &MemoEntry{Value: v, Slot: c.slot, Trip: c.trip}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if best.Trip == nil {
		return nil, e.stranded(state)
	}
	return best, nil
}

// choices walks every (slot, trip) move in tie-break order. Slots holding a
// vehicle identical to an earlier slot lead to the same subtrees and are skipped.
func (e *exactSearch) choices(state FleetState, visit func(choice) error) error {
	capacity := e.problem.Params().Capacity
	for slot := 0; slot < state.Vehicles(); slot++ {
		if duplicateSlot(state, slot) {
			continue
		}
		for trip, err := range e.enumerator.Enumerate(state.Location[slot], state.Remaining, capacity) {
			if err != nil {
				return err
			}
			next, err := state.Apply(slot, trip, e.problem.MineIndex)
			if err != nil {
				return err
			}
			if err := visit(choice{slot: slot, trip: trip, next: next}); err != nil {
				return err
			}
		}
	}
	return nil
}

func duplicateSlot(state FleetState, slot int) bool {
	for earlier := 0; earlier < slot; earlier++ {
		if state.sameVehicle(earlier, slot) {
			return true
		}
	}
	return false
}

// terminalValue is the makespan once every mine is empty: each vehicle
// contributes its elapsed time plus the drive home if it is elsewhere
func (e *exactSearch) terminalValue(state FleetState) (float64, error) {
	depot := e.problem.Depot()
	factor := e.problem.Params().TimePerDistance
	makespan := 0.0
	for v := 0; v < state.Vehicles(); v++ {
		finish := state.Elapsed[v]
		if state.Location[v] != depot {
			route, err := e.problem.Oracle().Shortest(state.Location[v], depot)
			if err != nil {
				return 0, err
			}
			finish += route.Cost * factor
		}
		makespan = math.Max(makespan, finish)
	}
	return makespan, nil
}

// stranded builds the error for a state with material left but no move
func (e *exactSearch) stranded(state FleetState) error {
	for i, mine := range e.problem.Mines() {
		if state.Remaining[i] > 0 {
			return shared.NewUnreachableError(e.problem.Depot(), mine)
		}
	}
	return fmt.Errorf("no dispatch choice for unfinished state")
}

// valueParallel evaluates the root choices concurrently and then applies the
// same tie-break as the sequential search
func (e *exactSearch) valueParallel(ctx context.Context, initial FleetState, workers int) (float64, error) {
	if err := e.tracker.check(ctx); err != nil {
		return 0, err
	}
	canonical, _ := e.canon.Canonicalize(initial)
	key := canonical.Key()
	e.tracker.expand()

	if canonical.Done() {
		v, err := e.terminalValue(canonical)
		if err != nil {
			return 0, err
		}
		e.memo.Store(key, &MemoEntry{Value: v, Terminal: true, Slot: -1})
		return v, nil
	}

	var roots []choice
	err := e.choices(canonical, func(c choice) error {
		roots = append(roots, c)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(roots) == 0 {
		return 0, e.stranded(canonical)
	}

	values := make([]float64, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, root := range roots {
		g.Go(func() error {
			v, err := e.value(gctx, root.next)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	best := &MemoEntry{Value: math.Inf(1), Slot: -1}
	for i, root := range roots {
		if values[i] < best.Value {
			best = &MemoEntry{Value: values[i], Slot: root.slot, Trip: root.trip}
		}
	}
	e.memo.Store(key, best)
	return best.Value, nil
}

// reconstruct replays the memoized winning moves from the initial state,
// mapping canonical slots back to vehicle indices
func (e *exactSearch) reconstruct(initial FleetState) (*Schedule, error) {
	schedule := newSchedule(e.problem)
	state := initial
	for {
		canonical, perm := e.canon.Canonicalize(state)
		entry, ok := e.memo.Load(canonical.Key())
		if !ok {
			return nil, fmt.Errorf("reconstruct: state missing from memo after %d assignments", len(schedule.Assignments))
		}
		if entry.Terminal {
			return schedule, nil
		}

		vehicle := perm[entry.Slot]
		schedule.Assignments = append(schedule.Assignments, Assignment{
			Vehicle:   vehicle,
			Trip:      entry.Trip,
			StartTime: state.Elapsed[vehicle],
			Duration:  entry.Trip.Duration,
		})

		next, err := state.Apply(vehicle, entry.Trip, e.problem.MineIndex)
		if err != nil {
			return nil, err
		}
		state = next
	}
}
