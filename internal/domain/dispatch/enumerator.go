package dispatch

import (
	"iter"

	"github.com/andrescamacho/minehaul-go/internal/domain/routing"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// TripEnumerator generates every capacity-feasible trip a single vehicle can
// run from a location given the current mine stock.
//
// Trips are produced depth-first over mine-index sequences, so a sequence is
// always yielded before any of its extensions and sibling sequences come in
// ascending mine index. That order is the solver's trip tie-break.
//
// The number of trips grows as O(2^m * m!) in the number m of mines holding
// material. MaxStops bounds the visits per trip when that is too much.
type TripEnumerator struct {
	builder  tripBuilder
	mines    []shared.SiteID
	maxStops int
}

// NewTripEnumerator creates an enumerator. maxStops <= 0 means unlimited.
func NewTripEnumerator(problem *Problem, oracle routing.DistanceOracle, maxStops int) *TripEnumerator {
	if oracle == nil {
		oracle = problem.Oracle()
	}
	return &TripEnumerator{
		builder:  tripBuilder{problem: problem, oracle: oracle},
		mines:    problem.Mines(),
		maxStops: maxStops,
	}
}

// Enumerate lazily yields feasible trips starting at from. remaining is
// indexed by mine order and is not modified. An oracle failure is yielded
// once as an error and ends the sequence.
func (e *TripEnumerator) Enumerate(from shared.SiteID, remaining []int, capacity int) iter.Seq2[*Trip, error] {
	return func(yield func(*Trip, error) bool) {
		if capacity <= 0 {
			return
		}
		w := &tripWalk{
			enumerator: e,
			origin:     from,
			remaining:  remaining,
			capacity:   capacity,
			used:       make([]bool, len(remaining)),
			yield:      yield,
		}
		w.extend(from, 0)
	}
}

// tripWalk carries the depth-first state of one Enumerate call
type tripWalk struct {
	enumerator *TripEnumerator
	origin     shared.SiteID
	remaining  []int
	capacity   int
	used       []bool
	visits     []Visit
	legs       []Leg
	yield      func(*Trip, error) bool
}

// extend tries every unused mine as the next stop. It returns false once the
// consumer stopped or an error was reported.
func (w *tripWalk) extend(at shared.SiteID, loaded int) bool {
	e := w.enumerator
	for i, mine := range e.mines {
		if w.used[i] || w.remaining[i] <= 0 {
			continue
		}
		pickup := min(w.remaining[i], w.capacity-loaded)
		if pickup <= 0 {
			continue
		}

		leg, err := e.builder.leg(at, mine)
		if err != nil {
			w.yield(nil, err)
			return false
		}

		w.used[i] = true
		w.visits = append(w.visits, Visit{Mine: mine, Pickup: pickup, LoadTime: e.builder.problem.LoadTimeAt(i)})
		w.legs = append(w.legs, leg)

		trip, err := e.builder.finish(w.origin, w.visits, w.legs)
		if err != nil {
			w.yield(nil, err)
			return false
		}
		if !w.yield(trip, nil) {
			return false
		}

		// A full vehicle cannot take another stop, so the prefix is not extended
		full := loaded+pickup >= w.capacity
		capped := e.maxStops > 0 && len(w.visits) >= e.maxStops
		if !full && !capped {
			if !w.extend(mine, loaded+pickup) {
				return false
			}
		}

		w.visits = w.visits[:len(w.visits)-1]
		w.legs = w.legs[:len(w.legs)-1]
		w.used[i] = false
	}
	return true
}
