package playback

import (
	"context"
	"fmt"
	"iter"
	"math"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// tickEpsilon keeps durations that are whole multiples of the tick from
// rounding up because of float noise
const tickEpsilon = 1e-9

// Options configure playback
type Options struct {
	// TickDuration is the simulated time covered by one tick
	TickDuration float64
	// UnloadBays limits concurrent unloading at the depot (0 = unlimited)
	UnloadBays int
}

// DefaultOptions plays one time unit per tick with unlimited unloading
func DefaultOptions() Options {
	return Options{TickDuration: 1}
}

// Engine replays schedules as tick-driven simulations.
//
// Every vehicle runs its trips in schedule order as a chain of activities:
// idle until the scheduled start, then travel and load for each visit, then
// travel home and unload. Each mine has one loading bay served first come
// first served; vehicles arriving in the same tick queue in ascending index
// order. A queued vehicle shifts all of its later activities.
type Engine struct {
	opts Options
}

// NewEngine validates the options
func NewEngine(opts Options) (*Engine, error) {
	if math.IsNaN(opts.TickDuration) || math.IsInf(opts.TickDuration, 0) || opts.TickDuration <= 0 {
		return nil, shared.NewInfeasibleConfigError("tick duration", fmt.Sprintf("must be positive, got %v", opts.TickDuration))
	}
	if opts.UnloadBays < 0 {
		return nil, shared.NewInfeasibleConfigError("unload bays", "cannot be negative")
	}
	return &Engine{opts: opts}, nil
}

// Options returns the engine configuration
func (e *Engine) Options() Options { return e.opts }

// Play returns the snapshot sequence of a schedule, starting with tick 0.
// Every range over the sequence replays from scratch; the schedule is only read.
// The sequence ends after the first snapshot in which every vehicle has
// finished, or with an error on cancellation or schedule corruption.
func (e *Engine) Play(ctx context.Context, schedule *dispatch.Schedule) iter.Seq2[*Snapshot, error] {
	return func(yield func(*Snapshot, error) bool) {
		sim, err := newSimulation(e.opts, schedule)
		if err != nil {
			yield(nil, err)
			return
		}

		for {
			if err := ctx.Err(); err != nil {
				yield(nil, fmt.Errorf("playback interrupted at tick %d: %w", sim.tick, err))
				return
			}
			if sim.tick > 0 {
				sim.advance()
			}
			if err := sim.settle(); err != nil {
				yield(nil, err)
				return
			}

			snapshot := sim.snapshot()
			if !yield(snapshot, nil) || snapshot.Done() {
				return
			}
			sim.tick++
		}
	}
}

// Ticks converts a duration to whole ticks, rounding up
func (e *Engine) Ticks(d float64) int {
	return toTicks(d, e.opts.TickDuration)
}

func toTicks(d, tick float64) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d/tick - tickEpsilon))
}

type stepKind int

const (
	stepStart stepKind = iota
	stepTravel
	stepLoad
	stepUnload
)

// step is one activity of a vehicle's plan
type step struct {
	kind   stepKind
	ticks  int
	site   shared.SiteID
	pickup int
	// startTick is the earliest tick a stepStart lets the trip begin
	startTick int
}

type vehicleState struct {
	index     int
	steps     []step
	next      int
	current   *step
	activity  Activity
	remaining int
	location  shared.SiteID
	target    shared.SiteID
	cargo     int
	trips     int
	assigned  int
	waitTicks int
}

// simulation is the mutable state of one Play call
type simulation struct {
	tick      int
	tickSize  float64
	depot     shared.SiteID
	capacity  int
	vehicles  []*vehicleState
	mines     []shared.SiteID
	stock     map[shared.SiteID]int
	mineBays  map[shared.SiteID]*bay
	depotBay  *bay
	delivered int
	total     int
}

func newSimulation(opts Options, schedule *dispatch.Schedule) (*simulation, error) {
	if schedule == nil {
		return nil, shared.NewValidationError("schedule", "is required")
	}
	sim := &simulation{
		tickSize: opts.TickDuration,
		depot:    schedule.Depot,
		capacity: schedule.Capacity,
		stock:    make(map[shared.SiteID]int, len(schedule.Stock)),
		mineBays: make(map[shared.SiteID]*bay, len(schedule.Stock)),
		depotBay: newBay(opts.UnloadBays),
	}
	for _, s := range schedule.Stock {
		sim.mines = append(sim.mines, s.Mine)
		sim.stock[s.Mine] = s.Initial
		sim.mineBays[s.Mine] = newBay(1)
		sim.total += s.Initial
	}

	for v := 0; v < schedule.FleetSize; v++ {
		sim.vehicles = append(sim.vehicles, &vehicleState{
			index:    v,
			activity: ActivityIdle,
			location: schedule.Depot,
		})
	}

	for _, a := range schedule.Assignments {
		if a.Vehicle < 0 || a.Vehicle >= len(sim.vehicles) {
			return nil, shared.NewScheduleCorruptionError(a.Vehicle, 0, "vehicle index outside the fleet")
		}
		if a.Trip == nil {
			return nil, shared.NewScheduleCorruptionError(a.Vehicle, 0, "assignment without a trip")
		}
		if len(a.Trip.Legs) != len(a.Trip.Visits)+1 {
			return nil, shared.NewScheduleCorruptionError(a.Vehicle, 0, fmt.Sprintf("trip has %d legs for %d visits", len(a.Trip.Legs), len(a.Trip.Visits)))
		}

		v := sim.vehicles[a.Vehicle]
		v.assigned++
		v.steps = append(v.steps, step{kind: stepStart, startTick: toTicks(a.StartTime, sim.tickSize)})
		for i, visit := range a.Trip.Visits {
			if _, ok := sim.stock[visit.Mine]; !ok {
				return nil, shared.NewScheduleCorruptionError(a.Vehicle, 0, fmt.Sprintf("trip visits unknown mine %s", visit.Mine))
			}
			leg := a.Trip.Legs[i]
			v.steps = append(v.steps,
				step{kind: stepTravel, ticks: toTicks(leg.TravelTime, sim.tickSize), site: leg.To},
				step{kind: stepLoad, ticks: toTicks(visit.LoadTime, sim.tickSize), site: visit.Mine, pickup: visit.Pickup},
			)
		}
		home := a.Trip.Legs[len(a.Trip.Legs)-1]
		v.steps = append(v.steps,
			step{kind: stepTravel, ticks: toTicks(home.TravelTime, sim.tickSize), site: home.To},
			step{kind: stepUnload, ticks: toTicks(a.Trip.UnloadTime, sim.tickSize), site: schedule.Depot},
		)
	}

	return sim, nil
}

// advance moves every timed activity one tick forward
func (s *simulation) advance() {
	for _, v := range s.vehicles {
		switch {
		case v.activity == ActivityWaiting:
			v.waitTicks++
		case v.activity.IsTimed() && v.remaining > 0:
			v.remaining--
		}
	}
}

// settle completes finished activities and starts the following ones until
// nothing changes. Vehicles are visited in index order on every pass so bay
// queues fill deterministically.
func (s *simulation) settle() error {
	for {
		changed := false
		for _, v := range s.vehicles {
			moved, err := s.resolve(v)
			if err != nil {
				return err
			}
			changed = changed || moved
		}
		if !changed {
			return nil
		}
	}
}

func (s *simulation) resolve(v *vehicleState) (bool, error) {
	changed := false
	for {
		switch {
		case v.activity == ActivityFinished:
			return changed, nil

		case v.activity == ActivityWaiting:
			if !s.bayFor(v.current).promote(v.index) {
				return changed, nil
			}
			v.activity = activityFor(v.current.kind)
			v.remaining = v.current.ticks
			changed = true

		case v.remaining > 0:
			return changed, nil

		default:
			if err := s.complete(v); err != nil {
				return changed, err
			}
			s.startNext(v)
			changed = true
		}
	}
}

func (s *simulation) bayFor(st *step) *bay {
	if st.kind == stepUnload {
		return s.depotBay
	}
	return s.mineBays[st.site]
}

func activityFor(kind stepKind) Activity {
	if kind == stepUnload {
		return ActivityUnloading
	}
	return ActivityLoading
}

// complete applies the effect of the vehicle's finished activity
func (s *simulation) complete(v *vehicleState) error {
	st := v.current
	if st == nil {
		return nil
	}
	v.current = nil

	switch st.kind {
	case stepTravel:
		v.location = st.site
		v.target = ""

	case stepLoad:
		if st.pickup > s.stock[st.site] {
			return shared.NewScheduleCorruptionError(v.index, s.tick, fmt.Sprintf("pickup of %d at %s exceeds remaining %d", st.pickup, st.site, s.stock[st.site]))
		}
		if v.cargo+st.pickup > s.capacity {
			return shared.NewScheduleCorruptionError(v.index, s.tick, fmt.Sprintf("cargo %d exceeds capacity %d", v.cargo+st.pickup, s.capacity))
		}
		s.stock[st.site] -= st.pickup
		v.cargo += st.pickup
		s.mineBays[st.site].release(v.index)
		v.target = ""

	case stepUnload:
		s.delivered += v.cargo
		v.cargo = 0
		v.trips++
		s.depotBay.release(v.index)
		v.target = ""
	}
	return nil
}

// startNext begins the vehicle's next step. Zero-tick activities are left with
// nothing remaining and complete in the same resolve loop.
func (s *simulation) startNext(v *vehicleState) {
	if v.next >= len(v.steps) {
		v.activity = ActivityFinished
		v.remaining = 0
		v.target = ""
		return
	}

	st := &v.steps[v.next]
	v.next++
	v.current = st

	switch st.kind {
	case stepStart:
		v.activity = ActivityIdle
		v.remaining = max(0, st.startTick-s.tick)

	case stepTravel:
		v.activity = ActivityTraveling
		v.remaining = st.ticks
		v.target = st.site

	case stepLoad, stepUnload:
		v.target = st.site
		if s.bayFor(st).request(v.index) {
			v.activity = activityFor(st.kind)
			v.remaining = st.ticks
		} else {
			v.activity = ActivityWaiting
			v.remaining = 0
		}
	}
}

func (s *simulation) snapshot() *Snapshot {
	snap := &Snapshot{
		Tick:       s.tick,
		Time:       float64(s.tick) * s.tickSize,
		Vehicles:   make([]VehicleStatus, len(s.vehicles)),
		Mines:      make([]MineLevel, len(s.mines)),
		Delivered:  s.delivered,
		Total:      s.total,
		DepotQueue: s.depotBay.waiting(),
	}
	for i, v := range s.vehicles {
		snap.Vehicles[i] = VehicleStatus{
			Vehicle:        v.index,
			Activity:       v.activity,
			Location:       v.location,
			Target:         v.target,
			RemainingTicks: v.remaining,
			Cargo:          v.cargo,
			TripsCompleted: v.trips,
			TripsAssigned:  v.assigned,
			WaitTicks:      v.waitTicks,
		}
	}
	for i, mine := range s.mines {
		b := s.mineBays[mine]
		snap.Mines[i] = MineLevel{
			Mine:      mine,
			Remaining: s.stock[mine],
			Queue:     b.waiting(),
			Loading:   b.occupant(),
		}
	}
	return snap
}
