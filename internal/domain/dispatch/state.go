package dispatch

import (
	"encoding/binary"
	"math"
	"sort"
	"strings"

	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// FleetState is the search state: remaining material per mine (mine order)
// plus the elapsed time and location of every vehicle.
// States are values; Apply returns a new state and leaves the receiver alone.
type FleetState struct {
	Remaining []int
	Elapsed   []float64
	Location  []shared.SiteID
}

// Done reports whether every mine is empty
func (s FleetState) Done() bool {
	for _, r := range s.Remaining {
		if r > 0 {
			return false
		}
	}
	return true
}

// Vehicles returns the fleet size
func (s FleetState) Vehicles() int { return len(s.Elapsed) }

// Apply runs trip on vehicle and returns the resulting state
func (s FleetState) Apply(vehicle int, trip *Trip, mineIndex func(shared.SiteID) (int, bool)) (FleetState, error) {
	next := s.clone()
	for _, visit := range trip.Visits {
		idx, ok := mineIndex(visit.Mine)
		if !ok {
			return FleetState{}, shared.NewUnknownSiteError(visit.Mine)
		}
		next.Remaining[idx] -= visit.Pickup
	}
	next.Elapsed[vehicle] += trip.Duration
	next.Location[vehicle] = trip.Depot
	return next, nil
}

// Key encodes the state into a compact memo key. Two states have the same key
// exactly when all three components are equal elementwise.
func (s FleetState) Key() string {
	var b strings.Builder
	b.Grow(len(s.Remaining)*8 + len(s.Elapsed)*16)

	var buf [8]byte
	for _, r := range s.Remaining {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(r)))
		b.Write(buf[:])
	}
	for _, e := range s.Elapsed {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(e))
		b.Write(buf[:])
	}
	for _, loc := range s.Location {
		b.WriteString(string(loc))
		b.WriteByte(0)
	}
	return b.String()
}

func (s FleetState) clone() FleetState {
	return FleetState{
		Remaining: append([]int(nil), s.Remaining...),
		Elapsed:   append([]float64(nil), s.Elapsed...),
		Location:  append([]shared.SiteID(nil), s.Location...),
	}
}

// sameVehicle reports whether two vehicles are indistinguishable
func (s FleetState) sameVehicle(a, b int) bool {
	return s.Elapsed[a] == s.Elapsed[b] && s.Location[a] == s.Location[b]
}

// StateCanonicalizer maps a state to a representative of its equivalence class.
// The returned permutation maps each slot of the canonical state back to the
// vehicle index of the input state.
type StateCanonicalizer interface {
	Canonicalize(state FleetState) (FleetState, []int)
	Name() string
}

// SortedVehicleCanonicalizer collapses permutations of interchangeable
// vehicles by ordering them on (elapsed, location). Equal vehicles keep their
// index order.
type SortedVehicleCanonicalizer struct{}

func (SortedVehicleCanonicalizer) Name() string { return "sorted" }

func (SortedVehicleCanonicalizer) Canonicalize(state FleetState) (FleetState, []int) {
	perm := make([]int, state.Vehicles())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		a, b := perm[i], perm[j]
		if state.Elapsed[a] != state.Elapsed[b] {
			return state.Elapsed[a] < state.Elapsed[b]
		}
		return state.Location[a] < state.Location[b]
	})

	canonical := FleetState{
		Remaining: state.Remaining,
		Elapsed:   make([]float64, len(perm)),
		Location:  make([]shared.SiteID, len(perm)),
	}
	for slot, vehicle := range perm {
		canonical.Elapsed[slot] = state.Elapsed[vehicle]
		canonical.Location[slot] = state.Location[vehicle]
	}
	return canonical, perm
}

// IdentityCanonicalizer keeps every vehicle permutation distinct
type IdentityCanonicalizer struct{}

func (IdentityCanonicalizer) Name() string { return "identity" }

func (IdentityCanonicalizer) Canonicalize(state FleetState) (FleetState, []int) {
	perm := make([]int, state.Vehicles())
	for i := range perm {
		perm[i] = i
	}
	return state, perm
}
