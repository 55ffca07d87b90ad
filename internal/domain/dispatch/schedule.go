package dispatch

import (
	"fmt"
	"math"
	"time"

	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// makespanTolerance absorbs float summation order differences
const makespanTolerance = 1e-9

// MineStock is the initial material of one mine
type MineStock struct {
	Mine    shared.SiteID `json:"mine"`
	Initial int           `json:"initial"`
}

// Assignment dispatches one trip to one vehicle
type Assignment struct {
	Vehicle   int     `json:"vehicle"`
	Trip      *Trip   `json:"trip"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
}

// EndTime is when the vehicle is back at the depot and unloaded
func (a Assignment) EndTime() float64 { return a.StartTime + a.Duration }

// Schedule is the machine-readable output of a solve. Assignments are in
// dispatch order; per vehicle they are also in start time order.
type Schedule struct {
	Depot       shared.SiteID `json:"depot"`
	Capacity    int           `json:"capacity"`
	FleetSize   int           `json:"fleet_size"`
	Stock       []MineStock   `json:"stock"`
	Makespan    float64       `json:"makespan"`
	Assignments []Assignment  `json:"assignments"`
}

// TripsFor returns the assignments of one vehicle in execution order
func (s *Schedule) TripsFor(vehicle int) []Assignment {
	var trips []Assignment
	for _, a := range s.Assignments {
		if a.Vehicle == vehicle {
			trips = append(trips, a)
		}
	}
	return trips
}

// TotalMaterial sums the initial stock
func (s *Schedule) TotalMaterial() int {
	total := 0
	for _, stock := range s.Stock {
		total += stock.Initial
	}
	return total
}

func newSchedule(problem *Problem) *Schedule {
	params := problem.Params()
	schedule := &Schedule{
		Depot:     problem.Depot(),
		Capacity:  params.Capacity,
		FleetSize: params.FleetSize,
	}
	stock := problem.Stock()
	for i, mine := range problem.Mines() {
		schedule.Stock = append(schedule.Stock, MineStock{Mine: mine, Initial: stock[i]})
	}
	return schedule
}

// SolveStats describes the work one solve did
type SolveStats struct {
	Strategy       string        `json:"strategy"`
	StatesExpanded int64         `json:"states_expanded"`
	MemoHits       int64         `json:"memo_hits"`
	MemoSize       int           `json:"memo_size"`
	Duration       time.Duration `json:"duration"`
}

// Plan is a solved dispatch problem
type Plan struct {
	Makespan float64
	Schedule *Schedule
	Stats    SolveStats
}

// VerifySchedule re-checks a schedule against its problem: trip feasibility,
// capacity, non-overlapping vehicle time, full depletion, every vehicle ending
// at the depot and the reported makespan.
func VerifySchedule(problem *Problem, schedule *Schedule) error {
	if schedule == nil {
		return shared.NewValidationError("schedule", "is required")
	}
	params := problem.Params()
	if schedule.FleetSize != params.FleetSize {
		return shared.NewValidationError("fleet_size", fmt.Sprintf("schedule has %d vehicles, problem has %d", schedule.FleetSize, params.FleetSize))
	}

	remaining := problem.Stock()
	free := make([]float64, params.FleetSize)
	makespan := 0.0

	for n, a := range schedule.Assignments {
		field := fmt.Sprintf("assignments[%d]", n)
		if a.Vehicle < 0 || a.Vehicle >= params.FleetSize {
			return shared.NewValidationError(field, fmt.Sprintf("vehicle %d out of range", a.Vehicle))
		}
		if a.Trip == nil || len(a.Trip.Visits) == 0 {
			return shared.NewValidationError(field, "trip visits no mine")
		}
		if a.Trip.Depot != problem.Depot() {
			return shared.NewValidationError(field, fmt.Sprintf("trip ends at %s instead of the depot", a.Trip.Depot))
		}
		if a.StartTime+makespanTolerance < free[a.Vehicle] {
			return shared.NewValidationError(field, fmt.Sprintf("vehicle %d starts at %.3f before finishing its previous trip at %.3f", a.Vehicle, a.StartTime, free[a.Vehicle]))
		}

		load := 0
		for _, visit := range a.Trip.Visits {
			idx, ok := problem.MineIndex(visit.Mine)
			if !ok {
				return shared.NewValidationError(field, fmt.Sprintf("visits unknown mine %s", visit.Mine))
			}
			if visit.Pickup <= 0 {
				return shared.NewValidationError(field, fmt.Sprintf("empty pickup at %s", visit.Mine))
			}
			if visit.Pickup > remaining[idx] {
				return shared.NewValidationError(field, fmt.Sprintf("picks up %d at %s which only holds %d", visit.Pickup, visit.Mine, remaining[idx]))
			}
			remaining[idx] -= visit.Pickup
			load += visit.Pickup
		}
		if load > params.Capacity {
			return shared.NewValidationError(field, fmt.Sprintf("load %d exceeds capacity %d", load, params.Capacity))
		}

		free[a.Vehicle] = a.EndTime()
		makespan = math.Max(makespan, a.EndTime())
	}

	for i, mine := range problem.Mines() {
		if remaining[i] != 0 {
			return shared.NewValidationError("assignments", fmt.Sprintf("mine %s keeps %d units", mine, remaining[i]))
		}
	}
	if math.Abs(makespan-schedule.Makespan) > makespanTolerance*math.Max(1, makespan) {
		return shared.NewValidationError("makespan", fmt.Sprintf("reported %.6f, trips end at %.6f", schedule.Makespan, makespan))
	}
	return nil
}
