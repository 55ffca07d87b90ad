package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/playback"
)

// ScheduleFormatter renders schedules as per-vehicle trees and snapshots as status lines
type ScheduleFormatter struct {
	showPaths bool
}

// NewScheduleFormatter creates a new schedule formatter
func NewScheduleFormatter(showPaths bool) *ScheduleFormatter {
	return &ScheduleFormatter{showPaths: showPaths}
}

// FormatSchedule renders every vehicle with its trips in execution order
func (f *ScheduleFormatter) FormatSchedule(schedule *dispatch.Schedule) string {
	if schedule == nil {
		return "(empty schedule)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Depot %s, %d vehicle(s) of capacity %d, makespan %s\n",
		schedule.Depot, schedule.FleetSize, schedule.Capacity, formatNumber(schedule.Makespan))

	for vehicle := 0; vehicle < schedule.FleetSize; vehicle++ {
		trips := schedule.TripsFor(vehicle)
		fmt.Fprintf(&b, "Vehicle %d (%d trips)\n", vehicle, len(trips))
		if len(trips) == 0 {
			b.WriteString("└── idle\n")
			continue
		}
		for i, a := range trips {
			last := i == len(trips)-1
			branch, indent := "├── ", "│   "
			if last {
				branch, indent = "└── ", "    "
			}
			fmt.Fprintf(&b, "%s[%s → %s] %s\n", branch,
				formatNumber(a.StartTime), formatNumber(a.EndTime()), f.formatTrip(a.Trip))
			if f.showPaths {
				for _, leg := range a.Trip.Legs {
					fmt.Fprintf(&b, "%s    %s (%s)\n", indent, joinPath(leg), formatNumber(leg.TravelTime))
				}
			}
		}
	}
	return b.String()
}

func (f *ScheduleFormatter) formatTrip(trip *dispatch.Trip) string {
	stops := make([]string, 0, len(trip.Visits))
	for _, v := range trip.Visits {
		stops = append(stops, fmt.Sprintf("%s×%d", v.Mine, v.Pickup))
	}
	return fmt.Sprintf("%s → %s → %s, load %d", trip.Origin, strings.Join(stops, " → "), trip.Depot, trip.Load())
}

func joinPath(leg dispatch.Leg) string {
	parts := make([]string, len(leg.Path))
	for i, site := range leg.Path {
		parts[i] = string(site)
	}
	return strings.Join(parts, " - ")
}

// FormatSnapshot renders one tick as a single status line
func (f *ScheduleFormatter) FormatSnapshot(s *playback.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tick %4d  t=%-7s delivered %d/%d (%5.1f%%)", s.Tick, formatNumber(s.Time), s.Delivered, s.Total, s.Progress())
	for _, v := range s.Vehicles {
		fmt.Fprintf(&b, "  V%d:%s", v.Vehicle, f.vehicleState(v))
	}
	if s.DepotQueue > 0 {
		fmt.Fprintf(&b, "  depot queue %d", s.DepotQueue)
	}
	return b.String()
}

func (f *ScheduleFormatter) vehicleState(v playback.VehicleStatus) string {
	switch v.Activity {
	case playback.ActivityTraveling:
		return fmt.Sprintf("%s→%s", v.Location, v.Target)
	case playback.ActivityWaiting:
		return fmt.Sprintf("WAIT@%s", v.Target)
	case playback.ActivityLoading, playback.ActivityUnloading:
		return fmt.Sprintf("%s@%s", v.Activity, v.Location)
	default:
		return string(v.Activity)
	}
}

// FormatSummary renders the outcome of a playback
func (f *ScheduleFormatter) FormatSummary(s *playback.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Finished at tick %d (time %s, planned makespan %s)\n", s.FinalTick, formatNumber(s.Time), formatNumber(s.PlannedMakespan))
	fmt.Fprintf(&b, "Delivered %d/%d (%.1f%%), efficiency %.3f per vehicle per time unit\n", s.Delivered, s.Total, s.Progress(), s.Efficiency)
	for _, v := range s.Vehicles {
		fmt.Fprintf(&b, "  vehicle %d: %d trips, waited %d ticks\n", v.Vehicle, v.Trips, v.WaitTicks)
	}
	return b.String()
}
