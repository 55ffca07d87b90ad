package playback

import (
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// VehicleStatus is one vehicle at the end of a tick
type VehicleStatus struct {
	Vehicle  int           `json:"vehicle"`
	Activity Activity      `json:"activity"`
	Location shared.SiteID `json:"location"`
	// Target is the leg destination while traveling or the bay site while waiting
	Target shared.SiteID `json:"target,omitempty"`
	// RemainingTicks is how long the current activity still lasts (0 while waiting)
	RemainingTicks int `json:"remaining_ticks"`
	Cargo          int `json:"cargo"`
	TripsCompleted int `json:"trips_completed"`
	TripsAssigned  int `json:"trips_assigned"`
	WaitTicks      int `json:"wait_ticks"`
}

// MineLevel is the material still in a mine
type MineLevel struct {
	Mine      shared.SiteID `json:"mine"`
	Remaining int           `json:"remaining"`
	// Queue is the number of vehicles waiting for the loading bay
	Queue int `json:"queue"`
	// Loading is the vehicle holding the bay, -1 when free
	Loading int `json:"loading"`
}

// Snapshot is the fleet state at the end of one tick
type Snapshot struct {
	Tick      int             `json:"tick"`
	Time      float64         `json:"time"`
	Vehicles  []VehicleStatus `json:"vehicles"`
	Mines     []MineLevel     `json:"mines"`
	Delivered int             `json:"delivered"`
	Total     int             `json:"total"`
	// DepotQueue is the number of vehicles waiting to unload
	DepotQueue int `json:"depot_queue"`
}

// InTransit returns the material currently carried by the fleet
func (s *Snapshot) InTransit() int {
	total := 0
	for _, v := range s.Vehicles {
		total += v.Cargo
	}
	return total
}

// InMines returns the material not yet loaded
func (s *Snapshot) InMines() int {
	total := 0
	for _, m := range s.Mines {
		total += m.Remaining
	}
	return total
}

// Progress is the delivered share of all material in percent
func (s *Snapshot) Progress() float64 {
	if s.Total == 0 {
		return 100
	}
	return float64(s.Delivered) / float64(s.Total) * 100
}

// Done reports whether every vehicle has finished
func (s *Snapshot) Done() bool {
	for _, v := range s.Vehicles {
		if v.Activity != ActivityFinished {
			return false
		}
	}
	return true
}

// Count returns how many vehicles are in the given activity
func (s *Snapshot) Count(activity Activity) int {
	n := 0
	for _, v := range s.Vehicles {
		if v.Activity == activity {
			n++
		}
	}
	return n
}
