package dispatch

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/minehaul-go/internal/domain/routing"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// Visit is one mine stop of a trip
type Visit struct {
	Mine     shared.SiteID `json:"mine"`
	Pickup   int           `json:"pickup"`
	LoadTime float64       `json:"load_time"`
}

// Leg is the drive between two consecutive stops of a trip
type Leg struct {
	From       shared.SiteID   `json:"from"`
	To         shared.SiteID   `json:"to"`
	Path       []shared.SiteID `json:"path"`
	Distance   float64         `json:"distance"`
	TravelTime float64         `json:"travel_time"`
}

// Trip is one vehicle excursion: leave the origin, visit one or more mines in
// a fixed order, drive back to the depot and unload.
// Legs has one entry per visit plus the final leg to the depot.
type Trip struct {
	Origin     shared.SiteID `json:"origin"`
	Depot      shared.SiteID `json:"depot"`
	Visits     []Visit       `json:"visits"`
	Legs       []Leg         `json:"legs"`
	UnloadTime float64       `json:"unload_time"`
	Duration   float64       `json:"duration"`
}

// Load returns the material the trip brings back
func (t *Trip) Load() int {
	total := 0
	for _, v := range t.Visits {
		total += v.Pickup
	}
	return total
}

// Mines returns the visited mines in visiting order
func (t *Trip) Mines() []shared.SiteID {
	mines := make([]shared.SiteID, len(t.Visits))
	for i, v := range t.Visits {
		mines[i] = v.Mine
	}
	return mines
}

// TravelTime is the driving part of the trip duration
func (t *Trip) TravelTime() float64 {
	total := 0.0
	for _, leg := range t.Legs {
		total += leg.TravelTime
	}
	return total
}

func (t *Trip) String() string {
	stops := []string{string(t.Origin)}
	for _, v := range t.Visits {
		stops = append(stops, fmt.Sprintf("%s(%d)", v.Mine, v.Pickup))
	}
	stops = append(stops, string(t.Depot))
	return fmt.Sprintf("%s [%.2f]", strings.Join(stops, " -> "), t.Duration)
}

// tripBuilder turns a visiting order into a costed Trip
type tripBuilder struct {
	problem *Problem
	oracle  routing.DistanceOracle
}

func (b *tripBuilder) leg(from, to shared.SiteID) (Leg, error) {
	route, err := b.oracle.Shortest(from, to)
	if err != nil {
		return Leg{}, err
	}
	return Leg{
		From:       from,
		To:         to,
		Path:       route.Path,
		Distance:   route.Cost,
		TravelTime: route.Cost * b.problem.params.TimePerDistance,
	}, nil
}

// finish closes a trip whose visits and outbound legs are already known
func (b *tripBuilder) finish(origin shared.SiteID, visits []Visit, legs []Leg) (*Trip, error) {
	last := origin
	if len(visits) > 0 {
		last = visits[len(visits)-1].Mine
	}
	home, err := b.leg(last, b.problem.Depot())
	if err != nil {
		return nil, err
	}

	trip := &Trip{
		Origin:     origin,
		Depot:      b.problem.Depot(),
		Visits:     append([]Visit(nil), visits...),
		Legs:       append(append([]Leg(nil), legs...), home),
		UnloadTime: b.problem.params.UnloadTime,
	}
	for _, leg := range trip.Legs {
		trip.Duration += leg.TravelTime
	}
	for _, v := range trip.Visits {
		trip.Duration += v.LoadTime
	}
	trip.Duration += trip.UnloadTime
	return trip, nil
}
