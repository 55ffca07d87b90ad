package routing

import (
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// DistanceOracle answers shortest-path queries between two sites of a network.
// Implementations must be idempotent and safe for concurrent use.
type DistanceOracle interface {
	Shortest(from, to shared.SiteID) (Route, error)
}

// Route is a shortest path between two sites
type Route struct {
	From shared.SiteID
	To   shared.SiteID
	// Cost is the summed edge distance along Path
	Cost float64
	// Path starts with From and ends with To; a site routed to itself has a single element
	Path []shared.SiteID
}

// Hops returns the number of edges traversed
func (r Route) Hops() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}
