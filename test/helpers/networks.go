package helpers

import (
	"testing"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/network"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// SiteSpec describes a fixture site; Material > 0 or Mine marks a mine
type SiteSpec struct {
	ID       string
	Mine     bool
	Material int
}

// Depot returns a depot fixture
func Depot(id string) SiteSpec { return SiteSpec{ID: id} }

// Mine returns a mine fixture
func Mine(id string, material int) SiteSpec { return SiteSpec{ID: id, Mine: true, Material: material} }

// Road returns an undirected edge fixture
func Road(from, to string, distance float64) network.Edge {
	return network.Edge{From: shared.SiteID(from), To: shared.SiteID(to), Distance: distance}
}

// NewTestNetwork builds a network from fixtures and fails the test on error
func NewTestNetwork(t *testing.T, sites []SiteSpec, edges ...network.Edge) *network.Network {
	t.Helper()
	built := make([]*shared.Site, 0, len(sites))
	for _, fixture := range sites {
		var (
			site *shared.Site
			err  error
		)
		if fixture.Mine {
			site, err = shared.NewMine(shared.SiteID(fixture.ID), fixture.Material)
		} else {
			site, err = shared.NewDepot(shared.SiteID(fixture.ID))
		}
		if err != nil {
			t.Fatalf("invalid fixture site %s: %v", fixture.ID, err)
		}
		built = append(built, site)
	}

	net, err := network.NewNetwork(built, edges)
	if err != nil {
		t.Fatalf("invalid fixture network: %v", err)
	}
	return net
}

// NewTestProblem builds a problem and fails the test on error
func NewTestProblem(t *testing.T, net *network.Network, params dispatch.Parameters) *dispatch.Problem {
	t.Helper()
	problem, err := dispatch.NewProblem(net, params)
	if err != nil {
		t.Fatalf("invalid fixture problem: %v", err)
	}
	return problem
}

// SingleMineNetwork is D - M1(50) at distance 10
func SingleMineNetwork(t *testing.T) *network.Network {
	return NewTestNetwork(t,
		[]SiteSpec{Depot("D"), Mine("M1", 50)},
		Road("D", "M1", 10),
	)
}

// TriangleNetwork is D, M1(60), M2(40) with D-M1=5, D-M2=8, M1-M2=3
func TriangleNetwork(t *testing.T) *network.Network {
	return NewTestNetwork(t,
		[]SiteSpec{Depot("D"), Mine("M1", 60), Mine("M2", 40)},
		Road("D", "M1", 5),
		Road("D", "M2", 8),
		Road("M1", "M2", 3),
	)
}

// ForkNetwork has two mines on separate spurs: D-A=10 and D-B=6, no A-B road
func ForkNetwork(t *testing.T) *network.Network {
	return NewTestNetwork(t,
		[]SiteSpec{Depot("D"), Mine("A", 10), Mine("B", 10)},
		Road("D", "A", 10),
		Road("D", "B", 6),
	)
}

// StrandedMineNetwork leaves M2 without any road
func StrandedMineNetwork(t *testing.T) *network.Network {
	return NewTestNetwork(t,
		[]SiteSpec{Depot("D"), Mine("M1", 10), Mine("M2", 5)},
		Road("D", "M1", 4),
	)
}
