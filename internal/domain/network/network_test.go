package network_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/domain/network"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

func sites(t *testing.T) []*shared.Site {
	depot, err := shared.NewDepot("D")
	require.NoError(t, err)
	m1, err := shared.NewMine("M1", 60)
	require.NoError(t, err)
	m2, err := shared.NewMine("M2", 40)
	require.NoError(t, err)
	return []*shared.Site{depot, m1, m2}
}

func TestNewNetwork_BuildsSortedAdjacency(t *testing.T) {
	// Arrange
	edges := []network.Edge{
		{From: "D", To: "M2", Distance: 8},
		{From: "D", To: "M1", Distance: 5},
		{From: "M1", To: "M2", Distance: 3},
	}

	// Act
	net, err := network.NewNetwork(sites(t), edges)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, shared.SiteID("D"), net.Depot())
	assert.Equal(t, []shared.SiteID{"M1", "M2"}, net.Mines())
	assert.Equal(t, []int{60, 40}, net.InitialMaterial())
	assert.Equal(t, 3, net.SiteCount())
	assert.Equal(t, 3, net.EdgeCount())

	neighbors := net.Neighbors("D")
	require.Len(t, neighbors, 2)
	assert.Equal(t, shared.SiteID("M1"), neighbors[0].Site)
	assert.Equal(t, shared.SiteID("M2"), neighbors[1].Site)
	assert.Len(t, net.Neighbors("M2"), 2)
}

func TestNewNetwork_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		sites  func(t *testing.T) []*shared.Site
		edges  []network.Edge
		target any
	}{
		{
			name:   "negative distance",
			sites:  sites,
			edges:  []network.Edge{{From: "D", To: "M1", Distance: -1}},
			target: new(*shared.InfeasibleConfigError),
		},
		{
			name:   "NaN distance",
			sites:  sites,
			edges:  []network.Edge{{From: "D", To: "M1", Distance: math.NaN()}},
			target: new(*shared.InfeasibleConfigError),
		},
		{
			name:   "unknown endpoint",
			sites:  sites,
			edges:  []network.Edge{{From: "D", To: "M9", Distance: 1}},
			target: new(*shared.UnknownSiteError),
		},
		{
			name: "second depot",
			sites: func(t *testing.T) []*shared.Site {
				other, err := shared.NewDepot("D2")
				require.NoError(t, err)
				return append(sites(t), other)
			},
			target: new(*shared.ValidationError),
		},
		{
			name: "no depot",
			sites: func(t *testing.T) []*shared.Site {
				return sites(t)[1:]
			},
			target: new(*shared.ValidationError),
		},
		{
			name: "duplicate id",
			sites: func(t *testing.T) []*shared.Site {
				all := sites(t)
				return append(all, all[1])
			},
			target: new(*shared.ValidationError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := network.NewNetwork(tt.sites(t), tt.edges)

			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
		})
	}
}

func TestNewNetwork_AcceptsZeroDistanceAndSelfLoop(t *testing.T) {
	edges := []network.Edge{
		{From: "D", To: "M1", Distance: 0},
		{From: "M2", To: "M2", Distance: 4},
	}

	net, err := network.NewNetwork(sites(t), edges)

	require.NoError(t, err)
	assert.Len(t, net.Neighbors("M2"), 1)
}

func TestAnalyzeConnectivity_ReportsStrandedMines(t *testing.T) {
	// Arrange
	net, err := network.NewNetwork(sites(t), []network.Edge{{From: "D", To: "M1", Distance: 5}})
	require.NoError(t, err)

	// Act
	report := network.AnalyzeConnectivity(net)

	// Assert
	assert.False(t, report.IsConnected())
	require.Len(t, report.Components, 2)
	assert.True(t, report.Components[0].HasDepot)
	assert.Equal(t, []shared.SiteID{"D", "M1"}, report.Components[0].Sites)
	assert.Equal(t, []shared.SiteID{"M2"}, report.Components[1].Sites)
	assert.Equal(t, []shared.SiteID{"M2"}, report.StrandedMines)
}

func TestAnalyzeConnectivity_ConnectedNetwork(t *testing.T) {
	net, err := network.NewNetwork(sites(t), []network.Edge{
		{From: "D", To: "M1", Distance: 5},
		{From: "M1", To: "M2", Distance: 3},
	})
	require.NoError(t, err)

	report := network.AnalyzeConnectivity(net)

	assert.True(t, report.IsConnected())
	assert.Empty(t, report.StrandedMines)
}
