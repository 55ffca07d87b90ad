package scenario_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/adapters/scenario"
	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

func TestLoadYAML_Triangle(t *testing.T) {
	// Act
	sc, err := scenario.Load(filepath.Join("testdata", "triangle.yaml"), scenario.Overrides{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "triangle", sc.Name)
	assert.Equal(t, 100, sc.Params.Capacity)
	assert.Equal(t, 1.0, sc.Params.TimePerDistance)
	assert.Equal(t, 2.0, sc.Params.LoadTimes["M2"])
	assert.Equal(t, []shared.SiteID{"M1", "M2"}, sc.Network.Mines())

	problem, err := sc.Problem()
	require.NoError(t, err)
	plan, err := dispatch.NewExactSolver().Solve(context.Background(), problem)
	require.NoError(t, err)
	assert.Equal(t, 18.0, plan.Makespan)
}

func TestLoadYAML_OverridesWin(t *testing.T) {
	sc, err := scenario.Load(filepath.Join("testdata", "triangle.yaml"), scenario.Overrides{FleetSize: 3, Capacity: 30})

	require.NoError(t, err)
	assert.Equal(t, 3, sc.Params.FleetSize)
	assert.Equal(t, 30, sc.Params.Capacity)
}

func TestParseYAML_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown field", doc: "fleet: {size: 1, capacity: 5}\nsurprise: 1\nsites: [{id: D, role: depot}]\n"},
		{name: "missing fleet size", doc: "fleet: {capacity: 5}\nsites: [{id: D, role: depot}]\n"},
		{name: "no sites", doc: "fleet: {size: 1, capacity: 5}\n"},
		{name: "bad role", doc: "fleet: {size: 1, capacity: 5}\nsites: [{id: D, role: castle}]\n"},
		{name: "negative material", doc: "fleet: {size: 1, capacity: 5}\nsites: [{id: D, role: depot}, {id: M, role: mine, material: -1}]\n"},
		{name: "depot with material", doc: "fleet: {size: 1, capacity: 5}\nsites: [{id: D, role: depot, material: 3}]\n"},
		{name: "road to nowhere", doc: "fleet: {size: 1, capacity: 5}\nsites: [{id: D, role: depot}]\nroads: [{from: D, to: X, distance: 1}]\n"},
		{name: "not yaml", doc: "fleet: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.ParseYAML([]byte(tt.doc), scenario.Overrides{})
			assert.Error(t, err)
		})
	}
}

func TestMarshal_RoundTrips(t *testing.T) {
	sc, err := scenario.Load(filepath.Join("testdata", "triangle.yaml"), scenario.Overrides{})
	require.NoError(t, err)

	data, err := scenario.Marshal(sc)
	require.NoError(t, err)
	again, err := scenario.ParseYAML(data, scenario.Overrides{})

	require.NoError(t, err)
	assert.Equal(t, sc.Params, again.Params)
	assert.Equal(t, sc.Network.Edges(), again.Network.Edges())
	assert.Equal(t, sc.Network.Sites(), again.Network.Sites())
}

func TestLoadCSVDir_PitExport(t *testing.T) {
	// Act
	sc, err := scenario.Load(filepath.Join("testdata", "pit"), scenario.Overrides{Capacity: 70})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pit", sc.Name)
	assert.Equal(t, shared.SiteID("Dump_site"), sc.Network.Depot())
	assert.Equal(t, 70, sc.Params.Capacity)

	// J1 only appears in edges.csv and becomes an empty pass-through mine
	j1, err := sc.Network.GetSite("J1")
	require.NoError(t, err)
	assert.True(t, j1.IsMine())
	assert.Equal(t, 0, j1.Material)

	problem, err := sc.Problem()
	require.NoError(t, err)
	assert.Equal(t, 160, problem.TotalMaterial())
}

func TestParseCSV_Rejects(t *testing.T) {
	validNodes := "source,source_capacity\nDump_site,0\nM,5\n"
	validEdges := "source,destination,distance\nDump_site,M,3\n"

	tests := []struct {
		name  string
		edges string
		nodes string
		depot string
	}{
		{name: "missing column", edges: "source,distance\nDump_site,3\n", nodes: validNodes},
		{name: "bad distance", edges: "source,destination,distance\nDump_site,M,far\n", nodes: validNodes},
		{name: "negative distance", edges: "source,destination,distance\nDump_site,M,-2\n", nodes: validNodes},
		{name: "bad capacity", edges: validEdges, nodes: "source,source_capacity\nM,lots\n"},
		{name: "duplicate node", edges: validEdges, nodes: validNodes + "M,7\n"},
		{name: "empty edges", edges: "", nodes: validNodes},
		{name: "depot absent", edges: validEdges, nodes: validNodes, depot: "Crusher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.ParseCSV(strings.NewReader(tt.edges), strings.NewReader(tt.nodes), scenario.CSVOptions{DepotID: tt.depot})
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := scenario.Load("pit.json", scenario.Overrides{})
	assert.ErrorContains(t, err, "unsupported scenario format")
}
