package routing_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/domain/routing"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
	"github.com/andrescamacho/minehaul-go/test/helpers"
)

func TestDijkstraOracle_ShortestPrefersCheaperDetour(t *testing.T) {
	// Arrange - direct D-M2 is 20, the detour through M1 is 5+3
	net := helpers.NewTestNetwork(t,
		[]helpers.SiteSpec{helpers.Depot("D"), helpers.Mine("M1", 1), helpers.Mine("M2", 1)},
		helpers.Road("D", "M1", 5),
		helpers.Road("D", "M2", 20),
		helpers.Road("M1", "M2", 3),
	)
	oracle := routing.NewDijkstraOracle(net)

	// Act
	route, err := oracle.Shortest("D", "M2")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 8.0, route.Cost)
	assert.Equal(t, []shared.SiteID{"D", "M1", "M2"}, route.Path)
	assert.Equal(t, 2, route.Hops())
}

func TestDijkstraOracle_IsSymmetric(t *testing.T) {
	net := helpers.TriangleNetwork(t)
	oracle := routing.NewDijkstraOracle(net)

	for _, a := range net.Sites() {
		for _, b := range net.Sites() {
			forward, err := oracle.Shortest(a, b)
			require.NoError(t, err)
			backward, err := oracle.Shortest(b, a)
			require.NoError(t, err)

			assert.Equal(t, forward.Cost, backward.Cost, "%s <-> %s", a, b)
			require.Len(t, backward.Path, len(forward.Path))
			for i := range forward.Path {
				assert.Equal(t, forward.Path[i], backward.Path[len(backward.Path)-1-i])
			}
		}
	}
}

func TestDijkstraOracle_SelfRouteIsFree(t *testing.T) {
	oracle := routing.NewDijkstraOracle(helpers.TriangleNetwork(t))

	route, err := oracle.Shortest("M1", "M1")

	require.NoError(t, err)
	assert.Equal(t, 0.0, route.Cost)
	assert.Equal(t, []shared.SiteID{"M1"}, route.Path)
	assert.Equal(t, 0, route.Hops())
}

func TestDijkstraOracle_Unreachable(t *testing.T) {
	oracle := routing.NewDijkstraOracle(helpers.StrandedMineNetwork(t))

	_, err := oracle.Shortest("M2", "D")

	var unreachable *shared.UnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, shared.SiteID("M2"), unreachable.From)
	assert.Equal(t, shared.SiteID("D"), unreachable.To)
}

func TestDijkstraOracle_UnknownSite(t *testing.T) {
	oracle := routing.NewDijkstraOracle(helpers.TriangleNetwork(t))

	_, err := oracle.Shortest("D", "NOPE")

	var unknown *shared.UnknownSiteError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, shared.SiteID("NOPE"), unknown.Site)
}

func TestDijkstraOracle_Reachable(t *testing.T) {
	oracle := routing.NewDijkstraOracle(helpers.StrandedMineNetwork(t))

	reachable, err := oracle.Reachable("D")

	require.NoError(t, err)
	assert.True(t, reachable["D"])
	assert.True(t, reachable["M1"])
	assert.False(t, reachable["M2"])
}

func TestDijkstraOracle_ConcurrentLookupsAgree(t *testing.T) {
	// Arrange
	oracle := routing.NewDijkstraOracle(helpers.TriangleNetwork(t))
	const goroutines = 16
	costs := make([]float64, goroutines)

	// Act
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			route, err := oracle.Shortest("M2", "D")
			if err == nil {
				costs[i] = route.Cost
			}
		}(i)
	}
	wg.Wait()

	// Assert
	for _, cost := range costs {
		assert.Equal(t, 8.0, cost)
	}
}
